package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/vitgar/business-coach-sub001/pkg/listcache"
)

// NewListCache selects the list-name cache backend: a redis:// URL gets
// the shared Redis cache, an empty URL the in-process one.
func NewListCache(cacheURL string, logger *slog.Logger) listcache.Cache {
	if strings.HasPrefix(cacheURL, "redis://") || strings.HasPrefix(cacheURL, "rediss://") {
		cache, err := listcache.NewRedis(cacheURL, listcache.DefaultTTL, logger)
		if err != nil {
			panic(fmt.Errorf("failed to initialize Redis list cache: %w", err))
		}

		return cache
	}

	return listcache.NewMemory(listcache.DefaultTTL)
}
