// Package cmd provides shared wiring for the service binaries: the
// persistence backend, event bus, list-name cache, and assistant client
// are all selected from configuration here.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vitgar/business-coach-sub001/pkg/persistence"
	"github.com/vitgar/business-coach-sub001/pkg/persistence/file"
	"github.com/vitgar/business-coach-sub001/pkg/persistence/postgresql"
	"github.com/vitgar/business-coach-sub001/pkg/persistence/sqlite"
)

// NewPersistence selects a backend by the database URL scheme:
// postgres:// for PostgreSQL, sqlite:// for the embedded store, and
// anything else is treated as a directory path for file persistence.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (persistence.Persistence, error) {
	switch parseProvider(databaseURL) {
	case "postgresql":
		return postgresql.NewPersistence(ctx, logger, databaseURL)
	case "sqlite":
		return sqlite.NewPersistence(ctx, logger, databaseURL)
	default:
		return file.NewPersistence(databaseURL), nil
	}
}

func parseProvider(databaseURL string) string {
	scheme, _, found := strings.Cut(databaseURL, "://")
	if !found {
		return "file"
	}

	switch scheme {
	case "postgres", "postgresql":
		return "postgresql"
	case "sqlite":
		return "sqlite"
	default:
		return "file"
	}
}

// MustPersistence is NewPersistence for binaries that cannot start
// without storage.
func MustPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) persistence.Persistence {
	p, err := NewPersistence(ctx, logger, databaseURL)
	if err != nil {
		panic(fmt.Errorf("failed to initialize persistence: %w", err))
	}

	return p
}
