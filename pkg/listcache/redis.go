package listcache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const keyPrefix = "coach:listname:"

// Redis is a shared TTL cache for multi-instance deployments. Cache
// misses are silent; Redis failures degrade to misses rather than
// surfacing errors to the read path.
type Redis struct {
	client redis.UniversalClient
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedis creates a Redis-backed cache from a redis:// URL. A
// non-positive ttl falls back to DefaultTTL.
func NewRedis(url string, ttl time.Duration, logger *slog.Logger) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}

	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Redis{
		client: redis.NewClient(opts),
		ttl:    ttl,
		logger: logger.With("module", "listcache"),
	}, nil
}

func (r *Redis) Get(ctx context.Context, id string) (string, bool) {
	name, err := r.client.Get(ctx, keyPrefix+id).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.WarnContext(ctx, "list name cache read failed", "id", id, "error", err)
		}

		return "", false
	}

	return name, true
}

func (r *Redis) Set(ctx context.Context, id, name string) {
	err := r.client.Set(ctx, keyPrefix+id, name, r.ttl).Err()
	if err != nil {
		r.logger.WarnContext(ctx, "list name cache write failed", "id", id, "error", err)
	}
}

func (r *Redis) Invalidate(ctx context.Context, id string) {
	err := r.client.Del(ctx, keyPrefix+id).Err()
	if err != nil {
		r.logger.WarnContext(ctx, "list name cache invalidation failed", "id", id, "error", err)
	}
}

// Close releases the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}
