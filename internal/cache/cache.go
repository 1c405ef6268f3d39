package cache

import (
    "context"
    "fmt"
    "time"

    "github.com/google/uuid"
    "github.com/redis/go-redis/v9"
)

// Cache holds short-lived presentational projections (formatted reports,
// serialized rollups). Analysis results are never served from here as a
// source of truth. Implementations must be safe for concurrent use.
type Cache interface {
    Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
    Get(ctx context.Context, key string) ([]byte, bool, error)
    Delete(ctx context.Context, key string) error
    Ping(ctx context.Context) error
}

// ReportKey names a cached formatted report for one tenant.
func ReportKey(tenant uuid.UUID, kind, subject, template string) string {
    return fmt.Sprintf("report:%s:%s:%s:%s", tenant, kind, subject, template)
}

// RedisCache implements Cache using go-redis/v9.
type RedisCache struct {
    client *redis.Client
}

// NewRedisCache creates a RedisCache from a Redis URL.
func NewRedisCache(redisURL string) (*RedisCache, error) {
    opts, err := redis.ParseURL(redisURL)
    if err != nil { return nil, err }
    return &RedisCache{client: redis.NewClient(opts)}, nil
}

func (c *RedisCache) Ping(ctx context.Context) error { return c.client.Ping(ctx).Err() }

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
    return c.client.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
    val, err := c.client.Get(ctx, key).Bytes()
    if err == redis.Nil { return nil, false, nil }
    if err != nil { return nil, false, err }
    return val, true, nil
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
    return c.client.Del(ctx, key).Err()
}

// Noop is used when no Redis URL is configured; every Get is a miss.
type Noop struct{}

func (Noop) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error { return nil }
func (Noop) Get(ctx context.Context, key string) ([]byte, bool, error) { return nil, false, nil }
func (Noop) Delete(ctx context.Context, key string) error { return nil }
func (Noop) Ping(ctx context.Context) error { return nil }
