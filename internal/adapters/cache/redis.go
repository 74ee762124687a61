package cache

import (
	"context"
	"time"

	json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// RedisCache is the shared-store Cache variant for multi-instance
// deployments. Values travel as JSON text; expiry is delegated to Redis
// key TTLs, so Cleanup is a no-op here.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache wraps an existing Redis client with the given TTL.
func NewRedisCache(client *redis.Client, ttl time.Duration) (*RedisCache, error) {
	if client == nil {
		return nil, ErrNilClient
	}
	if ttl <= 0 {
		return nil, ErrInvalidTTL
	}
	return &RedisCache{client: client, ttl: ttl}, nil
}

// Get decodes a live entry into dest. Transport errors and corrupt
// payloads both read as a miss; the caller falls back to the provider.
func (c *RedisCache) Get(ctx context.Context, key string, dest any) bool {
	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(payload, dest) == nil
}

// Set stores value under key with the configured TTL. Failures are
// ignored; the cache is an optimization, never a source of truth.
func (c *RedisCache) Set(ctx context.Context, key string, value any) {
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.client.Set(ctx, key, payload, c.ttl)
}

// Cleanup is a no-op; Redis expires keys on its own.
func (c *RedisCache) Cleanup(_ context.Context) {}
