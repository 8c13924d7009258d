package api

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// responseCache is an optional redis read-through cache for rendered
// responses. It is cache-aside and never authoritative: redis errors read
// as misses and writes are fire-and-forget.
type responseCache struct {
	redis *redis.Client
	ttl   time.Duration
}

func newResponseCache(rdb *redis.Client, ttl time.Duration) *responseCache {
	return &responseCache{redis: rdb, ttl: ttl}
}

func (c *responseCache) read(ctx context.Context, key string, out any) bool {
	if c.redis == nil || c.ttl <= 0 {
		return false
	}
	val, err := c.redis.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(val), out); err != nil {
		return false
	}
	return true
}

func (c *responseCache) write(ctx context.Context, key string, val any) {
	if c.redis == nil || c.ttl <= 0 {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	_ = c.redis.Set(ctx, key, data, c.ttl).Err()
}
