package engine

import (
	"sync"
	"time"
)

type cacheKey struct {
	kind         string
	excludeToday bool
	minute       int64
}

// resultCache memoizes status computations keyed by (kind, flags, minute
// bucket). Eviction is deliberately coarse: when more than the TTL has
// elapsed since the last purge, the whole map is dropped at once. Staleness
// is therefore bounded by TTL + one minute, never finer-grained.
type resultCache struct {
	mu        sync.Mutex
	ttl       time.Duration
	lastPurge time.Time
	entries   map[cacheKey]any
}

func newResultCache(ttl time.Duration) *resultCache {
	return &resultCache{
		ttl:     ttl,
		entries: make(map[cacheKey]any),
	}
}

func (c *resultCache) purgeLocked(now time.Time) {
	if c.lastPurge.IsZero() {
		c.lastPurge = now
		return
	}
	if now.Sub(c.lastPurge) > c.ttl {
		c.entries = make(map[cacheKey]any)
		c.lastPurge = now
	}
}

func (c *resultCache) get(now time.Time, key cacheKey) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.purgeLocked(now)
	v, ok := c.entries[key]
	return v, ok
}

func (c *resultCache) put(now time.Time, key cacheKey, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.purgeLocked(now)
	c.entries[key] = v
}

func (c *resultCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func minuteBucket(now time.Time) int64 {
	return now.Truncate(time.Minute).Unix()
}
