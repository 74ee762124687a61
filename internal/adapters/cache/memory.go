package cache

import (
	"context"
	"sync"
	"time"

	json "github.com/goccy/go-json"
)

type memoryEntry struct {
	payload []byte
	expiry  time.Time
}

// MemoryCache is the in-process Cache variant. Values are kept as JSON so
// the behavior matches the Redis variant bit for bit, including the
// corrupt-entry-reads-as-miss rule.
type MemoryCache struct {
	mu    sync.RWMutex
	store map[string]memoryEntry
	ttl   time.Duration
	now   func() time.Time
}

// NewMemoryCache builds an in-process cache with the given TTL.
func NewMemoryCache(ttl time.Duration, opts ...Option) (*MemoryCache, error) {
	if ttl <= 0 {
		return nil, ErrInvalidTTL
	}
	c := &MemoryCache{
		store: make(map[string]memoryEntry),
		ttl:   ttl,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Get decodes a live entry into dest, reporting false for absent, expired,
// or undecodable entries. Expired entries are dropped on the way out.
func (c *MemoryCache) Get(_ context.Context, key string, dest any) bool {
	c.mu.RLock()
	entry, ok := c.store[key]
	c.mu.RUnlock()
	if !ok {
		return false
	}
	if !c.now().Before(entry.expiry) {
		c.mu.Lock()
		// Re-check under the write lock; a Set may have refreshed the entry.
		if cur, ok := c.store[key]; ok && !c.now().Before(cur.expiry) {
			delete(c.store, key)
		}
		c.mu.Unlock()
		return false
	}
	return json.Unmarshal(entry.payload, dest) == nil
}

// Set stores value under key, resetting the expiry. Unencodable values are
// dropped silently; nothing downstream depends on a write succeeding.
func (c *MemoryCache) Set(_ context.Context, key string, value any) {
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.mu.Lock()
	c.store[key] = memoryEntry{payload: payload, expiry: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

// Cleanup removes all expired entries eagerly.
func (c *MemoryCache) Cleanup(_ context.Context) {
	now := c.now()
	c.mu.Lock()
	for key, entry := range c.store {
		if !now.Before(entry.expiry) {
			delete(c.store, key)
		}
	}
	c.mu.Unlock()
}

// Len returns the number of entries currently held, expired or not.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}
