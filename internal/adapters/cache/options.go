package cache

import "time"

// Option applies a configuration option to the MemoryCache.
type Option func(*MemoryCache)

// WithNowFunc overrides the time source. Used by tests to step through
// expiry without sleeping.
func WithNowFunc(now func() time.Time) Option {
	return func(c *MemoryCache) {
		if now != nil {
			c.now = now
		}
	}
}
