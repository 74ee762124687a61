// Package cache provides the read-through TTL cache used to memoize remote
// provider lookups. Two variants exist: an in-process map and a Redis-backed
// store for multi-instance deployments. Both serialize values to JSON so a
// corrupt entry degrades to a miss, never an error.
package cache

import "context"

// Cache is a key/value store with fixed-TTL expiry. A value is absent once
// now >= insertion time + ttl. Overwriting a key resets both value and
// expiry. Concurrent use from multiple requests is allowed; two requests
// racing a miss on the same key both fetch and both set, which is harmless.
type Cache interface {
	// Get decodes the cached value for key into dest and reports whether a
	// live entry was found. Corrupt or expired entries read as absent.
	Get(ctx context.Context, key string, dest any) bool

	// Set stores value under key with the cache's TTL.
	Set(ctx context.Context, key string, value any)

	// Cleanup eagerly removes expired entries. Correctness never depends on
	// it; expiry is checked lazily on read.
	Cleanup(ctx context.Context)
}
