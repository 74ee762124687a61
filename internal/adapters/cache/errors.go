package cache

import "errors"

// Sentinel kinds for cache construction errors.
var (
	ErrInvalidTTL = errors.New("cache ttl must be positive")
	ErrNilClient  = errors.New("redis client must not be nil")
)
