package cache

import "errors"

// Sentinel errors for caching operations.
var (
	// ErrCacheMiss is returned when an item is not found in cache.
	ErrCacheMiss = errors.New("cache miss")

	// ErrBackend is returned when the cache backend itself fails.
	// Callers treat backend failures as misses; a broken cache must
	// never fail an otherwise valid pipeline run.
	ErrBackend = errors.New("cache backend error")
)
