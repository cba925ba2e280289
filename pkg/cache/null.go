package cache

import (
	"context"
	"time"
)

// NullCache stores nothing: every Get misses, so each operation re-parses
// its source facts. Selected by --no-cache and the "none" config backend.
type NullCache struct{}

// NewNullCache creates a cache that disables caching.
func NewNullCache() Cache {
	return &NullCache{}
}

// Get always misses, forcing a fresh parse of the source facts.
func (c *NullCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set discards the data.
func (c *NullCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return nil
}

// Delete is a no-op; there is never anything to delete.
func (c *NullCache) Delete(ctx context.Context, key string) error {
	return nil
}

// Close is a no-op; a null cache holds no resources.
func (c *NullCache) Close() error {
	return nil
}

// Ensure NullCache implements Cache.
var _ Cache = (*NullCache)(nil)
