// Package cache provides caching for parsed graphs and rendered artifacts.
//
// Two backends are provided:
//   - FileCache: file-based, used by the CLI (~/.cache/grasp)
//   - RedisCache: Redis-backed, used when serving the HTTP API
//
// A NullCache disables caching entirely.
//
// Keys are generated through the Keyer interface so that CLI and server
// agree on key layout. All keys embed a content hash of the source facts,
// so a changed input never serves stale results.
package cache

import (
	"context"
	"time"
)

// TTL values for different cache entry types.
const (
	// TTLGraph is how long parsed graphs stay cached.
	TTLGraph = 24 * time.Hour

	// TTLArtifact is how long rendered artifacts (DOT, SVG, PNG) stay cached.
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is the storage interface shared by all backends.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a TTL. A zero TTL means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// GraphKeyOpts are the read options that affect a parsed graph's identity.
type GraphKeyOpts struct {
	EdgePredicate string
	Strict        bool
}

// ArtifactKeyOpts are the render options that affect an artifact's identity.
type ArtifactKeyOpts struct {
	Format     string
	Detailed   bool
	Components bool
}

// Keyer generates cache keys for the different entry types.
type Keyer interface {
	// GraphKey generates a key for a parsed graph, keyed on the content
	// hash of the source facts and the read options.
	GraphKey(sourceHash string, opts GraphKeyOpts) string

	// ArtifactKey generates a key for a rendered artifact, keyed on the
	// content hash of the serialized graph and the render options.
	ArtifactKey(graphHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer generates hash-based keys with type prefixes.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// GraphKey generates a key for a parsed graph.
func (k *DefaultKeyer) GraphKey(sourceHash string, opts GraphKeyOpts) string {
	return hashKey("graph", sourceHash, opts.EdgePredicate, opts.Strict)
}

// ArtifactKey generates a key for a rendered artifact.
func (k *DefaultKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", graphHash, opts.Format, opts.Detailed, opts.Components)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
