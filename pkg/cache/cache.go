// Package cache stores rendered artifacts between runs.
//
// Rendering a diagram through Graphviz and rsvg-convert is the slow part of
// the pipeline, so the CLI keeps its outputs keyed by a hash of the DOT
// source they were produced from. Editing a document without changing its
// graph (whitespace, comments) then costs nothing.
//
// Two implementations are provided: [FileCache] for the CLI and [NullCache]
// to disable caching.
package cache

import (
	"context"
	"time"
)

// TTLArtifact is how long rendered artifacts stay valid.
const TTLArtifact = 7 * 24 * time.Hour

// Cache is a byte store with per-entry expiration.
type Cache interface {
	// Get returns the value stored under key. The second result is false
	// on a miss, including expired entries.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}

// ArtifactKeyOpts contains the render settings that change an artifact.
type ArtifactKeyOpts struct {
	Format string
	Scale  float64
}

// ArtifactKey returns the cache key for an artifact rendered from the DOT
// source dot.
func ArtifactKey(dot string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", Hash([]byte(dot)), opts.Format, opts.Scale)
}
