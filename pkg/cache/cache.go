// Package cache stores rendered chart artifacts.
//
// Frames themselves are never cached: they hold accessor and style
// functions and are cheap to rebuild. What is cached are the encoded
// outputs (JSON frame state, SVG documents) keyed by a hash of the chart
// definition and the render options.
//
// Three backends implement [Cache]:
//   - [NullCache] disables caching
//   - [FileCache] stores entries under a directory, used by the CLI
//   - [RedisCache] shares entries between server instances
package cache

import (
	"context"
	"time"
)

// Default entry lifetimes.
const (
	// TTLFrame bounds how long encoded frame state for one revision is kept.
	TTLFrame = time.Hour

	// TTLArtifact bounds how long a rendered artifact is kept.
	TTLArtifact = 24 * time.Hour
)

// Cache is a byte-oriented key/value store with expiration.
type Cache interface {
	// Get returns the value for key. A miss is reported by hit == false
	// with a nil error.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// NullCache stores nothing. Every Get is a miss, which makes the pipeline
// recompute and re-render on each call.
type NullCache struct{}

// NewNullCache returns a cache that disables caching.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error { return nil }
func (NullCache) Close() error { return nil }
