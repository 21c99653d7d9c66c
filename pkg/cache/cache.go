// Package cache stores rendered artifacts keyed by figure description.
//
// Three backends implement [Cache]:
//   - [FileCache] for the CLI, one file per entry under a directory
//   - [RedisCache] for the render server, shared between instances
//   - [NullCache] when caching is disabled
//
// Keys come from a [Keyer]. [DefaultKeyer] hashes the description and the
// encoder settings, so a key changes whenever the output bytes could.
package cache

import (
	"context"
	"time"
)

// TTLArtifact is how long rendered artifacts stay cached.
const TTLArtifact = 7 * 24 * time.Hour

// Cache is a byte store with per-entry expiry. Implementations are safe
// for concurrent use.
type Cache interface {
	// Get returns the stored bytes and whether the key was present.
	// A missing or expired key is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
