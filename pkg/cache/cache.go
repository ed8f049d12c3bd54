// Package cache stores buffer results and fetched documents.
//
// # Backends
//
// Every backend implements [Cache]:
//
//   - [NullCache]: stores nothing (--no-cache)
//   - [FileCache]: JSON entries under ~/.cache/geobuffer/ for CLI use
//   - [RedisCache]: a shared Redis instance for the HTTP API
//   - [MongoCache]: a MongoDB collection with a TTL index
//
// [Open] selects a backend from a [config.CacheConfig].
//
// # Keys
//
// A [Keyer] derives keys from the hash of the input and the options that
// influence the output, so two runs that would produce the same bytes share
// an entry:
//
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.BufferKey(cache.Hash(input), cache.BufferKeyOpts{
//	    Distance: 2.5,
//	    Format:   "wkt",
//	})
//
// [ScopedKeyer] prefixes every key to separate tenants sharing a backend.
//
// [config.CacheConfig]: github.com/matzehuels/geobuffer/pkg/config.CacheConfig
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry.
//
// Get reports a miss as (nil, false, nil); errors are reserved for backend
// failures. A zero ttl in Set means the entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Key prefixes, also reported to cache hooks as the key type.
const (
	KeyTypeHTTP   = "http"
	KeyTypeBuffer = "buffer"
	KeyTypeGraph  = "graph"
)

// Keyer generates cache keys.
type Keyer interface {
	// HTTPKey identifies a fetched document.
	HTTPKey(namespace, key string) string
	// BufferKey identifies one rendered buffer result.
	BufferKey(inputHash string, opts BufferKeyOpts) string
	// GraphKey identifies a rendered topology graph.
	GraphKey(inputHash string, opts BufferKeyOpts) string
}

// BufferKeyOpts lists everything besides the input that changes a result.
type BufferKeyOpts struct {
	Distance         float64 `json:"distance"`
	QuadrantSegments int     `json:"quadrant_segments"`
	Cap              string  `json:"cap"`
	Join             string  `json:"join"`
	MitreLimit       float64 `json:"mitre_limit"`
	SingleSided      bool    `json:"single_sided,omitempty"`
	PrecisionScale   float64 `json:"precision_scale,omitempty"`
	Format           string  `json:"format"`
}

// DefaultKeyer hashes buffer and graph key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// HTTPKey returns "http:<namespace>:<key>" without hashing.
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return KeyTypeHTTP + ":" + namespace + ":" + key
}

// BufferKey returns "buffer:<hash>".
func (DefaultKeyer) BufferKey(inputHash string, opts BufferKeyOpts) string {
	return resultKey(KeyTypeBuffer, inputHash, opts)
}

// GraphKey returns "graph:<hash>".
func (DefaultKeyer) GraphKey(inputHash string, opts BufferKeyOpts) string {
	return resultKey(KeyTypeGraph, inputHash, opts)
}

var _ Keyer = DefaultKeyer{}
