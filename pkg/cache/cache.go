// Package cache stores rendered artifacts and decoded terrain between runs.
//
// Backends share the [Cache] interface: [FileCache] for the CLI,
// [RedisCache] for servers running more than one instance, and [NullCache]
// when caching is disabled. Keys come from a [Keyer] so that callers never
// build key strings by hand.
package cache

import (
	"context"
	"time"
)

// Default TTLs.
const (
	// TTLRender covers encoded map artifacts. Renders are pure functions of
	// their inputs, so entries only expire to bound disk use.
	TTLRender = 7 * 24 * time.Hour

	// TTLTerrain covers fetched mask bytes.
	TTLTerrain = 24 * time.Hour
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// TerrainKeyOpts identify one decoded land mask.
type TerrainKeyOpts struct {
	Width  int `json:"w"`
	Height int `json:"h"`
}

// RenderKeyOpts identify one encoded artifact of a render.
type RenderKeyOpts struct {
	Format   string  `json:"format"`
	Progress float64 `json:"progress"`
	Legend   bool    `json:"legend,omitempty"`
	TurnSeed int64   `json:"seed"`
}

// Keyer builds cache keys.
type Keyer interface {
	// HTTPKey keys raw bytes fetched from a URL.
	HTTPKey(namespace, key string) string

	// TerrainKey keys a mask source scaled to a canvas size.
	TerrainKey(source string, opts TerrainKeyOpts) string

	// RenderKey keys an artifact by the hash of the render inputs.
	RenderKey(inputHash string, opts RenderKeyOpts) string
}

// DefaultKeyer is the standard key layout.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

func (DefaultKeyer) TerrainKey(source string, opts TerrainKeyOpts) string {
	return hashKey("terrain", source, opts)
}

func (DefaultKeyer) RenderKey(inputHash string, opts RenderKeyOpts) string {
	return hashKey("render", inputHash, opts)
}

var _ Keyer = DefaultKeyer{}
