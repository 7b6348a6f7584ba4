// Package cache provides a small read-through cache used for hot public
// directory lookups. The Redis implementation is optional at runtime; when no
// Redis address is configured the no-op implementation keeps every code path
// identical while caching nothing.
package cache

import (
	"context"
	"time"
)

// Cache stores JSON-encoded values under string keys.
type Cache interface {
	// Get unmarshals the cached value into dest and reports whether the key
	// was present.
	Get(ctx context.Context, key string, dest any) (bool, error)

	// Set stores value under key for ttl.
	Set(ctx context.Context, key string, value any, ttl time.Duration) error

	// Delete removes keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}

// Noop is a Cache that stores nothing.
type Noop struct{}

// Compile-time check that Noop implements Cache.
var _ Cache = (*Noop)(nil)

// NewNoop creates a no-op cache.
func NewNoop() *Noop {
	return &Noop{}
}

func (n *Noop) Get(ctx context.Context, key string, dest any) (bool, error) {
	return false, nil
}

func (n *Noop) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	return nil
}

func (n *Noop) Delete(ctx context.Context, keys ...string) error {
	return nil
}
