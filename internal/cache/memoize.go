// Package cache provides the memoization cache for pure engine functions.
// Interactive front ends recompute on every keystroke; memoizing by input
// fingerprint avoids recomputation storms. The cache is unbounded for the
// process lifetime (the practical input space is small) with an explicit
// Clear.
package cache

import (
	gocache "github.com/patrickmn/go-cache"
)

// Memoizer stores computed values keyed by a caller-supplied fingerprint.
// Instances are independent, so tests can use their own cache instead of an
// implicit global.
type Memoizer[V any] struct {
	store *gocache.Cache
}

// NewMemoizer creates an empty unbounded memoizer.
func NewMemoizer[V any]() *Memoizer[V] {
	// No expiration and no janitor: entries live until Clear.
	return &Memoizer[V]{store: gocache.New(gocache.NoExpiration, 0)}
}

// Get returns the cached value for key, if present.
func (m *Memoizer[V]) Get(key string) (V, bool) {
	v, ok := m.store.Get(key)
	if !ok {
		var zero V
		return zero, false
	}
	return v.(V), true
}

// Set stores a value under key, replacing any existing entry.
func (m *Memoizer[V]) Set(key string, value V) {
	m.store.Set(key, value, gocache.NoExpiration)
}

// Has reports whether key is cached.
func (m *Memoizer[V]) Has(key string) bool {
	_, ok := m.store.Get(key)
	return ok
}

// Clear removes all cached entries.
func (m *Memoizer[V]) Clear() {
	m.store.Flush()
}

// Size returns the number of cached entries.
func (m *Memoizer[V]) Size() int {
	return m.store.ItemCount()
}

// Memoize wraps a pure function with the memoizer using an injectable key
// function. Errors are not cached: a failed call is retried on the next
// invocation with the same input.
func Memoize[A, V any](m *Memoizer[V], fn func(A) (V, error), keyFn func(A) string) func(A) (V, error) {
	return func(arg A) (V, error) {
		key := keyFn(arg)
		if v, ok := m.Get(key); ok {
			return v, nil
		}
		v, err := fn(arg)
		if err != nil {
			var zero V
			return zero, err
		}
		m.Set(key, v)
		return v, nil
	}
}
