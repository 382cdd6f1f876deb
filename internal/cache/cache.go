// Package cache is a weak-value cache of shared Connections keyed by
// canonical directory path, so that every concurrent caller for the
// same path is handed the same live Connection instead of opening its
// own file handles.
package cache

import (
	"sync"
	"weak"
)

// Opener constructs the value cached for a given key on a cache miss.
type Opener[V any] func(key string) (*V, error)

// Weak is a weak-value cache keyed by a canonical string. The cache
// holds weak references, and the returned strong reference's drop hook
// removes the cache entry, resolving the cyclic reference between the
// cache and the value it caches.
type Weak[V any] struct {
	mu      sync.Mutex
	entries map[string]weak.Pointer[V]
}

func NewWeak[V any]() *Weak[V] {
	return &Weak[V]{entries: make(map[string]weak.Pointer[V])}
}

// Open returns a shared *V for key, constructing one via open on a miss.
// The returned release func removes key's cache entry once the caller
// is done holding the strong reference. It does not close or otherwise
// mutate *V itself; that is the caller's responsibility via whatever
// Close method V exposes.
//
// discard is called on a freshly-opened *V that loses a race against a
// concurrent Open for the same key, so the loser's handles are not
// leaked; it may be nil if V needs no such cleanup.
//
// Invariant: at most one live *V per key at any instant.
func (c *Weak[V]) Open(key string, open Opener[V], discard func(*V)) (v *V, release func(), err error) {
	c.mu.Lock()
	if p, ok := c.entries[key]; ok {
		if v := p.Value(); v != nil {
			c.mu.Unlock()
			return v, func() { c.remove(key, p) }, nil
		}
		delete(c.entries, key)
	}
	c.mu.Unlock()

	v, err = open(key)
	if err != nil {
		return nil, nil, err
	}

	c.mu.Lock()
	if p, ok := c.entries[key]; ok {
		if existing := p.Value(); existing != nil {
			c.mu.Unlock()
			if discard != nil {
				discard(v)
			}
			return existing, func() { c.remove(key, p) }, nil
		}
	}
	p := weak.Make(v)
	c.entries[key] = p
	c.mu.Unlock()

	return v, func() { c.remove(key, p) }, nil
}

// remove deletes key's entry only if it is still the exact weak pointer
// this release hook was handed. A newer Open call may have already
// replaced a dead entry with a fresh one for the same key.
func (c *Weak[V]) remove(key string, p weak.Pointer[V]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cur, ok := c.entries[key]; ok && cur == p {
		delete(c.entries, key)
	}
}

// Len reports the number of entries currently tracked, including dead
// ones that Sweep has not yet removed, for tests.
func (c *Weak[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Sweep removes every entry whose weak pointer has already gone dead
// without a matching release call, bounding callers that drop a strong
// reference without running its release func, for instance after a
// panic unwinds past it. Returns the number of entries removed.
func (c *Weak[V]) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for key, p := range c.entries {
		if p.Value() == nil {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}
