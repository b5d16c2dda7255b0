package cache

import (
	"sync"
	"time"
)

// Cache is a small TTL cache for derived lookups (template type lists and the
// like). It is passed around as an explicit handle; mutating operations on the
// underlying data call Invalidate rather than relying on expiry alone.
type Cache[V any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]entry[V]
}

type entry[V any] struct {
	value   V
	expires time.Time
}

// Option customises a Cache.
type Option[V any] func(*Cache[V])

// WithClock injects the time source. Tests use this to step expiry
// deterministically.
func WithClock[V any](now func() time.Time) Option[V] {
	return func(c *Cache[V]) {
		c.now = now
	}
}

// New creates a cache whose entries expire after ttl.
func New[V any](ttl time.Duration, options ...Option[V]) *Cache[V] {
	c := &Cache[V]{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry[V]),
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Get returns the cached value for key when present and not expired.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ent, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if c.now().After(ent.expires) {
		delete(c.entries, key)
		var zero V
		return zero, false
	}
	return ent.value, true
}

// Set stores value under key with the configured TTL.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[V]{value: value, expires: c.now().Add(c.ttl)}
}

// Invalidate removes one key.
func (c *Cache[V]) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}

// Clear removes every entry.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]entry[V])
}
