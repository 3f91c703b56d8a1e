// Package cache provides a small in-memory TTL cache for hot-path rule
// lookups.
package cache

import (
	"sync"
	"time"
)

// Cache is the read/write surface the services program against.
type Cache[K comparable, V any] interface {
	Get(key K) (V, bool)
	Set(key K, value V, ttl time.Duration)
	Delete(key K)
}

// TTLCache stores values in memory with a per-entry deadline. Expired
// entries are dropped lazily on read and swept on write.
type TTLCache[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]ttlEntry[V]
}

type ttlEntry[V any] struct {
	value    V
	deadline time.Time
}

// NewTTLCache constructs an empty TTLCache.
func NewTTLCache[K comparable, V any]() *TTLCache[K, V] {
	return &TTLCache[K, V]{entries: make(map[K]ttlEntry[V])}
}

// Get returns the cached value when present and not expired.
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	var zero V
	if c == nil {
		return zero, false
	}

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return zero, false
	}
	if time.Now().After(entry.deadline) {
		c.Delete(key)
		return zero, false
	}
	return entry.value, true
}

// Set stores a value until now+ttl. A non-positive ttl is a delete.
func (c *TTLCache[K, V]) Set(key K, value V, ttl time.Duration) {
	if c == nil {
		return
	}
	if ttl <= 0 {
		c.Delete(key)
		return
	}

	now := time.Now()
	c.mu.Lock()
	for k, entry := range c.entries {
		if now.After(entry.deadline) {
			delete(c.entries, k)
		}
	}
	c.entries[key] = ttlEntry[V]{value: value, deadline: now.Add(ttl)}
	c.mu.Unlock()
}

// Delete removes a key if present.
func (c *TTLCache[K, V]) Delete(key K) {
	if c == nil {
		return
	}
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}
