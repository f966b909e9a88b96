// Package cache holds in-memory caches with per-entry expiry.
package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value    V
	storedAt time.Time
}

// TTL is a map whose entries expire ttl after they were stored.
// Expired entries are dropped lazily on lookup or by Prune.
type TTL[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]entry[V]
	ttl     time.Duration
	now     func() time.Time
}

// NewTTL creates a cache using the wall clock.
func NewTTL[K comparable, V any](ttl time.Duration) *TTL[K, V] {
	return &TTL[K, V]{
		entries: make(map[K]entry[V]),
		ttl:     ttl,
		now:     time.Now,
	}
}

// WithClock replaces the time source, used by tests.
func (c *TTL[K, V]) WithClock(now func() time.Time) *TTL[K, V] {
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
	return c
}

func (c *TTL[K, V]) fresh(e entry[V], now time.Time) bool {
	return now.Sub(e.storedAt) < c.ttl
}

// Get returns the value for key and the time it was stored, if still fresh.
func (c *TTL[K, V]) Get(key K) (V, time.Time, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	now := c.now()
	c.mu.RUnlock()

	if ok && c.fresh(e, now) {
		return e.value, e.storedAt, true
	}

	var zero V
	if ok {
		c.mu.Lock()
		// Re-check under the write lock, a concurrent Set may have refreshed it
		if cur, still := c.entries[key]; still && !c.fresh(cur, c.now()) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
	}
	return zero, time.Time{}, false
}

// Set stores value under key, replacing any previous entry.
func (c *TTL[K, V]) Set(key K, value V) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	storedAt := c.now()
	c.entries[key] = entry[V]{value: value, storedAt: storedAt}
	return storedAt
}

// Delete removes key.
func (c *TTL[K, V]) Delete(key K) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Prune drops every expired entry and returns how many were removed.
func (c *TTL[K, V]) Prune() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	removed := 0
	for k, e := range c.entries {
		if !c.fresh(e, now) {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

// Len reports the number of stored entries, expired ones included.
func (c *TTL[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
