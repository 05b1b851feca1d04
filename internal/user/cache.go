package user

import (
	"sync"
	"time"
)

// Cache is a small capacity-bounded TTL cache sitting in front of the
// service client. When full, the entry closest to expiry makes room.
// Thread-safe.
type Cache[K comparable, V any] struct {
	mu       sync.Mutex
	ttl      time.Duration
	capacity int
	entries  map[K]cacheEntry[V]
	now      func() time.Time
}

type cacheEntry[V any] struct {
	value   V
	expires time.Time
}

// NewCache creates a cache holding at most capacity entries for ttl each.
func NewCache[K comparable, V any](capacity int, ttl time.Duration) *Cache[K, V] {
	return &Cache[K, V]{
		ttl:      ttl,
		capacity: capacity,
		entries:  make(map[K]cacheEntry[V], capacity),
		now:      time.Now,
	}
}

// Get returns the cached value when present and fresh.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if c.now().After(e.expires) {
		delete(c.entries, key)
		var zero V
		return zero, false
	}
	return e.value, true
}

// Put stores the value, evicting the stalest entry when at capacity.
func (c *Cache[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.capacity {
		c.evictStalestLocked()
	}
	c.entries[key] = cacheEntry[V]{value: value, expires: c.now().Add(c.ttl)}
}

// Invalidate drops the entry, if any. Write operations call this so the
// next read refetches.
func (c *Cache[K, V]) Invalidate(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Len returns the number of entries, counting expired ones not yet evicted.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache[K, V]) evictStalestLocked() {
	var victim K
	var victimExpiry time.Time
	first := true
	for k, e := range c.entries {
		if first || e.expires.Before(victimExpiry) {
			victim, victimExpiry = k, e.expires
			first = false
		}
	}
	if !first {
		delete(c.entries, victim)
	}
}
