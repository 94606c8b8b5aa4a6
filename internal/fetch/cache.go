package fetch

import (
	"sync"
	"time"
)

// Cache is an in-memory text cache keyed by fetch key, with explicit
// TTL and explicit eviction. It is safe for concurrent use: per-day
// range fetches may populate it from several goroutines.
type Cache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	text     string
	storedAt time.Time
}

// NewCache creates a cache with the given TTL. now is injectable for
// tests; nil uses time.Now.
func NewCache(ttl time.Duration, now func() time.Time) *Cache {
	if now == nil {
		now = time.Now
	}
	return &Cache{ttl: ttl, now: now, entries: make(map[string]cacheEntry)}
}

// Get returns the cached text for key if present and fresh. Expired
// entries are evicted on access.
func (c *Cache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return "", false
	}
	if c.ttl > 0 && c.now().Sub(e.storedAt) > c.ttl {
		delete(c.entries, key)
		return "", false
	}
	return e.text, true
}

// Put stores text under key, restarting its TTL.
func (c *Cache) Put(key, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{text: text, storedAt: c.now()}
}

// Evict removes a single key.
func (c *Cache) Evict(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Sweep removes every expired entry and returns how many were
// evicted.
func (c *Cache) Sweep() int {
	if c.ttl <= 0 {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	evicted := 0
	cutoff := c.now().Add(-c.ttl)
	for key, e := range c.entries {
		if e.storedAt.Before(cutoff) {
			delete(c.entries, key)
			evicted++
		}
	}
	return evicted
}

// Len returns the number of cached entries, including any expired
// ones not yet swept.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
