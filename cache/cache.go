// Package cache is a small TTL key-value store fronting persistence reads.
// Expiry is lazy: Get is the authority, the periodic sweep only bounds memory.
package cache

import (
	"sync"
	"time"
)

const (
	// DefaultTTL suits hot per-player entities.
	DefaultTTL = 30 * time.Second
	// TownTTL is longer because the shared town row changes less often.
	TownTTL = 60 * time.Second
)

type entry struct {
	value    any
	storedAt time.Time
	ttl      time.Duration
}

type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

func New() *Cache {
	return &Cache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Set stores value under key. A non-positive ttl means DefaultTTL.
func (c *Cache) Set(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{value: value, storedAt: c.now(), ttl: ttl}
}

// Get returns the cached value. An entry past its TTL is deleted on the spot
// and never reported as a hit, even if the sweep has not reached it yet.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.storedAt) > e.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}

// Cleanup evicts every expired entry and reports how many it removed.
func (c *Cache) Cleanup() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	evicted := 0
	for key, e := range c.entries {
		if now.Sub(e.storedAt) > e.ttl {
			delete(c.entries, key)
			evicted++
		}
	}
	return evicted
}

// Len reports live entries, expired or not; used by tests and the sweeper log.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Key builders for the entity classes the repository caches.

func PlayerKey(userID string) string { return "player:" + userID }

func TownKey() string { return "town:default" }

func LogsKey(userID string) string { return "logs:" + userID }
