package cache

import (
	"sync"
	"time"
)

// memoryEntry holds a cached translation and when it was stored.
type memoryEntry struct {
	value  string
	stored time.Time
}

// InMemoryCache is a process-local result cache with optional TTL and an
// optional bound on the number of entries. When the bound is reached the
// oldest entry is evicted.
type InMemoryCache struct {
	mu         sync.Mutex
	entries    map[string]memoryEntry
	ttl        time.Duration
	maxEntries int
}

// NewInMemoryCache creates an unbounded cache.
// If ttlSeconds is 0 or negative, entries never expire.
func NewInMemoryCache(ttlSeconds int) *InMemoryCache {
	return NewBoundedInMemoryCache(ttlSeconds, 0)
}

// NewBoundedInMemoryCache creates a cache holding at most maxEntries
// translations (0 = unbounded).
func NewBoundedInMemoryCache(ttlSeconds, maxEntries int) *InMemoryCache {
	var ttl time.Duration
	if ttlSeconds > 0 {
		ttl = time.Duration(ttlSeconds) * time.Second
	}
	if maxEntries < 0 {
		maxEntries = 0
	}
	return &InMemoryCache{
		entries:    make(map[string]memoryEntry),
		ttl:        ttl,
		maxEntries: maxEntries,
	}
}

// Get returns the cached translation for key. Expired entries are dropped.
func (c *InMemoryCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return "", false
	}
	if c.expired(e, time.Now()) {
		delete(c.entries, key)
		return "", false
	}
	return e.value, true
}

// Set stores a translation, evicting the oldest entry if the cache is full.
func (c *InMemoryCache) Set(key string, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if _, exists := c.entries[key]; !exists && c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
		c.prune(now)
		if len(c.entries) >= c.maxEntries {
			c.evictOldest()
		}
	}

	c.entries[key] = memoryEntry{value: value, stored: now}
	return nil
}

// Len returns the number of entries in the cache (including expired ones).
func (c *InMemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear removes all entries from the cache.
func (c *InMemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]memoryEntry)
}

// Prune drops expired entries and returns how many were removed.
func (c *InMemoryCache) Prune() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prune(time.Now())
}

// Entries returns all non-expired entries as key-value pairs.
func (c *InMemoryCache) Entries() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	result := make(map[string]string, len(c.entries))
	for key, e := range c.entries {
		if !c.expired(e, now) {
			result[key] = e.value
		}
	}
	return result
}

func (c *InMemoryCache) expired(e memoryEntry, now time.Time) bool {
	return c.ttl > 0 && now.Sub(e.stored) > c.ttl
}

// prune must be called with mu held.
func (c *InMemoryCache) prune(now time.Time) int {
	if c.ttl == 0 {
		return 0
	}
	removed := 0
	for key, e := range c.entries {
		if c.expired(e, now) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// evictOldest must be called with mu held.
func (c *InMemoryCache) evictOldest() {
	var oldestKey string
	var oldest time.Time
	for key, e := range c.entries {
		if oldestKey == "" || e.stored.Before(oldest) {
			oldestKey, oldest = key, e.stored
		}
	}
	delete(c.entries, oldestKey)
}

// Verify InMemoryCache implements TranslationCache
var _ TranslationCache = (*InMemoryCache)(nil)
