package growthbook

import (
	"sync"
	"time"
)

// CacheEntry is a single cached features API response, keyed by the URL
// it was fetched from.
type CacheEntry struct {
	Response *FeatureApiResponse
	StaleAt  time.Time
}

func (e *CacheEntry) expired() bool {
	return time.Now().After(e.StaleAt)
}

// Cache stores the most recently seen features API response so a
// PollDataSource can fall back to it when the network is unavailable,
// instead of leaving the client on stale in-memory data with no
// indication why. The default, installed when no WithCache option is
// given, is an in-process InMemoryCache with no persistence across
// restarts.
type Cache interface {
	Get(key string) *CacheEntry
	Set(key string, entry *CacheEntry)
	Clear()
}

// InMemoryCache is the default Cache implementation.
type InMemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*CacheEntry
}

func NewInMemoryCache() *InMemoryCache {
	return &InMemoryCache{entries: map[string]*CacheEntry{}}
}

func (c *InMemoryCache) Get(key string) *CacheEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[key]
}

func (c *InMemoryCache) Set(key string, entry *CacheEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry
}

func (c *InMemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[string]*CacheEntry{}
}
