package cache

import (
	"sync"

	"currency-converter/internal/entity"
)

// RateCache keeps the last fetched rate table per base currency. Entries are
// replaced as whole values and outlive their freshness window so they can be
// served as a fallback.
type RateCache struct {
	mu      sync.RWMutex
	entries map[string]entity.CacheEntry
}

func NewRateCache() *RateCache {
	return &RateCache{
		entries: make(map[string]entity.CacheEntry),
	}
}

func (c *RateCache) Get(base string) (entity.CacheEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[base]
	return entry, ok
}

func (c *RateCache) Set(base string, entry entity.CacheEntry) {
	entry.Rates = entry.Rates.Clone()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[base] = entry
}

func (c *RateCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]entity.CacheEntry)
}

func (c *RateCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}
