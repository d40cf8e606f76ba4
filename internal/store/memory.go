// Package store holds the optional short-TTL prediction cache. The
// pipeline's contract is fetch-per-request; the cache exists purely to
// shed upstream load for hot coordinates and is disabled unless a TTL
// is configured.
package store

import (
	"sync"
	"time"

	"github.com/frostline/temp-prediction/internal/forecast"
)

type entry struct {
	cached   forecast.CachedForecast
	storedAt time.Time
}

// MemoryCache is a concurrency-safe in-memory prediction cache with TTL
// expiry and a bounded entry count.
type MemoryCache struct {
	mu   sync.RWMutex
	data map[string]entry

	ttl        time.Duration
	maxEntries int

	now func() time.Time
}

// NewMemoryCache creates a cache. ttl must be positive; maxEntries <= 0
// is treated as unlimited.
func NewMemoryCache(ttl time.Duration, maxEntries int) *MemoryCache {
	return &MemoryCache{
		data:       make(map[string]entry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Get returns the cached forecast for key if present and unexpired.
func (c *MemoryCache) Get(key string) (forecast.CachedForecast, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.data[key]
	if !ok || c.now().Sub(e.storedAt) > c.ttl {
		return forecast.CachedForecast{}, false
	}
	return e.cached, true
}

// Put stores a forecast, evicting expired entries first and then the
// oldest entry when the cache is full.
func (c *MemoryCache) Put(key string, cached forecast.CachedForecast) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxEntries > 0 && len(c.data) >= c.maxEntries {
		c.evictLocked()
	}

	c.data[key] = entry{cached: cached, storedAt: c.now()}
}

// evictLocked drops expired entries, then the oldest one if the cache
// is still full. Caller holds the write lock.
func (c *MemoryCache) evictLocked() {
	cutoff := c.now().Add(-c.ttl)
	for k, e := range c.data {
		if e.storedAt.Before(cutoff) {
			delete(c.data, k)
		}
	}
	if len(c.data) < c.maxEntries {
		return
	}

	var oldestKey string
	var oldest time.Time
	for k, e := range c.data {
		if oldestKey == "" || e.storedAt.Before(oldest) {
			oldestKey = k
			oldest = e.storedAt
		}
	}
	if oldestKey != "" {
		delete(c.data, oldestKey)
	}
}
