package source

import (
	"context"
	"sync"
	"time"

	"github.com/jobscout/jobscout/internal/jobs"
)

// Cache is a per-adapter response cache keyed by the normalized query.
// Implementations never surface errors to callers: a broken backend is a
// cache miss.
type Cache interface {
	Get(ctx context.Context, key string) ([]jobs.Job, bool)
	Set(ctx context.Context, key string, results []jobs.Job)
	// Sweep evicts expired entries. Called by the background sweeper; safe
	// to call at any time.
	Sweep(ctx context.Context)
}

type cacheEntry struct {
	results []jobs.Job
	expiry  time.Time
}

// MemoryCache is the default in-process cache. Entries expire after a fixed
// TTL and are purged lazily on access or by Sweep. There is no LRU bound:
// practical query cardinality is low within a TTL window.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryCache creates an in-memory cache with the given TTL.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]jobs.Job, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if !c.now().Before(entry.expiry) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}

	return entry.results, true
}

func (c *MemoryCache) Set(_ context.Context, key string, results []jobs.Job) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{
		results: results,
		expiry:  c.now().Add(c.ttl),
	}
}

func (c *MemoryCache) Sweep(_ context.Context) {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, entry := range c.entries {
		if !now.Before(entry.expiry) {
			delete(c.entries, key)
		}
	}
}

// Len reports the number of live entries. Used by sweep telemetry.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
