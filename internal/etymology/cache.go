package etymology

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Fetcher is the dataset source a Cache wraps.
type Fetcher interface {
	Fetch(ctx context.Context) ([]Entry, error)
}

// Cache holds one fetched copy of the affix dataset, keyed by normalized
// affix. Callers own the Cache instance and its lifetime; there is no
// package-level state. A zero fetch is retried on next use.
type Cache struct {
	fetcher Fetcher
	ttl     time.Duration

	mu        sync.Mutex
	entries   map[string][]Entry
	fetchedAt time.Time

	now func() time.Time
}

// NewCache creates a Cache over the given fetcher. Entries older than ttl
// are refetched on the next lookup; a zero ttl never expires.
func NewCache(fetcher Fetcher, ttl time.Duration) *Cache {
	return &Cache{
		fetcher: fetcher,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Lookup returns the dataset entries matching the affix, loading the
// dataset first when the cache is empty or stale.
func (c *Cache) Lookup(ctx context.Context, affix string) ([]Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return c.entries[normalize(affix)], nil
}

// Verify reports whether an affix should be accepted as teaching material.
// An affix present in the dataset is verified. When the dataset itself has
// no entries at all, every affix is accepted rather than rejecting the
// teacher's whole affix list on a missing dataset.
func (c *Cache) Verify(ctx context.Context, affix string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureLoaded(ctx); err != nil {
		return false, err
	}
	if len(c.entries) == 0 {
		return true, nil
	}
	_, ok := c.entries[normalize(affix)]
	return ok, nil
}

// Invalidate drops the cached dataset. The next lookup refetches.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = nil
	c.fetchedAt = time.Time{}
}

// ensureLoaded fetches the dataset when missing or expired. Callers hold mu.
func (c *Cache) ensureLoaded(ctx context.Context) error {
	if c.entries != nil {
		if c.ttl == 0 || c.now().Sub(c.fetchedAt) < c.ttl {
			return nil
		}
	}

	fetched, err := c.fetcher.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("fetcher.Fetch > %w", err)
	}

	entries := make(map[string][]Entry, len(fetched))
	for _, entry := range fetched {
		key := normalize(entry.Affix)
		entries[key] = append(entries[key], entry)
	}
	c.entries = entries
	c.fetchedAt = c.now()
	return nil
}
