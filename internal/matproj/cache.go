// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package matproj

import (
	"context"
	"sync"

	"github.com/predictlab/matpredict/pkg/types"
)

// Cache memoizes per-formula lookup outcomes for the life of the process.
// Misses are remembered too: a formula that once returned nothing, or whose
// lookup failed, is never retried. Entries are written at most once per
// formula and never invalidated.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*types.MaterialRecord
	hits    int64
	misses  int64
}

// NewCache creates an empty cache with no size limit. The key space is
// bounded by the formulas one process ever looks up.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*types.MaterialRecord)}
}

// Get returns the remembered record and whether formula has been looked up
// before. A true second value with a nil record is a remembered miss.
func (c *Cache) Get(formula string) (*types.MaterialRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec, ok := c.entries[formula]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return rec, ok
}

// Put stores the outcome of a lookup, nil meaning "no result". An existing
// entry is left alone so the first outcome sticks.
func (c *Cache) Put(formula string, rec *types.MaterialRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[formula]; ok {
		return
	}
	c.entries[formula] = rec
}

// LookupFunc performs one uncached lookup.
type LookupFunc func(ctx context.Context, formula string) (*types.MaterialRecord, error)

// GetOrLookup returns the remembered outcome for formula, or runs lookup
// and remembers what it produced. A lookup error is remembered as "no
// result" and surfaced once; later calls return the miss silently. The
// lookup runs outside the cache lock, so two concurrent first lookups for
// one formula may both fetch; the duplicate write is idempotent.
func (c *Cache) GetOrLookup(ctx context.Context, formula string, lookup LookupFunc) (*types.MaterialRecord, error) {
	if rec, ok := c.Get(formula); ok {
		return rec, nil
	}

	rec, err := lookup(ctx, formula)
	if err != nil {
		c.Put(formula, nil)
		return nil, err
	}
	c.Put(formula, rec)
	return rec, nil
}

// Stats is a point-in-time snapshot of cache effectiveness.
type Stats struct {
	Size    int     `json:"size"`
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	HitRate float64 `json:"hit_rate"`
}

// Stats returns cache statistics.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.hits + c.misses
	hitRate := 0.0
	if total > 0 {
		hitRate = float64(c.hits) / float64(total)
	}

	return Stats{
		Size:    len(c.entries),
		Hits:    c.hits,
		Misses:  c.misses,
		HitRate: hitRate,
	}
}

// CachedClient memoizes a Client's per-formula lookups.
type CachedClient struct {
	client *Client
	cache  *Cache
}

// NewCachedClient wraps client with a fresh process-lifetime cache.
func NewCachedClient(client *Client) *CachedClient {
	return &CachedClient{client: client, cache: NewCache()}
}

// LookupBestByFormula is the memoizing form of Client.LookupBestByFormula.
func (cc *CachedClient) LookupBestByFormula(ctx context.Context, formula string) (*types.MaterialRecord, error) {
	return cc.cache.GetOrLookup(ctx, formula, cc.client.LookupBestByFormula)
}

// Stats exposes the underlying cache statistics.
func (cc *CachedClient) Stats() Stats {
	return cc.cache.Stats()
}
