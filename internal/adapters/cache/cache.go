// Package cache holds computed optimization results keyed by
// (catalog version, constraint spec). The engine is deterministic over
// those two inputs, which is what makes external memoization correct
// without any engine awareness.
package cache

import (
	"context"
	"sync"

	"github.com/dugout-io/dugout/internal/domain/result"
	"github.com/dugout-io/dugout/pkg/metrics"
)

// Key builds the cache key for a catalog version and spec key.
func Key(catalogVersion, specKey string) string {
	return catalogVersion + "|" + specKey
}

// ResultCache is a bounded in-memory result store with oldest-insertion
// eviction and a per-key inflight guard: concurrent requests for the same
// key compute once and share the outcome.
type ResultCache struct {
	mu       sync.Mutex
	entries  map[string]result.Result
	order    []string // insertion order for eviction
	maxSize  int
	inflight map[string]*call
}

type call struct {
	done chan struct{}
	res  result.Result
	err  error
}

// New creates a result cache with configuration options.
func New(opts ...Option) *ResultCache {
	c := &ResultCache{
		maxSize:  1024,
		entries:  make(map[string]result.Result),
		inflight: make(map[string]*call),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns a cached result if present.
func (c *ResultCache) Get(_ context.Context, key string) (result.Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	res, ok := c.entries[key]
	if ok {
		metrics.RecordCacheHit()
	}
	return res, ok
}

// Do returns the cached result for key, or runs compute exactly once per
// key across concurrent callers and caches a successful outcome. The
// second return reports whether the result came from the cache.
func (c *ResultCache) Do(ctx context.Context, key string, compute func() (result.Result, error)) (result.Result, bool, error) {
	c.mu.Lock()
	if res, ok := c.entries[key]; ok {
		c.mu.Unlock()
		metrics.RecordCacheHit()
		return res, true, nil
	}
	if cl, running := c.inflight[key]; running {
		c.mu.Unlock()
		select {
		case <-cl.done:
			return cl.res, true, cl.err
		case <-ctx.Done():
			return result.Result{}, false, ctx.Err()
		}
	}
	cl := &call{done: make(chan struct{})}
	c.inflight[key] = cl
	c.mu.Unlock()
	metrics.RecordCacheMiss()

	cl.res, cl.err = compute()
	close(cl.done)

	c.mu.Lock()
	delete(c.inflight, key)
	if cl.err == nil {
		c.store(key, cl.res)
	}
	c.mu.Unlock()
	return cl.res, false, cl.err
}

// Put stores a result, evicting the oldest insertion when full.
func (c *ResultCache) Put(_ context.Context, key string, res result.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store(key, res)
}

// store must run with c.mu held.
func (c *ResultCache) store(key string, res result.Result) {
	if _, exists := c.entries[key]; !exists {
		for len(c.entries) >= c.maxSize && len(c.order) > 0 {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
		c.order = append(c.order, key)
	}
	c.entries[key] = res
	metrics.UpdateCacheSize(len(c.entries))
}

// Len returns the number of cached results.
func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
