package workbook

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/singleflight"
)

// Kind tells apart the table types that can be loaded from one sheet.
type Kind string

const (
	KindSales       Kind = "sales"
	KindClientSales Kind = "client_sales"
)

// CacheKey identifies a loaded table.
type CacheKey struct {
	SourceID string
	Sheet    string
	Kind     Kind
	// Variant carries load parameters that change the result, such as the
	// month column prefix.
	Variant string
}

func (k CacheKey) String() string {
	return fmt.Sprintf("%s|%s|%s|%s", k.SourceID, k.Sheet, k.Kind, k.Variant)
}

// Cache holds parsed tables for the lifetime of the process. Concurrent
// misses on the same key share one load. Tables handed out by the cache are
// shared and must be treated as read-only.
type Cache struct {
	mu      sync.RWMutex
	entries map[CacheKey]any
	gen     uint64
	group   singleflight.Group
	metrics *Metrics
}

// NewCache returns an empty cache. metrics may be nil.
func NewCache(metrics *Metrics) *Cache {
	if metrics == nil {
		metrics = noopMetrics()
	}
	return &Cache{
		entries: make(map[CacheKey]any),
		metrics: metrics,
	}
}

// GetOrLoad returns the cached value for key, calling load on a miss.
// Failed loads are not cached. A caller whose ctx ends while waiting on a
// shared load returns ctx.Err(); the load itself carries on for the others.
func (c *Cache) GetOrLoad(ctx context.Context, key CacheKey, load func(context.Context) (any, error)) (any, error) {
	attrs := metric.WithAttributes(
		attribute.String("sheet", key.Sheet),
		attribute.String("kind", string(key.Kind)),
	)

	c.mu.RLock()
	v, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		c.metrics.CacheHits.Add(ctx, 1, attrs)
		return v, nil
	}
	c.metrics.CacheMisses.Add(ctx, 1, attrs)

	ch := c.group.DoChan(key.String(), func() (any, error) {
		c.mu.RLock()
		v, ok := c.entries[key]
		gen := c.gen
		c.mu.RUnlock()
		if ok {
			return v, nil
		}

		// Detach from the first caller's cancellation so the shared load
		// is not aborted for everyone waiting on it.
		v, err := load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}

		// A load that raced with Invalidate is returned but not stored.
		c.mu.Lock()
		if c.gen == gen {
			c.entries[key] = v
		}
		c.mu.Unlock()
		return v, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		return res.Val, res.Err
	}
}

// Invalidate drops every cached table so the next request re-reads the
// source.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.entries = make(map[CacheKey]any)
	c.gen++
	c.mu.Unlock()
}

// InvalidateSource drops the tables loaded from one source.
func (c *Cache) InvalidateSource(sourceID string) {
	c.mu.Lock()
	for k := range c.entries {
		if k.SourceID == sourceID {
			delete(c.entries, k)
		}
	}
	c.gen++
	c.mu.Unlock()
}

// Len returns the number of cached tables.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
