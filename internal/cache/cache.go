// Package cache keeps recently computed dashboard summaries. Entries are
// never authoritative: a miss or an error falls back to recomputing from
// the store.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/adhyaya/adhyaya/internal/dashboard"
)

// SummaryCache stores one dashboard summary per learner.
type SummaryCache interface {
	Get(ctx context.Context, learnerID string) (dashboard.Summary, bool)
	// Set stores s for at most maxAge, capped by the cache's own TTL.
	// maxAge <= 0 uses the TTL alone.
	Set(ctx context.Context, learnerID string, s dashboard.Summary, maxAge time.Duration)
	Invalidate(ctx context.Context, learnerID string)
	Close() error
}

// NopCache never stores anything.
type NopCache struct{}

func (NopCache) Get(context.Context, string) (dashboard.Summary, bool) { return dashboard.Summary{}, false }
func (NopCache) Set(context.Context, string, dashboard.Summary, time.Duration) {}
func (NopCache) Invalidate(context.Context, string) {}
func (NopCache) Close() error { return nil }

type memoryEntry struct {
	summary dashboard.Summary
	expires time.Time
}

// MemoryCache is an in-process SummaryCache with a fixed TTL.
type MemoryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

// NewMemoryCache creates a MemoryCache whose entries live for ttl.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

func (c *MemoryCache) Get(_ context.Context, learnerID string) (dashboard.Summary, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[learnerID]
	if !ok {
		return dashboard.Summary{}, false
	}
	if !c.now().Before(e.expires) {
		delete(c.entries, learnerID)
		return dashboard.Summary{}, false
	}
	return e.summary, true
}

func (c *MemoryCache) Set(_ context.Context, learnerID string, s dashboard.Summary, maxAge time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[learnerID] = memoryEntry{summary: s, expires: c.now().Add(expiry(c.ttl, maxAge))}
}

func (c *MemoryCache) Invalidate(_ context.Context, learnerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, learnerID)
}

func (c *MemoryCache) Close() error { return nil }

// expiry is the lifetime of an entry: ttl, shortened to maxAge when that is
// positive and smaller.
func expiry(ttl, maxAge time.Duration) time.Duration {
	if maxAge > 0 && maxAge < ttl {
		return maxAge
	}
	return ttl
}
