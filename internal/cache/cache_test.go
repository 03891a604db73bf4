package cache

import (
	"context"
	"testing"
	"time"

	"github.com/adhyaya/adhyaya/internal/dashboard"
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewMemoryCache(time.Minute)
	c.now = func() time.Time { return now }

	if _, ok := c.Get(ctx, "asha"); ok {
		t.Fatal("expected miss on empty cache")
	}

	c.Set(ctx, "asha", dashboard.Summary{Total: 4}, 0)
	got, ok := c.Get(ctx, "asha")
	if !ok || got.Total != 4 {
		t.Errorf("Get = %+v, %v", got, ok)
	}

	now = now.Add(time.Minute)
	if _, ok := c.Get(ctx, "asha"); ok {
		t.Error("expected entry to expire after ttl")
	}

	c.Set(ctx, "asha", dashboard.Summary{Total: 5}, 0)
	c.Invalidate(ctx, "asha")
	if _, ok := c.Get(ctx, "asha"); ok {
		t.Error("expected miss after invalidate")
	}
}

func TestMemoryCacheMaxAge(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewMemoryCache(5 * time.Minute)
	c.now = func() time.Time { return now }

	c.Set(ctx, "asha", dashboard.Summary{Total: 1}, 30*time.Second)
	now = now.Add(30 * time.Second)
	if _, ok := c.Get(ctx, "asha"); ok {
		t.Error("entry outlived its max age")
	}

	// A max age above the TTL does not extend it.
	c.Set(ctx, "asha", dashboard.Summary{Total: 2}, time.Hour)
	now = now.Add(5 * time.Minute)
	if _, ok := c.Get(ctx, "asha"); ok {
		t.Error("entry outlived the cache TTL")
	}
}

func TestExpiry(t *testing.T) {
	tests := []struct {
		ttl, maxAge, want time.Duration
	}{
		{time.Minute, 0, time.Minute},
		{time.Minute, -time.Second, time.Minute},
		{time.Minute, 10 * time.Second, 10 * time.Second},
		{time.Minute, time.Hour, time.Minute},
	}
	for _, tt := range tests {
		if got := expiry(tt.ttl, tt.maxAge); got != tt.want {
			t.Errorf("expiry(%s, %s) = %s, want %s", tt.ttl, tt.maxAge, got, tt.want)
		}
	}
}

func TestNopCache(t *testing.T) {
	var c SummaryCache = NopCache{}
	c.Set(context.Background(), "asha", dashboard.Summary{Total: 1}, time.Minute)
	if _, ok := c.Get(context.Background(), "asha"); ok {
		t.Error("NopCache should never hit")
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestSummaryKey(t *testing.T) {
	if got := summaryKey("adhyaya:", "asha"); got != "adhyaya:summary:asha" {
		t.Errorf("summaryKey = %q", got)
	}
}

func TestNewRedisCache_Unreachable(t *testing.T) {
	if _, err := NewRedisCache(RedisConfig{Addr: "127.0.0.1:1"}, nil); err == nil {
		t.Error("expected ping error for unreachable redis")
	}
	if _, err := NewRedisCache(RedisConfig{}, nil); err == nil {
		t.Error("expected error for empty address")
	}
}
