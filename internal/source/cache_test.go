package source

import (
	"context"
	"testing"
	"time"

	"github.com/jobscout/jobscout/internal/jobs"
)

func TestMemoryCacheGetSet(t *testing.T) {
	t.Parallel()

	cache := NewMemoryCache(time.Hour)
	ctx := context.Background()

	if _, ok := cache.Get(ctx, "missing"); ok {
		t.Fatal("expected miss on empty cache")
	}

	stored := []jobs.Job{{ID: "a", Title: "Backend Engineer"}}
	cache.Set(ctx, "key", stored)

	got, ok := cache.Get(ctx, "key")
	if !ok {
		t.Fatal("expected hit after Set")
	}
	if len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("unexpected cached jobs: %+v", got)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	current := base
	cache := NewMemoryCache(time.Hour)
	cache.now = func() time.Time { return current }
	ctx := context.Background()

	cache.Set(ctx, "key", []jobs.Job{{ID: "a"}})

	current = base.Add(59 * time.Minute)
	if _, ok := cache.Get(ctx, "key"); !ok {
		t.Fatal("entry expired before its TTL")
	}

	current = base.Add(time.Hour)
	if _, ok := cache.Get(ctx, "key"); ok {
		t.Fatal("entry survived past its TTL")
	}
	if cache.Len() != 0 {
		t.Fatalf("expired entry not purged on access, %d entries left", cache.Len())
	}
}

func TestMemoryCacheSweep(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	current := base
	cache := NewMemoryCache(time.Hour)
	cache.now = func() time.Time { return current }
	ctx := context.Background()

	cache.Set(ctx, "old", []jobs.Job{{ID: "a"}})
	current = base.Add(30 * time.Minute)
	cache.Set(ctx, "fresh", []jobs.Job{{ID: "b"}})

	current = base.Add(90 * time.Minute)
	cache.Sweep(ctx)

	if cache.Len() != 1 {
		t.Fatalf("expected 1 live entry after sweep, got %d", cache.Len())
	}
	if _, ok := cache.Get(ctx, "fresh"); !ok {
		t.Fatal("sweep evicted a live entry")
	}
}
