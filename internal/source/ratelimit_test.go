package source

import (
	"testing"
	"time"
)

func TestSlidingWindowCeiling(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	current := base
	limiter := NewSlidingWindow(3, time.Hour)
	limiter.now = func() time.Time { return current }

	for i := 0; i < 3; i++ {
		if !limiter.TryAcquire() {
			t.Fatalf("acquire %d denied below ceiling", i+1)
		}
	}
	if limiter.TryAcquire() {
		t.Fatal("acquire above ceiling must be denied")
	}
}

func TestSlidingWindowSlides(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	current := base
	limiter := NewSlidingWindow(2, time.Hour)
	limiter.now = func() time.Time { return current }

	limiter.TryAcquire()
	current = base.Add(30 * time.Minute)
	limiter.TryAcquire()

	if limiter.TryAcquire() {
		t.Fatal("window full, acquire should fail")
	}

	// The first slot leaves the window one hour after it was taken.
	current = base.Add(61 * time.Minute)
	if !limiter.TryAcquire() {
		t.Fatal("slot should free once the oldest stamp leaves the window")
	}
}

func TestSlidingWindowTimeUntilReset(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	current := base
	limiter := NewSlidingWindow(1, time.Hour)
	limiter.now = func() time.Time { return current }

	if reset := limiter.TimeUntilReset(); reset != 0 {
		t.Fatalf("empty window should report zero reset, got %s", reset)
	}

	limiter.TryAcquire()
	current = base.Add(15 * time.Minute)
	if reset := limiter.TimeUntilReset(); reset != 45*time.Minute {
		t.Fatalf("expected 45m until reset, got %s", reset)
	}
}
