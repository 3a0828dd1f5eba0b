package source

import (
	"sync"
	"time"
)

// SlidingWindow is a per-adapter request counter over a trailing time
// window. Writes are serialized by the mutex: concurrent callers of the same
// adapter instance share one limiter, and a lost update would silently defeat
// it.
type SlidingWindow struct {
	mu      sync.Mutex
	ceiling int
	window  time.Duration
	stamps  []time.Time
	now     func() time.Time
}

// NewSlidingWindow creates a limiter allowing ceiling requests per window.
func NewSlidingWindow(ceiling int, window time.Duration) *SlidingWindow {
	return &SlidingWindow{
		ceiling: ceiling,
		window:  window,
		now:     time.Now,
	}
}

// TryAcquire records a request slot if the window has capacity. It never
// blocks; a denied caller decides whether to fail or wait.
func (l *SlidingWindow) TryAcquire() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.prune(l.now())
	if len(l.stamps) >= l.ceiling {
		return false
	}
	l.stamps = append(l.stamps, l.now())
	return true
}

// TimeUntilReset returns how long until the oldest recorded request leaves
// the window, freeing a slot. Zero when the window is empty.
func (l *SlidingWindow) TimeUntilReset() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.prune(now)
	if len(l.stamps) == 0 {
		return 0
	}
	return l.stamps[0].Add(l.window).Sub(now)
}

// prune drops timestamps older than the window bound. Callers hold the lock.
func (l *SlidingWindow) prune(now time.Time) {
	cutoff := now.Add(-l.window)
	kept := l.stamps[:0]
	for _, t := range l.stamps {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	l.stamps = kept
}
