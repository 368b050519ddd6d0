package rate

import (
	"sync"
	"time"
)

// WindowLimiter allows at most limit hits per key inside a fixed window.
type WindowLimiter struct {
	mu              sync.Mutex
	limit           int
	window          time.Duration
	items           map[string]*windowEntry
	lastCleanup     time.Time
	cleanupInterval time.Duration
	now             func() time.Time
}

type windowEntry struct {
	start time.Time
	count int
}

// NewWindowLimiter creates window limiter.
func NewWindowLimiter(limit int, window time.Duration) *WindowLimiter {
	return &WindowLimiter{
		limit:           limit,
		window:          window,
		items:           make(map[string]*windowEntry),
		lastCleanup:     time.Now(),
		cleanupInterval: window,
		now:             time.Now,
	}
}

// Allow records a hit for key and reports whether it fits in the current window.
// A non-positive limit disables the limiter.
func (l *WindowLimiter) Allow(key string) bool {
	if l == nil || l.limit <= 0 {
		return true
	}
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	l.maybeCleanup(now)

	entry, ok := l.items[key]
	if !ok || now.Sub(entry.start) >= l.window {
		l.items[key] = &windowEntry{start: now, count: 1}
		return true
	}
	if entry.count >= l.limit {
		return false
	}
	entry.count++
	return true
}

// Reset forgets every hit recorded for key.
func (l *WindowLimiter) Reset(key string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.items, key)
}

func (l *WindowLimiter) maybeCleanup(now time.Time) {
	if l.cleanupInterval <= 0 || l.window <= 0 {
		return
	}
	if !l.lastCleanup.IsZero() && now.Sub(l.lastCleanup) < l.cleanupInterval {
		return
	}
	for key, entry := range l.items {
		if now.Sub(entry.start) >= l.window {
			delete(l.items, key)
		}
	}
	l.lastCleanup = now
}
