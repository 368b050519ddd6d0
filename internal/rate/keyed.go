package rate

import (
	"sync"
	"time"

	xrate "golang.org/x/time/rate"
)

// KeyedLimiter keeps one token bucket per key and drops buckets idle for longer than
// idleTTL.
type KeyedLimiter struct {
	mu       sync.Mutex
	limiters map[string]*keyedEntry
	rate     xrate.Limit
	burst    int
	idleTTL  time.Duration
	lastGC   time.Time
	now      func() time.Time
}

type keyedEntry struct {
	limiter  *xrate.Limiter
	lastSeen time.Time
}

func NewKeyedLimiter(rps float64, burst int, idleTTL time.Duration) *KeyedLimiter {
	if rps <= 0 {
		rps = 1
	}
	if burst <= 0 {
		burst = 1
	}
	if idleTTL <= 0 {
		idleTTL = 10 * time.Minute
	}
	return &KeyedLimiter{
		limiters: make(map[string]*keyedEntry),
		rate:     xrate.Limit(rps),
		burst:    burst,
		idleTTL:  idleTTL,
		lastGC:   time.Now(),
		now:      time.Now,
	}
}

// Allow takes one token from key's bucket.
func (l *KeyedLimiter) Allow(key string) bool {
	if l == nil {
		return true
	}
	now := l.now()
	return l.entry(key, now).limiter.AllowN(now, 1)
}

func (l *KeyedLimiter) entry(key string, now time.Time) *keyedEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastGC) >= l.idleTTL {
		for k, e := range l.limiters {
			if now.Sub(e.lastSeen) >= l.idleTTL {
				delete(l.limiters, k)
			}
		}
		l.lastGC = now
	}

	e, ok := l.limiters[key]
	if !ok {
		e = &keyedEntry{limiter: xrate.NewLimiter(l.rate, l.burst)}
		l.limiters[key] = e
	}
	e.lastSeen = now
	return e
}

func (l *KeyedLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}
