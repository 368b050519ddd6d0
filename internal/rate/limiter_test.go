package rate

import (
	"testing"
	"time"
)

type stepClock struct {
	now time.Time
}

func (c *stepClock) Now() time.Time { return c.now }

func TestWindowLimiter(t *testing.T) {
	clock := &stepClock{now: time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)}
	l := NewWindowLimiter(2, time.Minute)
	l.now = clock.Now

	if !l.Allow("1.2.3.4") || !l.Allow("1.2.3.4") {
		t.Fatalf("first two hits must pass")
	}
	if l.Allow("1.2.3.4") {
		t.Fatalf("third hit inside window must be rejected")
	}
	if !l.Allow("5.6.7.8") {
		t.Fatalf("other keys are independent")
	}

	l.Reset("1.2.3.4")
	if !l.Allow("1.2.3.4") {
		t.Fatalf("reset key must pass again")
	}

	clock.now = clock.now.Add(time.Minute)
	if !l.Allow("1.2.3.4") || !l.Allow("1.2.3.4") {
		t.Fatalf("new window must pass")
	}
}

func TestWindowLimiterDisabled(t *testing.T) {
	l := NewWindowLimiter(0, time.Minute)
	for i := 0; i < 100; i++ {
		if !l.Allow("k") {
			t.Fatalf("disabled limiter rejected hit %d", i)
		}
	}
	var nilLimiter *WindowLimiter
	if !nilLimiter.Allow("k") {
		t.Fatalf("nil limiter must allow")
	}
}

func TestKeyedLimiter(t *testing.T) {
	clock := &stepClock{now: time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)}
	l := NewKeyedLimiter(1, 2, time.Minute)
	l.now = clock.Now
	l.lastGC = clock.now

	if !l.Allow("a") || !l.Allow("a") {
		t.Fatalf("burst must pass")
	}
	if l.Allow("a") {
		t.Fatalf("bucket should be empty")
	}
	clock.now = clock.now.Add(time.Second)
	if !l.Allow("a") {
		t.Fatalf("one token should refill after a second")
	}
	if !l.Allow("b") {
		t.Fatalf("other keys are independent")
	}

	clock.now = clock.now.Add(2 * time.Minute)
	_ = l.Allow("c")
	if got := l.size(); got != 1 {
		t.Fatalf("idle buckets should be dropped, have %d", got)
	}
}
