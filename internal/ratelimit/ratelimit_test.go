package ratelimit

import (
	"testing"
	"time"
)

// fakeClock lets tests advance time deterministically.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func newTestLimiter(window time.Duration, max int) (*Limiter, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	l := New(window, max)
	l.now = clock.Now
	return l, clock
}

func TestLimiterAllowsUnderLimit(t *testing.T) {
	l, _ := newTestLimiter(time.Minute, 10)

	for i := 0; i < 10; i++ {
		if _, allowed := l.Check("sess-1"); !allowed {
			t.Fatalf("request %d: expected allowed", i+1)
		}
	}
}

func TestLimiterRejectsOverLimit(t *testing.T) {
	l, _ := newTestLimiter(time.Minute, 10)

	for j := 0; j < 10; j++ {
		l.Check("sess-1")
	}

	retryAfter, allowed := l.Check("sess-1")
	if allowed {
		t.Fatal("11th request within the window should be rejected")
	}
	if retryAfter < 1 || retryAfter > 60 {
		t.Errorf("expected retryAfter in [1,60], got %d", retryAfter)
	}
}

func TestLimiterWindowRollover(t *testing.T) {
	l, clock := newTestLimiter(time.Minute, 2)

	l.Check("sess-1")
	l.Check("sess-1")
	if _, allowed := l.Check("sess-1"); allowed {
		t.Fatal("expected rejection before rollover")
	}

	clock.now = clock.now.Add(61 * time.Second)
	if _, allowed := l.Check("sess-1"); !allowed {
		t.Fatal("expected allow immediately after window rollover")
	}
}

func TestLimiterPerKeyIsolation(t *testing.T) {
	l, _ := newTestLimiter(time.Minute, 1)

	l.Check("sess-1")
	if _, allowed := l.Check("sess-1"); allowed {
		t.Fatal("sess-1 should be exhausted")
	}
	if _, allowed := l.Check("sess-2"); !allowed {
		t.Fatal("sess-2 should be unaffected by sess-1")
	}
}

func TestLimiterRetryAfterShrinksWithTime(t *testing.T) {
	l, clock := newTestLimiter(time.Minute, 1)

	l.Check("sess-1")
	first, _ := l.Check("sess-1")

	clock.now = clock.now.Add(30 * time.Second)
	second, allowed := l.Check("sess-1")
	if allowed {
		t.Fatal("still inside the window, expected rejection")
	}
	if second >= first {
		t.Errorf("retryAfter should shrink as the window ages: first=%d second=%d", first, second)
	}
}

func TestLimiterCleanupDropsStaleRecords(t *testing.T) {
	l, clock := newTestLimiter(time.Minute, 5)

	l.Check("sess-1")
	l.Check("sess-2")
	if l.Len() != 2 {
		t.Fatalf("expected 2 tracked keys, got %d", l.Len())
	}

	clock.now = clock.now.Add(2 * time.Minute)
	l.cleanup()
	if l.Len() != 0 {
		t.Errorf("expected stale records dropped, got %d", l.Len())
	}
}

func TestLimiterMaxKeysCap(t *testing.T) {
	l, _ := newTestLimiter(time.Minute, 5)
	l.maxKeys = 2

	l.Check("a")
	l.Check("b")
	retryAfter, allowed := l.Check("c")
	if allowed {
		t.Fatal("expected rejection at key capacity")
	}
	if retryAfter < 1 {
		t.Errorf("expected positive retryAfter at capacity, got %d", retryAfter)
	}
}
