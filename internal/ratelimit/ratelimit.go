// Package ratelimit implements the per-conversation fixed-window rate limiter.
package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"
)

// Limiter counts requests per key in fixed windows. Keys are conversation
// identities: the session id when supplied, otherwise the caller address.
type Limiter struct {
	mu      sync.Mutex
	records map[string]*record
	window  time.Duration
	max     int
	maxKeys int // cap on tracked keys (prevents memory exhaustion)
	now     func() time.Time
}

type record struct {
	count   int
	resetAt time.Time
}

// New creates a limiter allowing max requests per window per key.
func New(window time.Duration, max int) *Limiter {
	return &Limiter{
		records: make(map[string]*record),
		window:  window,
		max:     max,
		maxKeys: 100000,
		now:     time.Now,
	}
}

// Check records one request for key. It returns allowed=true while the key is
// within budget; otherwise allowed=false with the whole seconds to wait before
// the window rolls over (always at least 1).
func (l *Limiter) Check(key string) (retryAfter int, allowed bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	rec, exists := l.records[key]
	if !exists {
		if len(l.records) >= l.maxKeys {
			return int(math.Ceil(l.window.Seconds())), false
		}
		rec = &record{}
		l.records[key] = rec
	}

	if !exists || now.After(rec.resetAt) {
		rec.count = 0
		rec.resetAt = now.Add(l.window)
	}

	rec.count++
	if rec.count > l.max {
		wait := int(math.Ceil(rec.resetAt.Sub(now).Seconds()))
		if wait < 1 {
			wait = 1
		}
		return wait, false
	}
	return 0, true
}

// StartCleanup spawns a goroutine that drops rolled-over records every
// interval. Cleanup only frees memory; Check self-resets stale records, so
// correctness never depends on it. Returns a cancel function.
func (l *Limiter) StartCleanup(interval time.Duration) func() {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				l.cleanup()
			}
		}
	}()
	return cancel
}

// cleanup removes records whose window has already rolled over.
func (l *Limiter) cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	for key, rec := range l.records {
		if now.After(rec.resetAt) {
			delete(l.records, key)
		}
	}
}

// Len returns the number of tracked keys (for metrics and testing).
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}
