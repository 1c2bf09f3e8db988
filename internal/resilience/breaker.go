// Package resilience provides reliability patterns for external service calls.
package resilience

import (
	"errors"
	"sync"
	"time"
)

// ErrCircuitOpen is returned when the circuit breaker is rejecting calls.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// Breaker trips after a run of consecutive failures and rejects calls for a
// cooldown period. After the cooldown one probe call is let through: success
// closes the circuit, failure restarts the cooldown.
type Breaker struct {
	mu          sync.Mutex
	maxFailures int
	cooldown    time.Duration

	failures int
	trippedAt time.Time
	probing   bool

	now func() time.Time // for testing
}

// NewBreaker creates a breaker that trips after maxFailures consecutive
// failures and cools down for the given duration.
func NewBreaker(maxFailures int, cooldown time.Duration) *Breaker {
	return &Breaker{
		maxFailures: maxFailures,
		cooldown:    cooldown,
		now:         time.Now,
	}
}

// Do runs fn unless the circuit is open, in which case ErrCircuitOpen is
// returned without invoking fn.
func (b *Breaker) Do(fn func() error) error {
	if !b.admit() {
		return ErrCircuitOpen
	}

	err := fn()
	b.record(err)
	return err
}

// admit decides whether a call may proceed right now.
func (b *Breaker) admit() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.failures < b.maxFailures {
		return true
	}
	// Tripped: allow a single probe once the cooldown has elapsed.
	if b.probing {
		return false
	}
	if b.now().Sub(b.trippedAt) < b.cooldown {
		return false
	}
	b.probing = true
	return true
}

// record updates the failure streak after a call finishes.
func (b *Breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.probing = false
	if err == nil {
		b.failures = 0
		return
	}
	b.failures++
	if b.failures >= b.maxFailures {
		b.trippedAt = b.now()
	}
}

// Tripped reports whether the circuit is currently rejecting calls.
func (b *Breaker) Tripped() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failures >= b.maxFailures && b.now().Sub(b.trippedAt) < b.cooldown
}
