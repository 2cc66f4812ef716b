package audit

import (
	"sync"
	"time"
)

// CircuitBreaker stops the worker from hammering a sink that keeps failing.
// While open, events are dropped from forwarding; they remain in the store.
type CircuitBreaker struct {
	mu sync.Mutex

	threshold int           // consecutive failures that open the circuit
	cooldown  time.Duration // how long to stay open before a trial publish
	now       func() time.Time

	failures  int
	open      bool
	openUntil time.Time
}

// NewCircuitBreaker returns a closed breaker. Non-positive arguments fall
// back to 5 failures and a one minute cooldown.
func NewCircuitBreaker(threshold int, cooldown time.Duration) *CircuitBreaker {
	if threshold <= 0 {
		threshold = 5
	}
	if cooldown <= 0 {
		cooldown = time.Minute
	}
	return &CircuitBreaker{threshold: threshold, cooldown: cooldown, now: time.Now}
}

// Allow reports whether a publish may be attempted. Once the cooldown has
// passed the breaker goes half-open and lets one trial through; a failed
// trial reopens it immediately.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if !cb.open {
		return true
	}
	if cb.now().Before(cb.openUntil) {
		return false
	}
	cb.open = false
	cb.failures = cb.threshold - 1
	return true
}

func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failures = 0
	cb.open = false
}

// RecordFailure counts a failed publish and reports whether it opened the
// circuit.
func (cb *CircuitBreaker) RecordFailure() (opened bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures++
	if !cb.open && cb.failures >= cb.threshold {
		cb.open = true
		cb.openUntil = cb.now().Add(cb.cooldown)
		return true
	}
	return false
}

func (cb *CircuitBreaker) IsOpen() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.open
}
