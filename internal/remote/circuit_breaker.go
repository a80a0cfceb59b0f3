package remote

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// circuitState represents the state of a circuit breaker
type circuitState int

const (
	stateClosed   circuitState = iota // Normal operation
	stateOpen                         // Service failing, calls refused
	stateHalfOpen                     // One trial call in flight, others refused
)

func (s circuitState) String() string {
	switch s {
	case stateOpen:
		return "open"
	case stateHalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}

// circuitBreaker tracks consecutive failures per operation and refuses calls
// to an operation that keeps failing
type circuitBreaker struct {
	failures         map[string]int
	lastFailure      map[string]time.Time
	state            map[string]circuitState
	trial            map[string]bool // half-open trial call in flight
	failureThreshold int
	openDuration     time.Duration
	now              func() time.Time
	logger           *slog.Logger
	mu               sync.Mutex
}

func newCircuitBreaker(threshold int, openDuration time.Duration, logger *slog.Logger) *circuitBreaker {
	return &circuitBreaker{
		failureThreshold: threshold,
		openDuration:     openDuration,
		failures:         make(map[string]int),
		lastFailure:      make(map[string]time.Time),
		state:            make(map[string]circuitState),
		trial:            make(map[string]bool),
		now:              time.Now,
		logger:           logger,
	}
}

// canAttempt reports whether op may be called now.
// An open circuit moves to half-open once openDuration has passed and lets
// exactly one trial call through until that call is recorded or released.
func (cb *circuitBreaker) canAttempt(op string) error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.getState(op) {
	case stateOpen:
		lastFail := cb.lastFailure[op]
		if cb.now().Sub(lastFail) > cb.openDuration {
			cb.setState(op, stateHalfOpen)
			cb.trial[op] = true
			return nil
		}
		return fmt.Errorf("%w: %s failed %d times, next retry at %s",
			ErrCircuitOpen,
			op,
			cb.failures[op],
			lastFail.Add(cb.openDuration).Format("15:04:05"),
		)
	case stateHalfOpen:
		if cb.trial[op] {
			return fmt.Errorf("%w: %s trial call in flight", ErrCircuitOpen, op)
		}
		cb.trial[op] = true
		return nil
	default:
		return nil
	}
}

// releaseTrial frees the half-open slot of a call that ended without telling
// anything about the service, e.g. a cancelled caller
func (cb *circuitBreaker) releaseTrial(op string) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	delete(cb.trial, op)
}

// recordSuccess resets failure tracking for op
func (cb *circuitBreaker) recordSuccess(op string) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	delete(cb.failures, op)
	delete(cb.lastFailure, op)
	delete(cb.trial, op)
	cb.setState(op, stateClosed)
}

// recordFailure counts a failed call; a failed trial call reopens immediately
func (cb *circuitBreaker) recordFailure(op string, err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures[op]++
	cb.lastFailure[op] = cb.now()
	failCount := cb.failures[op]
	delete(cb.trial, op)

	if failCount >= cb.failureThreshold || cb.getState(op) == stateHalfOpen {
		if cb.getState(op) != stateOpen {
			cb.logger.Warn("[REMOTE-CIRCUIT] opening circuit",
				"operation", op,
				"failures", failCount,
				"error", err)
		}
		cb.state[op] = stateOpen
		return
	}

	cb.logger.Debug("[REMOTE-CIRCUIT] call failed",
		"operation", op,
		"failures", failCount,
		"threshold", cb.failureThreshold,
		"error", err)
}

// getState returns the current state (must be called with lock held)
func (cb *circuitBreaker) getState(op string) circuitState {
	if state, exists := cb.state[op]; exists {
		return state
	}
	return stateClosed
}

// setState logs transitions (must be called with lock held)
func (cb *circuitBreaker) setState(op string, next circuitState) {
	prev := cb.getState(op)
	cb.state[op] = next
	if prev != next {
		cb.logger.Info("[REMOTE-CIRCUIT] circuit state changed",
			"operation", op,
			"from", prev.String(),
			"to", next.String())
	}
}
