// Package breaker wraps sony/gobreaker/v2 behind a per-source registry,
// following the BreakerByRoute per-route manager pattern, and bridges
// state changes into core.SourceHealth so the Router can read breaker
// state without importing this package.
package breaker

import (
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/flightcore/crawl/core"
)

// Settings configures one source's breaker, mirroring §4.4/§6.
type Settings struct {
	FailureThreshold uint32
	Window           time.Duration
	Cooldown         time.Duration
}

// Registry owns one gobreaker.CircuitBreaker[*core.RawOffer] per source
// and mirrors its state into the shared core.HealthRegistry.
type Registry struct {
	mu       sync.RWMutex
	breakers map[string]*gobreaker.CircuitBreaker[*core.RawOffer]
	health   *core.HealthRegistry
}

// NewRegistry builds a Registry that reports state transitions into
// health.
func NewRegistry(health *core.HealthRegistry) *Registry {
	return &Registry{
		breakers: make(map[string]*gobreaker.CircuitBreaker[*core.RawOffer]),
		health:   health,
	}
}

// Add registers a breaker for sourceID with the given Settings. A
// breaker opens once windowed failures reach FailureThreshold, and
// probes again after Cooldown (§4.4).
func (r *Registry) Add(sourceID string, s Settings) {
	threshold := s.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	cooldown := s.Cooldown
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}
	window := s.Window
	if window <= 0 {
		window = 60 * time.Second
	}

	st := gobreaker.Settings{
		Name:        sourceID,
		Interval:    window,
		Timeout:     cooldown,
		MaxRequests: 1,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// Only classified-as-upstream failures erode ConsecutiveFailures
		// (§4.4); CANCELLED, RATE_LIMITED and BOT_CHALLENGE are not
		// upstream unavailability and must not trip the circuit on their
		// own (§7, invariant 7). An error gobreaker doesn't recognize as
		// a *core.SourceError is treated as a failure, erring toward
		// tripping rather than silently never counting it.
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			se, ok := core.AsSourceError(err)
			if !ok {
				return false
			}
			return !se.Kind.CountsAgainstBreaker()
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			r.health.Get(name).SetBreakerState(translateState(to))
		},
	}

	cb := gobreaker.NewCircuitBreaker[*core.RawOffer](st)

	r.mu.Lock()
	r.breakers[sourceID] = cb
	r.mu.Unlock()
}

// Get returns the breaker for sourceID, or nil if unregistered.
func (r *Registry) Get(sourceID string) *gobreaker.CircuitBreaker[*core.RawOffer] {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.breakers[sourceID]
}

// Execute runs fn through sourceID's breaker, translating a tripped
// breaker into ErrCircuitOpen so callers can classify it as a
// non-retryable skip rather than a source failure (§4.4, §7).
func (r *Registry) Execute(sourceID string, fn func() (*core.RawOffer, error)) (*core.RawOffer, error) {
	cb := r.Get(sourceID)
	if cb == nil {
		return fn()
	}
	offer, err := cb.Execute(fn)
	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		return nil, core.ErrCircuitOpen
	}
	return offer, err
}

func translateState(s gobreaker.State) core.BreakerState {
	switch s {
	case gobreaker.StateOpen:
		return core.BreakerOpen
	case gobreaker.StateHalfOpen:
		return core.BreakerHalfOpen
	default:
		return core.BreakerClosed
	}
}
