package core

import (
	"sync"
	"time"
)

// BreakerState mirrors the circuit breaker state machine of §4.4/§5. It is
// defined in core (not internal/breaker) because the Router needs to read
// it when deciding tiers, and core must stay the single shared vocabulary.
type BreakerState string

const (
	BreakerClosed   BreakerState = "CLOSED"
	BreakerOpen     BreakerState = "OPEN"
	BreakerHalfOpen BreakerState = "HALF_OPEN"
)

// SourceHealth is the mutable per-source record of §3. The Fan-out
// Executor is its single writer; the Router and cache layer only ever read
// a snapshot (Snapshot), so readers never observe a torn update.
type SourceHealth struct {
	mu sync.RWMutex

	sourceID          string
	windowSuccess     int
	windowTotal       int
	p95LatencyMs      int64
	lastFailure       FailureKind
	breakerState      BreakerState
	bucketRemain      float64
	structuralChanges int64
}

// NewSourceHealth starts a source CLOSED with an empty rolling window.
func NewSourceHealth(sourceID string) *SourceHealth {
	return &SourceHealth{sourceID: sourceID, breakerState: BreakerClosed}
}

// HealthSnapshot is the immutable point-in-time view readers consume.
type HealthSnapshot struct {
	SourceID          string
	SuccessRate       float64 // rolling window of at most the last 200 results, [0,1]; not bounded by time
	P95LatencyMs      int64
	LastFailure       FailureKind
	BreakerState      BreakerState
	BucketRemain      float64
	StructuralChanges int64
}

// Snapshot returns a consistent read of the current health state.
func (h *SourceHealth) Snapshot() HealthSnapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	rate := 1.0
	if h.windowTotal > 0 {
		rate = float64(h.windowSuccess) / float64(h.windowTotal)
	}
	return HealthSnapshot{
		SourceID:          h.sourceID,
		SuccessRate:       rate,
		P95LatencyMs:      h.p95LatencyMs,
		LastFailure:       h.lastFailure,
		BreakerState:      h.breakerState,
		BucketRemain:      h.bucketRemain,
		StructuralChanges: h.structuralChanges,
	}
}

// RecordResult updates the rolling window and latency estimate. Only the
// Executor calls this — it is the documented single writer (§5).
func (h *SourceHealth) RecordResult(success bool, latency time.Duration, kind FailureKind) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if kind == FailureCancelled {
		// Cancellation never counts against health (§7).
		return
	}

	h.windowTotal++
	if success {
		h.windowSuccess++
	} else {
		h.lastFailure = kind
	}

	// Exponentially-weighted p95 approximation: nudge toward the observed
	// latency instead of keeping a full histogram, which is overkill for
	// the per-adapter health snapshot this feeds.
	observed := latency.Milliseconds()
	if h.p95LatencyMs == 0 {
		h.p95LatencyMs = observed
	} else {
		h.p95LatencyMs = (h.p95LatencyMs*9 + observed) / 10
	}

	// Cap the window at 200 results so it stays a rolling window rather
	// than an all-time average that never recovers from an old incident.
	// The cap is by count only; old results are not aged out by time.
	const windowCap = 200
	if h.windowTotal > windowCap {
		h.windowSuccess = h.windowSuccess * windowCap / h.windowTotal
		h.windowTotal = windowCap
	}
}

// SetBreakerState is called by internal/breaker's state-change hook so the
// Router can read breaker state without importing internal/breaker
// directly (avoiding an internal/executor <-> internal/router import
// cycle).
func (h *SourceHealth) SetBreakerState(s BreakerState) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.breakerState = s
}

// RecordStructuralChange bumps the count of PARSE_ERROR(unusable)
// responses this source has produced (§7), so an operator dashboard
// reading Snapshot can see a source whose response shape broke rather
// than one that is merely erroring transiently.
func (h *SourceHealth) RecordStructuralChange() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.structuralChanges++
}

// SetBucketRemaining records the token bucket's remaining capacity for
// observability; it does not gate requests itself (internal/ratelimit
// does that directly against the bucket).
func (h *SourceHealth) SetBucketRemaining(remaining float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.bucketRemain = remaining
}

// HealthRegistry owns one SourceHealth per configured source.
type HealthRegistry struct {
	mu    sync.RWMutex
	byID  map[string]*SourceHealth
}

func NewHealthRegistry() *HealthRegistry {
	return &HealthRegistry{byID: make(map[string]*SourceHealth)}
}

// Get returns (creating if absent) the SourceHealth for sourceID.
func (r *HealthRegistry) Get(sourceID string) *SourceHealth {
	r.mu.RLock()
	h, ok := r.byID[sourceID]
	r.mu.RUnlock()
	if ok {
		return h
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if h, ok := r.byID[sourceID]; ok {
		return h
	}
	h = NewSourceHealth(sourceID)
	r.byID[sourceID] = h
	return h
}

// Snapshots returns a snapshot of every registered source's health.
func (r *HealthRegistry) Snapshots() map[string]HealthSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]HealthSnapshot, len(r.byID))
	for id, h := range r.byID {
		out[id] = h.Snapshot()
	}
	return out
}
