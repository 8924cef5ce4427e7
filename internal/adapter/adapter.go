// Package adapter defines the uniform contract every upstream source
// satisfies (§4.1): one method to fetch raw offers against a deadline,
// a health check, and a failure classifier the Executor uses to drive
// retry, circuit-breaker and anti-bot escalation decisions.
package adapter

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/flightcore/crawl/core"
	"github.com/flightcore/crawl/internal/ratelimit"
)

//go:generate mockgen -destination=adapter_mock.go -package=adapter github.com/flightcore/crawl/internal/adapter Adapter

// Adapter is the contract every source variant implements (§4.1). The
// contract is identical across wildly different wire protocols —
// binary-metasearch, REST+API-key, browser automation, GDS SDK — only
// the implementation differs.
type Adapter interface {
	// SourceID is this adapter's unique identifier, used for routing,
	// health tracking, and result attribution.
	SourceID() string

	// Search fetches raw offers for q, respecting ctx's deadline at
	// every I/O suspension point. An empty slice with a nil error means
	// the upstream genuinely had nothing to offer.
	Search(ctx context.Context, actx *AdapterContext, q core.Query) ([]*core.RawOffer, error)

	// HealthCheck performs a lightweight upstream probe used to decide
	// whether a HALF_OPEN breaker should close again.
	HealthCheck(ctx context.Context) error

	// ClassifyFailure maps an error returned from Search into the
	// taxonomy of §7 so retry/backoff/circuit decisions stay uniform.
	ClassifyFailure(err error) core.FailureKind
}

// EscalatingAdapter is implemented by adapters with more than one
// anti-bot strategy (§4.1 "anti-bot escalation"). Adapters with a
// single fixed strategy need not implement it.
type EscalatingAdapter interface {
	Adapter
	// Strategies returns this adapter's ordered escalation ladder, from
	// least to most aggressive.
	Strategies() []string
}

// AdapterContext is the explicit, per-invocation collaborator the
// Executor injects into Search — replacing any shared mutable
// module-level HTTP client with something owned by the caller and
// handed down, so no adapter reaches for a process-wide singleton.
type AdapterContext struct {
	HTTPClient *http.Client
	Limiter    *ratelimit.Limiter
	Escalation *EscalationState
	Credential Credential
}

// Credential is the anti-bot/auth material an adapter variant needs:
// a shared tenant ID, an API key, an OAuth token, or nothing at all,
// depending on §4.1's per-variant table.
type Credential struct {
	APIKey      string
	TenantID    string
	OAuthToken  string
	ExpiresAt   time.Time
}

// Expired reports whether an OAuth-style credential needs refreshing,
// 60 seconds before actual expiry per the gds-sdk and official-api
// variants' stated refresh margin.
func (c Credential) Expired(now time.Time) bool {
	if c.ExpiresAt.IsZero() {
		return false
	}
	return !now.Before(c.ExpiresAt.Add(-60 * time.Second))
}

// EscalationState tracks an adapter's current position on its
// anti-bot strategy ladder (§4.1). On a classified BOT_CHALLENGE
// failure the Executor advances the adapter to the next strategy for
// a configurable number of subsequent requests, then decays back.
type EscalationState struct {
	mu          sync.Mutex
	strategies  []string
	index       int
	remaining   int
	decayAfterN int
}

// NewEscalationState builds escalation tracking over an ordered
// strategy ladder. decayAfterN is how many subsequent requests stay on
// an escalated strategy before decaying one level back down.
func NewEscalationState(strategies []string, decayAfterN int) *EscalationState {
	if decayAfterN <= 0 {
		decayAfterN = 5
	}
	return &EscalationState{strategies: strategies, decayAfterN: decayAfterN}
}

// Current returns the strategy this adapter should use for its next
// request.
func (e *EscalationState) Current() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.strategies) == 0 {
		return ""
	}
	return e.strategies[e.index]
}

// Escalate advances to the next strategy after a BOT_CHALLENGE
// failure. Strategies are never tried in parallel on the same request
// (§4.1) — this only affects the *next* invocation.
func (e *EscalationState) Escalate() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.index < len(e.strategies)-1 {
		e.index++
	}
	e.remaining = e.decayAfterN
}

// Decay is called after every successful request; once remaining
// requests on the current level are exhausted, it steps back down one
// level.
func (e *EscalationState) Decay() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.index == 0 {
		return
	}
	if e.remaining > 0 {
		e.remaining--
		return
	}
	e.index--
	e.remaining = e.decayAfterN
}
