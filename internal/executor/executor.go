// Package executor implements the Fan-out Executor of §4.4: scatter the
// query across every routed adapter concurrently, isolate per-adapter
// failures, and for interactive queries return as soon as the first
// offer has landed and a grace window has elapsed, letting the rest of
// the tier keep running in the background.
//
// The scatter-gather shape (buffered result channel, one goroutine per
// source, a separate goroutine closing the channel once the wait group
// drains, panic recovery per goroutine) follows
// internal/usecase.flightSearchUseCase.Search in the teacher.
package executor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/flightcore/crawl/core"
	"github.com/flightcore/crawl/internal/adapter"
	"github.com/flightcore/crawl/internal/breaker"
	"github.com/flightcore/crawl/internal/config"
	"github.com/flightcore/crawl/internal/normalize"
	"github.com/flightcore/crawl/internal/router"
	"github.com/flightcore/crawl/pkg/util"
)

// Mode distinguishes an interactive, latency-sensitive query from a
// background refresh that can afford to wait for every source (§4.4).
type Mode int

const (
	ModeInteractive Mode = iota
	ModeBackground
)

// InvocationState is the per-adapter state machine of §4.4.
type InvocationState string

const (
	StatePending   InvocationState = "PENDING"
	StateRunning   InvocationState = "RUNNING"
	StateSuccess   InvocationState = "SUCCESS"
	StateError     InvocationState = "ERROR"
	StateCancelled InvocationState = "CANCELLED"
	StateTimedOut  InvocationState = "TIMED_OUT"
)

// Source bundles one adapter with the invocation collaborator the
// Executor injects into every Search call (§4.1's AdapterContext
// pattern — no process-wide singleton).
type Source struct {
	Adapter adapter.Adapter
	Context *adapter.AdapterContext
}

// BackgroundUpdate is delivered for every source that finishes after
// Search has already returned to an interactive caller.
type BackgroundUpdate struct {
	SourceID string
	Tier     router.Tier
	Offers   []*core.Offer
	Err      error
}

// BackgroundFunc receives straggler results; the caller typically
// folds these into the cache entry Search already returned.
type BackgroundFunc func(update BackgroundUpdate)

// Result is what Search hands to the Merger.
type Result struct {
	Offers                    []*core.Offer
	ProvidersQueried          []string
	ProvidersSucceeded        []string
	ProvidersFailed           []string
	SearchTimeMs              int64
	BackgroundCrawlDispatched bool
}

type sourceResult struct {
	SourceID string
	Tier     router.Tier
	State    InvocationState
	Offers   []*core.Offer
	Err      error
	Duration time.Duration
}

// Executor owns the collaborators one fan-out needs: the adapters
// themselves, the Router's tiering decision, the shared circuit
// breaker and health registries, and the normalizer dispatch table.
type Executor struct {
	sources    map[string]Source
	normalizer *normalize.Registry
	router     *router.Router
	breakers   *breaker.Registry
	health     *core.HealthRegistry
	adapterCfg map[string]config.AdapterConfig
	cfg        config.ExecutorConfig
}

// New wires an Executor from its collaborators; bootstrap.Build is the
// only caller expected to assemble these.
func New(
	sources map[string]Source,
	normalizer *normalize.Registry,
	rtr *router.Router,
	breakers *breaker.Registry,
	health *core.HealthRegistry,
	adapterCfg map[string]config.AdapterConfig,
	cfg config.ExecutorConfig,
) *Executor {
	return &Executor{
		sources:    sources,
		normalizer: normalizer,
		router:     rtr,
		breakers:   breakers,
		health:     health,
		adapterCfg: adapterCfg,
		cfg:        cfg,
	}
}

// Search runs the full fan-out for q. onBackground may be nil; it is
// only ever invoked for stragglers that finish after Search already
// returned (ModeInteractive only).
func (e *Executor) Search(ctx context.Context, q core.Query, mode Mode, onBackground BackgroundFunc) (*Result, error) {
	start := time.Now()

	// Every adapter goroutine runs against a context derived from the
	// background deadline, detached from the caller's own cancellation,
	// so an interactive caller returning early doesn't kill the
	// stragglers it just agreed to keep running (§4.4).
	bgCtx, cancelBg := context.WithTimeout(context.WithoutCancel(ctx), e.cfg.BackgroundDeadline)

	decisions := e.router.Route(q, e.adapterCfg)
	if len(decisions) == 0 {
		cancelBg()
		return nil, core.ErrNoRoute
	}

	var phase1, phase2 []router.Decision
	for _, d := range decisions {
		if d.Tier == router.TierFallback {
			phase2 = append(phase2, d)
		} else {
			phase1 = append(phase1, d)
		}
	}

	collect := make(chan sourceResult, len(decisions))
	var wg sync.WaitGroup
	launch := func(ds []router.Decision) {
		for _, d := range ds {
			src, ok := e.sources[d.SourceID]
			if !ok {
				continue
			}
			wg.Add(1)
			go func(d router.Decision, src Source) {
				defer wg.Done()
				e.invoke(bgCtx, q, d, src, collect)
			}(d, src)
		}
	}
	launch(phase1)

	returnCtx := ctx
	if mode == ModeInteractive {
		var cancelReturn context.CancelFunc
		returnCtx, cancelReturn = context.WithTimeout(ctx, e.cfg.InteractiveDeadline)
		defer cancelReturn()
	}

	results, allDone := e.awaitPhase(returnCtx, collect, len(phase1), mode)
	offers, queried, succeeded, failed := collectStats(results)

	backgroundDispatched := !allDone
	if backgroundDispatched && onBackground != nil {
		go e.drain(collect, len(phase1)-len(results), onBackground)
	}

	// Fallback tier only fires when primary+complementary fully settled
	// within the sub-deadline and still produced nothing (§4.3 tiers,
	// §4.4's "fallback invoked only if ... yield zero offers").
	if len(offers) == 0 && len(phase2) > 0 && allDone {
		launch(phase2)
		results2, allDone2 := e.awaitPhase(returnCtx, collect, len(phase2), mode)
		o2, q2, s2, f2 := collectStats(results2)
		offers = append(offers, o2...)
		queried = append(queried, q2...)
		succeeded = append(succeeded, s2...)
		failed = append(failed, f2...)
		if !allDone2 {
			backgroundDispatched = true
			if onBackground != nil {
				go e.drain(collect, len(phase2)-len(results2), onBackground)
			}
		}
	}

	go func() {
		wg.Wait()
		cancelBg()
	}()

	return &Result{
		Offers:                    offers,
		ProvidersQueried:          queried,
		ProvidersSucceeded:        succeeded,
		ProvidersFailed:           failed,
		SearchTimeMs:              time.Since(start).Milliseconds(),
		BackgroundCrawlDispatched: backgroundDispatched,
	}, nil
}

// awaitPhase reads from collect until total results have arrived, or
// (interactive only) the grace window after the first offer elapses,
// or returnCtx's deadline is hit. allDone reports whether every source
// in the phase actually finished before we stopped waiting.
func (e *Executor) awaitPhase(ctx context.Context, collect <-chan sourceResult, total int, mode Mode) (results []sourceResult, allDone bool) {
	if total == 0 {
		return nil, true
	}
	var graceC <-chan time.Time
	for len(results) < total {
		select {
		case r := <-collect:
			results = append(results, r)
			if mode == ModeInteractive && graceC == nil && len(r.Offers) > 0 {
				graceC = time.After(e.cfg.FirstResponseGrace)
			}
		case <-graceC:
			return results, false
		case <-ctx.Done():
			return results, false
		}
	}
	return results, true
}

// drain absorbs the stragglers of a phase that returned early,
// forwarding each to onBackground as it lands.
func (e *Executor) drain(collect <-chan sourceResult, remaining int, onBackground BackgroundFunc) {
	for i := 0; i < remaining; i++ {
		r := <-collect
		onBackground(BackgroundUpdate{SourceID: r.SourceID, Tier: r.Tier, Offers: r.Offers, Err: r.Err})
	}
}

// invoke runs one adapter to completion (or timeout, or panic) and
// always sends exactly one sourceResult to collect.
func (e *Executor) invoke(ctx context.Context, q core.Query, d router.Decision, src Source, collect chan<- sourceResult) {
	defer func() {
		if p := recover(); p != nil {
			collect <- sourceResult{
				SourceID: d.SourceID, Tier: d.Tier, State: StateError,
				Err: core.NewSourceError(d.SourceID, core.FailureUnknown, fmt.Errorf("adapter panic: %v", p)),
			}
		}
	}()

	cfg := e.adapterCfg[d.SourceID]
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	if remaining, ok := deadlineRemaining(ctx); ok {
		if remaining < e.cfg.MinDeadlineFloor {
			collect <- sourceResult{
				SourceID: d.SourceID, Tier: d.Tier, State: StateCancelled,
				Err: core.NewSourceError(d.SourceID, core.FailureCancelled, context.DeadlineExceeded),
			}
			return
		}
		if remaining < timeout {
			timeout = remaining
		}
	}

	invCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if limiter := src.Context.Limiter; limiter != nil && !limiter.Wait(invCtx) {
		collect <- sourceResult{
			SourceID: d.SourceID, Tier: d.Tier, State: StateError,
			Err: core.NewSourceError(d.SourceID, core.FailureRateLimited, errors.New("token bucket empty, wait exceeded deadline")),
		}
		return
	}

	start := time.Now()
	var raw []*core.RawOffer
	var callErr error

	// The breaker's generic result type is a single *core.RawOffer
	// (invariant 6 needs only success/failure, not the payload), so the
	// closure below captures the adapter's actual slice result on the
	// side and reports the first offer (or a placeholder) to satisfy
	// the breaker's signature.
	retryCfg := util.DefaultRetryConfig()
	_ = util.ExecuteWithRetryLogged(invCtx, retryCfg, func() error {
		_, err := e.breakers.Execute(d.SourceID, func() (*core.RawOffer, error) {
			offers, err2 := src.Adapter.Search(invCtx, src.Context, q)
			raw, callErr = offers, err2
			if err2 != nil {
				return nil, err2
			}
			if len(offers) > 0 {
				return offers[0], nil
			}
			return &core.RawOffer{SourceID: d.SourceID}, nil
		})
		if err == nil {
			return nil
		}
		if errors.Is(err, core.ErrCircuitOpen) {
			return nil // tripped breaker is a routing-level skip, not retryable
		}
		if !src.Adapter.ClassifyFailure(err).Retryable() {
			return nil
		}
		return err
	}, "adapter:"+d.SourceID)

	duration := time.Since(start)
	state := StateSuccess
	var finalErr error

	switch {
	case callErr != nil:
		finalErr = callErr
		kind := src.Adapter.ClassifyFailure(callErr)
		state = StateError
		if invCtx.Err() != nil {
			state = StateTimedOut
		}
		e.health.Get(d.SourceID).RecordResult(false, duration, kind)
		if kind == core.FailureBotChallenge && src.Context.Escalation != nil {
			src.Context.Escalation.Escalate()
		}
	default:
		e.health.Get(d.SourceID).RecordResult(true, duration, "")
		if src.Context.Escalation != nil {
			src.Context.Escalation.Decay()
		}
	}

	normalized := make([]*core.Offer, 0, len(raw))
	for _, r := range raw {
		o, err := e.normalizer.Normalize(r)
		if err != nil {
			var pe *core.ParseError
			if errors.As(err, &pe) && pe.Unusable {
				finalErr = err
				state = StateError
				e.health.Get(d.SourceID).RecordStructuralChange()
				log.Warn().
					Str("source_id", d.SourceID).
					Str("field", pe.Field).
					Err(pe.Err).
					Msg("structural change: source response no longer parses, failing the call")
			}
			continue
		}
		normalized = append(normalized, o)
	}

	collect <- sourceResult{
		SourceID: d.SourceID, Tier: d.Tier, State: state,
		Offers: normalized, Err: finalErr, Duration: duration,
	}
}

func deadlineRemaining(ctx context.Context) (time.Duration, bool) {
	dl, ok := ctx.Deadline()
	if !ok {
		return 0, false
	}
	return time.Until(dl), true
}

func collectStats(results []sourceResult) (offers []*core.Offer, queried, succeeded, failed []string) {
	for _, r := range results {
		queried = append(queried, r.SourceID)
		if r.Err != nil {
			failed = append(failed, r.SourceID)
		} else {
			succeeded = append(succeeded, r.SourceID)
		}
		offers = append(offers, r.Offers...)
	}
	return offers, queried, succeeded, failed
}
