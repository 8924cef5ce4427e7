package executor

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flightcore/crawl/core"
	"github.com/flightcore/crawl/internal/adapter"
	"github.com/flightcore/crawl/internal/breaker"
	"github.com/flightcore/crawl/internal/config"
	"github.com/flightcore/crawl/internal/normalize"
	"github.com/flightcore/crawl/internal/router"
)

type stubAdapter struct {
	id      string
	offers  []*core.RawOffer
	err     error
	delay   time.Duration
	failure core.FailureKind
}

func (s *stubAdapter) SourceID() string { return s.id }

func (s *stubAdapter) Search(ctx context.Context, actx *adapter.AdapterContext, q core.Query) ([]*core.RawOffer, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.offers, s.err
}

func (s *stubAdapter) HealthCheck(ctx context.Context) error { return nil }

func (s *stubAdapter) ClassifyFailure(err error) core.FailureKind {
	if s.failure != "" {
		return s.failure
	}
	return core.FailureUnknown
}

func stubOffer(sourceID string, amount float64) *core.Offer {
	seg := core.Segment{
		Carrier: "QG", FlightNumber: "QG100",
		Origin: "CGK", Destination: "SIN",
		DepartUTC: time.Now().Add(24 * time.Hour),
		ArriveUTC: time.Now().Add(26 * time.Hour),
		Cabin:     core.CabinEconomy,
	}
	price := core.Price{SourceID: sourceID, TrustScore: 70, Currency: "USD", Amount: amount, FetchedAt: time.Now()}
	return core.NewOffer([]core.Segment{seg}, []core.Price{price})
}

func sampleAdapterCfg(ids ...string) map[string]config.AdapterConfig {
	out := map[string]config.AdapterConfig{}
	for _, id := range ids {
		out[id] = config.AdapterConfig{ID: id, Enabled: true, TierOverride: config.TierOverrideAuto, Timeout: time.Second, TrustScore: 70}
	}
	return out
}

func newTestExecutor(sources map[string]Source, adapterCfg map[string]config.AdapterConfig) *Executor {
	health := core.NewHealthRegistry()
	rtr := router.New(router.NewCoverageTable(nil, nil), health)
	brk := breaker.NewRegistry(health)
	norm := normalize.NewRegistry()
	norm.Register("source-a", func(raw *core.RawOffer) (*core.Offer, error) {
		return raw.Payload.(*core.Offer), nil
	})
	norm.Register("source-b", func(raw *core.RawOffer) (*core.Offer, error) {
		return raw.Payload.(*core.Offer), nil
	})
	norm.Register("source-slow", func(raw *core.RawOffer) (*core.Offer, error) {
		return raw.Payload.(*core.Offer), nil
	})
	norm.Register("source-failing", func(raw *core.RawOffer) (*core.Offer, error) {
		return raw.Payload.(*core.Offer), nil
	})

	return New(sources, norm, rtr, brk, health, adapterCfg, config.ExecutorConfig{
		InteractiveDeadline: 500 * time.Millisecond,
		BackgroundDeadline:  2 * time.Second,
		FirstResponseGrace:  30 * time.Millisecond,
		MinDeadlineFloor:    10 * time.Millisecond,
	})
}

func sampleQuery() core.Query {
	return core.Query{
		Origin: "CGK", Destination: "SIN",
		DepartureDate: time.Now().Add(48 * time.Hour),
		Cabin:         core.CabinEconomy,
		TripType:      core.TripOneWay,
		Currency:      "USD",
		Passengers:    core.Passengers{Adults: 1},
	}
}

func TestSearchReturnsEarlyOnFirstResultPlusGraceWindow(t *testing.T) {
	fast := &stubAdapter{id: "source-a", offers: []*core.RawOffer{{SourceID: "source-a", Payload: stubOffer("source-a", 100)}}}
	slow := &stubAdapter{id: "source-slow", delay: 400 * time.Millisecond, offers: []*core.RawOffer{{SourceID: "source-slow", Payload: stubOffer("source-slow", 90)}}}

	sources := map[string]Source{
		"source-a":    {Adapter: fast, Context: &adapter.AdapterContext{}},
		"source-slow": {Adapter: slow, Context: &adapter.AdapterContext{}},
	}
	exec := newTestExecutor(sources, sampleAdapterCfg("source-a", "source-slow"))

	var bgUpdates []BackgroundUpdate
	var mu sync.Mutex
	start := time.Now()
	res, err := exec.Search(context.Background(), sampleQuery(), ModeInteractive, func(u BackgroundUpdate) {
		mu.Lock()
		bgUpdates = append(bgUpdates, u)
		mu.Unlock()
	})
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.True(t, res.BackgroundCrawlDispatched)
	assert.Less(t, elapsed, 400*time.Millisecond)
	require.Len(t, res.Offers, 1)
	assert.Equal(t, "source-a", res.Offers[0].Prices[0].SourceID)

	time.Sleep(500 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, bgUpdates, 1)
	assert.Equal(t, "source-slow", bgUpdates[0].SourceID)
}

func TestSearchIsolatesPerAdapterFailure(t *testing.T) {
	ok := &stubAdapter{id: "source-a", offers: []*core.RawOffer{{SourceID: "source-a", Payload: stubOffer("source-a", 100)}}}
	failing := &stubAdapter{id: "source-failing", err: core.NewSourceError("source-failing", core.FailureUpstreamEmpty, assertErr), failure: core.FailureUpstreamEmpty}

	sources := map[string]Source{
		"source-a":       {Adapter: ok, Context: &adapter.AdapterContext{}},
		"source-failing": {Adapter: failing, Context: &adapter.AdapterContext{}},
	}
	exec := newTestExecutor(sources, sampleAdapterCfg("source-a", "source-failing"))

	res, err := exec.Search(context.Background(), sampleQuery(), ModeBackground, nil)
	require.NoError(t, err)
	assert.Contains(t, res.ProvidersSucceeded, "source-a")
	assert.Contains(t, res.ProvidersFailed, "source-failing")
	require.Len(t, res.Offers, 1)
}

func TestSearchBackgroundModeWaitsForAll(t *testing.T) {
	a := &stubAdapter{id: "source-a", offers: []*core.RawOffer{{SourceID: "source-a", Payload: stubOffer("source-a", 100)}}}
	b := &stubAdapter{id: "source-b", delay: 50 * time.Millisecond, offers: []*core.RawOffer{{SourceID: "source-b", Payload: stubOffer("source-b", 80)}}}

	sources := map[string]Source{
		"source-a": {Adapter: a, Context: &adapter.AdapterContext{}},
		"source-b": {Adapter: b, Context: &adapter.AdapterContext{}},
	}
	exec := newTestExecutor(sources, sampleAdapterCfg("source-a", "source-b"))

	res, err := exec.Search(context.Background(), sampleQuery(), ModeBackground, nil)
	require.NoError(t, err)
	assert.False(t, res.BackgroundCrawlDispatched)
	assert.Len(t, res.Offers, 2)
}

var assertErr = assertError("boom")

type assertError string

func (e assertError) Error() string { return string(e) }
