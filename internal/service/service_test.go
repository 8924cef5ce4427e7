package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flightcore/crawl/core"
	"github.com/flightcore/crawl/internal/adapter"
	"github.com/flightcore/crawl/internal/breaker"
	"github.com/flightcore/crawl/internal/cache"
	"github.com/flightcore/crawl/internal/config"
	"github.com/flightcore/crawl/internal/executor"
	"github.com/flightcore/crawl/internal/history"
	"github.com/flightcore/crawl/internal/normalize"
	"github.com/flightcore/crawl/internal/router"
	"github.com/flightcore/crawl/internal/scheduler"
)

type stubAdapter struct {
	id     string
	offers []*core.RawOffer
}

func (s *stubAdapter) SourceID() string { return s.id }
func (s *stubAdapter) Search(ctx context.Context, actx *adapter.AdapterContext, q core.Query) ([]*core.RawOffer, error) {
	return s.offers, nil
}
func (s *stubAdapter) HealthCheck(ctx context.Context) error      { return nil }
func (s *stubAdapter) ClassifyFailure(err error) core.FailureKind { return core.FailureUnknown }

func sampleQuery() core.Query {
	return core.Query{
		Origin: "CGK", Destination: "SIN",
		DepartureDate: time.Now().Add(48 * time.Hour),
		Cabin:         core.CabinEconomy,
		Passengers:    core.Passengers{Adults: 1},
		Currency:      "USD",
		TripType:      core.TripOneWay,
	}
}

func newTestService(t *testing.T) *Service {
	t.Helper()

	raw := &core.RawOffer{
		SourceID:  "test-source",
		FetchedAt: time.Now(),
		Payload: core.NewOffer(
			[]core.Segment{{
				Carrier: "QG", FlightNumber: "QG1", Origin: "CGK", Destination: "SIN",
				DepartUTC: time.Now().Add(48 * time.Hour), ArriveUTC: time.Now().Add(50 * time.Hour),
				Cabin: core.CabinEconomy,
			}},
			[]core.Price{{SourceID: "test-source", Currency: "USD", Amount: 100}},
		),
	}

	normalizer := normalize.NewRegistry()
	normalizer.Register("test-source", func(r *core.RawOffer) (*core.Offer, error) {
		return r.Payload.(*core.Offer), nil
	})

	health := core.NewHealthRegistry()
	cfg := map[string]config.AdapterConfig{
		"test-source": {ID: "test-source", Enabled: true, Timeout: time.Second, TrustScore: 90},
	}
	rtr := router.New(router.NewCoverageTable(nil, nil), health)
	breakers := breaker.NewRegistry(health)
	breakers.Add("test-source", breaker.Settings{})

	sources := map[string]executor.Source{
		"test-source": {Adapter: &stubAdapter{id: "test-source", offers: []*core.RawOffer{raw}}, Context: &adapter.AdapterContext{}},
	}

	execCfg := config.ExecutorConfig{
		InteractiveDeadline: time.Second,
		BackgroundDeadline:  2 * time.Second,
		FirstResponseGrace:  10 * time.Millisecond,
		MinDeadlineFloor:    10 * time.Millisecond,
	}
	exec := executor.New(sources, normalizer, rtr, breakers, health, cfg, execCfg)

	cacheCfg := config.CacheConfig{
		TopFreshTTL: time.Minute, TopStaleTTL: time.Hour,
		MediumFreshTTL: time.Minute, MediumStaleTTL: time.Hour,
		LongTailFreshTTL: time.Minute, LongTailStaleTTL: time.Hour,
	}
	c := cache.New(cache.NewMemStore(10), nil, cacheCfg)

	return New(exec, c, history.NewRecorder(10), scheduler.NewPopularityTracker(), cacheCfg, nil)
}

func TestSearchReturnsMergedOffersOnCacheMiss(t *testing.T) {
	svc := newTestService(t)
	resp, err := svc.Search(context.Background(), sampleQuery(), executor.ModeBackground, Options{})
	require.NoError(t, err)
	assert.Len(t, resp.Offers, 1)
	assert.Equal(t, core.CacheFresh, resp.CacheState)
	assert.Equal(t, 1, resp.SourceMix["test-source"])
}

func TestSearchSecondCallHitsCache(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	q := sampleQuery()

	_, err := svc.Search(ctx, q, executor.ModeBackground, Options{})
	require.NoError(t, err)

	resp, err := svc.Search(ctx, q, executor.ModeBackground, Options{})
	require.NoError(t, err)
	assert.Equal(t, core.CacheFresh, resp.CacheState)
}

func TestSearchRejectsInvalidQuery(t *testing.T) {
	svc := newTestService(t)
	q := sampleQuery()
	q.Origin = "bad"
	_, err := svc.Search(context.Background(), q, executor.ModeBackground, Options{})
	assert.Error(t, err)
}

func TestRefreshSkipsUnknownQueryKey(t *testing.T) {
	svc := newTestService(t)
	err := svc.Refresh(context.Background(), core.QueryKey("never-seen"), core.TierLongTail)
	assert.NoError(t, err)
}
