// Package service wires the Router, Fan-out Executor, Merger, Rank and
// Cache together behind the single search(query) contract of spec.md
// §6. It is the one piece both cmd/core (background refresh) and
// cmd/api (the HTTP collaborator) depend on, so the two entrypoints
// share one pipeline instead of duplicating the wiring.
package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/flightcore/crawl/core"
	"github.com/flightcore/crawl/internal/cache"
	"github.com/flightcore/crawl/internal/config"
	"github.com/flightcore/crawl/internal/executor"
	"github.com/flightcore/crawl/internal/history"
	"github.com/flightcore/crawl/internal/merger"
	"github.com/flightcore/crawl/internal/rank"
	"github.com/flightcore/crawl/internal/scheduler"
	"github.com/flightcore/crawl/pkg/util"
)

// Options refines a single search beyond the canonical merged order:
// filtering and the choice of scorer/sort. A zero Options value sorts
// by BestValue with no filters applied.
type Options struct {
	SortBy  rank.SortOption
	Scorer  rank.Scorer
	Filters *rank.FilterOptions
}

// Service is the search-core pipeline: route -> fan-out -> merge ->
// rank, fronted by a cache that collapses concurrent callers for the
// same query_key (§8 invariant 8).
type Service struct {
	executor   *executor.Executor
	cache      *cache.Cache
	history    *history.Recorder
	popularity *scheduler.PopularityTracker
	cacheCfg   config.CacheConfig
	rates      util.ExchangeRates
}

// New builds a Service from its collaborators. rates may be nil when
// every configured adapter already quotes in one common currency.
func New(exec *executor.Executor, c *cache.Cache, h *history.Recorder, pop *scheduler.PopularityTracker, cacheCfg config.CacheConfig, rates util.ExchangeRates) *Service {
	return &Service{executor: exec, cache: c, history: h, popularity: pop, cacheCfg: cacheCfg, rates: rates}
}

// Search is the §6 search(query) contract. mode controls whether the
// Executor returns as soon as a first result lands plus a grace window
// (ModeInteractive, for an HTTP caller) or waits for every routed
// adapter (ModeBackground, for a scheduled refresh).
func (s *Service) Search(ctx context.Context, q core.Query, mode executor.Mode, opts Options) (*core.SearchResponse, error) {
	now := time.Now()
	if err := q.Validate(now); err != nil {
		return nil, err
	}

	key := q.Key()
	tier := scheduler.ClassifyTier(s.popularity.Count(key))

	var fetchResult *executor.Result
	entry, state, err := s.cache.Fetch(ctx, key, tier, func(ctx context.Context) (*core.CacheEntry, error) {
		result, err := s.executor.Search(ctx, q, mode, nil)
		if err != nil {
			return nil, err
		}
		fetchResult = result

		merged, err := merger.Merge(result.Offers, q.Currency, s.rates)
		if err != nil {
			return nil, err
		}

		for _, o := range merged {
			s.history.Record(key, o, now)
		}

		fresh, _ := s.cacheCfg.TTLFor(string(tier))
		return &core.CacheEntry{
			QueryKey:    key,
			Offers:      merged,
			GeneratedAt: now,
			TTL:         fresh,
			Tier:        tier,
			SourceMix:   sourceMix(result.ProvidersSucceeded),
		}, nil
	})
	if err != nil {
		return nil, err
	}

	s.popularity.RecordQuery(q, tier)

	offers := rank.ApplyFilters(entry.Offers, opts.Filters)
	offers = rank.Sort(offers, opts.SortBy, opts.Scorer)

	resp := &core.SearchResponse{
		Offers:     offers,
		CacheState: state,
		SourceMix:  entry.SourceMix,
	}
	if fetchResult != nil {
		resp.Partial = fetchResult.BackgroundCrawlDispatched
		resp.BackgroundDispatched = fetchResult.BackgroundCrawlDispatched
	}
	return resp, nil
}

// Refresh re-runs a previously seen query_key in background mode and
// replaces its cache entry, ignoring any ranking/filter preference —
// it exists to satisfy scheduler.RefreshFunc. A key never seen via
// Search (so its original Query was never recorded) is a no-op; the
// scheduler only ever offers keys it itself learned from Search.
func (s *Service) Refresh(ctx context.Context, key core.QueryKey, tier core.RouteTier) error {
	q, ok := s.popularity.QueryFor(key)
	if !ok {
		log.Warn().Str("query_key", string(key)).Msg("scheduled refresh for unknown query_key, skipping")
		return nil
	}
	now := time.Now()
	if err := q.Validate(now); err != nil {
		return err
	}
	result, err := s.executor.Search(ctx, q, executor.ModeBackground, nil)
	if err != nil {
		return err
	}
	merged, err := merger.Merge(result.Offers, q.Currency, s.rates)
	if err != nil {
		return err
	}
	for _, o := range merged {
		s.history.Record(key, o, now)
	}
	fresh, _ := s.cacheCfg.TTLFor(string(tier))
	s.cache.Set(key, &core.CacheEntry{QueryKey: key, Offers: merged, GeneratedAt: now, TTL: fresh, Tier: tier, SourceMix: sourceMix(result.ProvidersSucceeded)})
	return nil
}

func sourceMix(succeeded []string) map[string]int {
	mix := make(map[string]int, len(succeeded))
	for _, id := range succeeded {
		mix[id]++
	}
	return mix
}

