// Package scheduler drives the periodic background refresh of §4.6:
// on a cron tick, it re-fetches the currently most popular routes,
// bounded to a fixed number of concurrent refreshes so a refresh sweep
// never itself becomes a thundering herd against the adapters.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/flightcore/crawl/core"
)

// RefreshFunc re-runs the full search pipeline for one route and
// writes the result back into the cache (and, typically, into
// internal/history). It is supplied by bootstrap.Build's wiring, not by this
// package, to avoid an import cycle back into executor/cache.
type RefreshFunc func(ctx context.Context, key core.QueryKey, tier core.RouteTier) error

// Scheduler ticks on a cron schedule and fans a bounded refresh sweep
// out across the tracker's most popular routes.
type Scheduler struct {
	cronRunner    *cron.Cron
	tracker       *PopularityTracker
	refresh       RefreshFunc
	topN          int
	maxConcurrent int
	sweepTimeout  time.Duration
}

// New builds a Scheduler. maxConcurrent bounds how many refreshes run
// at once per sweep (§5 "bounded-concurrency background refresh
// fan-in"); topN bounds how many routes are refreshed per sweep.
func New(tracker *PopularityTracker, refresh RefreshFunc, topN, maxConcurrent int, sweepTimeout time.Duration) *Scheduler {
	if topN <= 0 {
		topN = 50
	}
	if maxConcurrent <= 0 {
		maxConcurrent = 5
	}
	if sweepTimeout <= 0 {
		sweepTimeout = time.Minute
	}
	return &Scheduler{
		cronRunner:    cron.New(),
		tracker:       tracker,
		refresh:       refresh,
		topN:          topN,
		maxConcurrent: maxConcurrent,
		sweepTimeout:  sweepTimeout,
	}
}

// Start registers the sweep on spec and begins ticking. spec follows
// robfig/cron's standard five-field syntax, e.g. "*/5 * * * *".
func (s *Scheduler) Start(spec string) error {
	if _, err := s.cronRunner.AddFunc(spec, s.sweep); err != nil {
		return err
	}
	s.cronRunner.Start()
	return nil
}

// Stop halts the cron runner and waits for any in-flight job to
// return.
func (s *Scheduler) Stop() {
	ctx := s.cronRunner.Stop()
	<-ctx.Done()
}

func (s *Scheduler) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), s.sweepTimeout)
	defer cancel()

	routes := s.tracker.Top(s.topN)
	if len(routes) == 0 {
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)
	for _, route := range routes {
		route := route
		g.Go(func() error {
			if err := s.refresh(gctx, route.Key, route.Tier); err != nil {
				log.Warn().Err(err).Str("query_key", string(route.Key)).Msg("scheduled refresh failed")
			}
			return nil
		})
	}
	_ = g.Wait()
}
