package scheduler

import (
	"sort"
	"sync"

	"github.com/flightcore/crawl/core"
)

// Route is one tracked query_key and the route tier it was last seen
// at (tier can shift as config changes, but in practice is stable per
// route).
type Route struct {
	Key  core.QueryKey
	Tier core.RouteTier
}

// PopularityTracker counts how often each query_key has been searched,
// feeding the popularity-driven refresh cadence of §4.6 ("refreshes
// are scheduled more aggressively for popular/top-tier routes").
type PopularityTracker struct {
	mu      sync.Mutex
	counts  map[core.QueryKey]int
	tiers   map[core.QueryKey]core.RouteTier
	queries map[core.QueryKey]core.Query
}

// NewPopularityTracker builds an empty tracker.
func NewPopularityTracker() *PopularityTracker {
	return &PopularityTracker{
		counts:  make(map[core.QueryKey]int),
		tiers:   make(map[core.QueryKey]core.RouteTier),
		queries: make(map[core.QueryKey]core.Query),
	}
}

// Record counts one search against key, at the given tier.
func (t *PopularityTracker) Record(key core.QueryKey, tier core.RouteTier) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.counts[key]++
	t.tiers[key] = tier
}

// RecordQuery is Record plus remembering the full Query behind key, so
// a later scheduled refresh (which only has a QueryKey) can reconstruct
// the request it needs to re-run.
func (t *PopularityTracker) RecordQuery(q core.Query, tier core.RouteTier) {
	key := q.Key()
	t.mu.Lock()
	defer t.mu.Unlock()
	t.counts[key]++
	t.tiers[key] = tier
	t.queries[key] = q
}

// QueryFor returns the last Query recorded for key, if any.
func (t *PopularityTracker) QueryFor(key core.QueryKey) (core.Query, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	q, ok := t.queries[key]
	return q, ok
}

// Count returns how many times key has been recorded so far.
func (t *PopularityTracker) Count(key core.QueryKey) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counts[key]
}

// ClassifyTier buckets a search count into the §4.6 route-popularity
// tiers. The thresholds are a reasonable default, not a tuned figure:
// 20+ searches in the tracked window counts as "top", 3+ as "medium".
func ClassifyTier(count int) core.RouteTier {
	switch {
	case count >= 20:
		return core.TierTop
	case count >= 3:
		return core.TierMedium
	default:
		return core.TierLongTail
	}
}

// Top returns up to n routes ordered by descending search count.
func (t *PopularityTracker) Top(n int) []Route {
	t.mu.Lock()
	defer t.mu.Unlock()

	routes := make([]Route, 0, len(t.counts))
	for key := range t.counts {
		routes = append(routes, Route{Key: key, Tier: t.tiers[key]})
	}
	sort.SliceStable(routes, func(i, j int) bool {
		return t.counts[routes[i].Key] > t.counts[routes[j].Key]
	})
	if n > 0 && len(routes) > n {
		routes = routes[:n]
	}
	return routes
}
