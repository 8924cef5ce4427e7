// Package router implements the Source Router of §4.3: given a query
// and the current health of every source, it produces an ordered set
// of (adapter, tier) the Fan-out Executor should invoke.
package router

import (
	"sort"

	"github.com/flightcore/crawl/core"
	"github.com/flightcore/crawl/internal/config"
)

// Tier is a source's invocation priority for one query (§4.3).
type Tier string

const (
	TierPrimary       Tier = "primary"
	TierComplementary Tier = "complementary"
	TierFallback      Tier = "fallback"
)

// Decision is one routed source for one query.
type Decision struct {
	SourceID string
	Tier     Tier

	trustScore int
}

// DemotionThreshold is the rolling success rate (HealthSnapshot.SuccessRate,
// a count-capped window, not a time window) below which a source
// is demoted to fallback regardless of its configured or coverage-table
// tier (§4.3 rule 2).
const DemotionThreshold = 0.5

// Router selects eligible (adapter, tier) pairs for a query.
type Router struct {
	coverage *CoverageTable
	health   *core.HealthRegistry
}

// New builds a Router over a static coverage table and the shared
// health registry the Executor writes to.
func New(coverage *CoverageTable, health *core.HealthRegistry) *Router {
	return &Router{coverage: coverage, health: health}
}

// Route produces the ordered routing decision for q against the given
// adapter configuration. Sources with Enabled=false are never
// considered. Ordering within a tier is by TrustScore descending, so
// the Executor/Merger see the most trustworthy source first when
// tie-breaking is otherwise equal.
func (r *Router) Route(q core.Query, adapters map[string]config.AdapterConfig) []Decision {
	forcedPrimary := r.coverage.ForcedPrimary(q)

	decisions := make([]Decision, 0, len(adapters))
	for id, cfg := range adapters {
		if !cfg.Enabled {
			continue
		}

		snapshot := r.health.Get(id).Snapshot()
		if snapshot.BreakerState == core.BreakerOpen {
			// Rule 1: an OPEN breaker excludes the source entirely; the
			// breaker's own HALF_OPEN probe handles re-admission.
			continue
		}

		tier := r.baseTier(cfg, forcedPrimary[id])

		// Rule 2: a degraded success rate demotes regardless of tier,
		// unless the window is still empty (a brand-new or rarely-used
		// source hasn't earned a demotion yet).
		if snapshot.SuccessRate < DemotionThreshold && hasObservations(snapshot) {
			tier = TierFallback
		}

		decisions = append(decisions, Decision{SourceID: id, Tier: tier, trustScore: cfg.TrustScore})
	}

	sort.SliceStable(decisions, func(i, j int) bool {
		if decisions[i].Tier != decisions[j].Tier {
			return tierRank(decisions[i].Tier) < tierRank(decisions[j].Tier)
		}
		return decisions[i].trustScore > decisions[j].trustScore
	})
	return decisions
}

func (r *Router) baseTier(cfg config.AdapterConfig, forced bool) Tier {
	if forced {
		// Rule 3: the coverage table is authoritative for airline-specific
		// enrichment and overrides both the operator override and the
		// adapter's own auto-tiering.
		return TierPrimary
	}
	switch cfg.TierOverride {
	case config.TierOverridePrimary:
		return TierPrimary
	case config.TierOverrideComplementary:
		return TierComplementary
	case config.TierOverrideFallback:
		return TierFallback
	default:
		return TierPrimary
	}
}

func tierRank(t Tier) int {
	switch t {
	case TierPrimary:
		return 0
	case TierComplementary:
		return 1
	default:
		return 2
	}
}

func hasObservations(s core.HealthSnapshot) bool {
	// A HealthSnapshot's SuccessRate defaults to 1.0 with zero
	// observations (see core.SourceHealth.Snapshot), so rate < 1.0 here
	// is itself proof the rolling window is non-empty.
	return s.SuccessRate < 1.0 || s.LastFailure != ""
}
