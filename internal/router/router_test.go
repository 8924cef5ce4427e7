package router

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flightcore/crawl/core"
	"github.com/flightcore/crawl/internal/config"
)

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

func sampleAdapters() map[string]config.AdapterConfig {
	return map[string]config.AdapterConfig{
		"nusantara-air-direct": {ID: "nusantara-air-direct", Enabled: true, TierOverride: config.TierOverrideAuto, TrustScore: 85},
		"carrierhub-official":  {ID: "carrierhub-official", Enabled: true, TierOverride: config.TierOverrideAuto, TrustScore: 100},
		"wudi-aggregator":      {ID: "wudi-aggregator", Enabled: true, TierOverride: config.TierOverrideComplementary, TrustScore: 70},
		"legacy-air-browser":   {ID: "legacy-air-browser", Enabled: true, TierOverride: config.TierOverrideFallback, TrustScore: 50},
		"disabled-source":      {ID: "disabled-source", Enabled: false, TierOverride: config.TierOverrideAuto, TrustScore: 60},
	}
}

func TestRouteSkipsDisabledAndOpenBreakerSources(t *testing.T) {
	health := core.NewHealthRegistry()
	health.Get("carrierhub-official").SetBreakerState(core.BreakerOpen)

	r := New(DefaultCoverageTable(), health)
	decisions := r.Route(sampleQuery(), sampleAdapters())

	for _, d := range decisions {
		assert.NotEqual(t, "disabled-source", d.SourceID)
		assert.NotEqual(t, "carrierhub-official", d.SourceID)
	}
}

func TestRouteForcesCoverageCarrierToPrimary(t *testing.T) {
	health := core.NewHealthRegistry()
	r := New(DefaultCoverageTable(), health)
	decisions := r.Route(sampleQuery(), sampleAdapters())

	var nusantara *Decision
	for i := range decisions {
		if decisions[i].SourceID == "nusantara-air-direct" {
			nusantara = &decisions[i]
		}
	}
	require.NotNil(t, nusantara)
	assert.Equal(t, TierPrimary, nusantara.Tier)
}

func TestRouteDemotesLowSuccessRateToFallback(t *testing.T) {
	health := core.NewHealthRegistry()
	h := health.Get("nusantara-air-direct")
	for i := 0; i < 10; i++ {
		h.RecordResult(i < 2, 100*time.Millisecond, core.FailureTransientNetwork)
	}

	r := New(DefaultCoverageTable(), health)
	decisions := r.Route(sampleQuery(), sampleAdapters())

	var nusantara *Decision
	for i := range decisions {
		if decisions[i].SourceID == "nusantara-air-direct" {
			nusantara = &decisions[i]
		}
	}
	require.NotNil(t, nusantara)
	assert.Equal(t, TierFallback, nusantara.Tier)
}

func TestRouteOrdersPrimaryBeforeComplementaryBeforeFallback(t *testing.T) {
	health := core.NewHealthRegistry()
	r := New(DefaultCoverageTable(), health)
	decisions := r.Route(sampleQuery(), sampleAdapters())

	seenComplementary, seenFallback := false, false
	for _, d := range decisions {
		switch d.Tier {
		case TierComplementary:
			seenComplementary = true
		case TierFallback:
			seenFallback = true
			assert.True(t, seenComplementary || !hasComplementary(decisions))
		case TierPrimary:
			assert.False(t, seenComplementary, "primary must not appear after complementary")
			assert.False(t, seenFallback, "primary must not appear after fallback")
		}
	}
}

func hasComplementary(decisions []Decision) bool {
	for _, d := range decisions {
		if d.Tier == TierComplementary {
			return true
		}
	}
	return false
}
