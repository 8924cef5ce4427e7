package breaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flightcore/crawl/core"
)

func TestRegistryTripsAfterConsecutiveFailures(t *testing.T) {
	health := core.NewHealthRegistry()
	reg := NewRegistry(health)
	reg.Add("flaky-source", Settings{FailureThreshold: 3, Window: time.Minute, Cooldown: time.Minute})

	failing := func() (*core.RawOffer, error) { return nil, errors.New("boom") }

	for i := 0; i < 3; i++ {
		_, err := reg.Execute("flaky-source", failing)
		require.Error(t, err)
	}

	_, err := reg.Execute("flaky-source", func() (*core.RawOffer, error) {
		return &core.RawOffer{SourceID: "flaky-source"}, nil
	})
	assert.ErrorIs(t, err, core.ErrCircuitOpen)
	assert.Equal(t, core.BreakerOpen, health.Get("flaky-source").Snapshot().BreakerState)
}

func TestRegistryPassesThroughUnregisteredSource(t *testing.T) {
	reg := NewRegistry(core.NewHealthRegistry())
	offer, err := reg.Execute("never-added", func() (*core.RawOffer, error) {
		return &core.RawOffer{SourceID: "never-added"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "never-added", offer.SourceID)
}
