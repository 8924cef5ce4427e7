package ratelimit

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flightcore/crawl/internal/config"
)

func TestLimiterAllowsUpToBurst(t *testing.T) {
	l := New(config.RateLimitConfig{Capacity: 5, RefillPerSec: 0.001})

	allowed := 0
	for i := 0; i < 10; i++ {
		if l.Allow() {
			allowed++
		}
	}

	assert.Equal(t, 5, allowed)
	a, r := l.Stats()
	assert.EqualValues(t, 5, a)
	assert.EqualValues(t, 5, r)
}

func TestRegistryBuildsPerSourceLimiters(t *testing.T) {
	reg := NewRegistry(map[string]config.AdapterConfig{
		"source-a": {RateLimit: config.RateLimitConfig{Capacity: 1, RefillPerSec: 1}},
		"source-b": {RateLimit: config.RateLimitConfig{Capacity: 2, RefillPerSec: 1}},
	})

	assert.NotNil(t, reg.Get("source-a"))
	assert.NotNil(t, reg.Get("source-b"))
	assert.Nil(t, reg.Get("unknown"))

	reg.Get("source-a").Allow()
	stats := reg.Stats()
	assert.Contains(t, stats, "source-a")
	assert.Contains(t, stats, "source-b")
}
