package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flightcore/crawl/core"
	"github.com/flightcore/crawl/internal/config"
)

func testCacheConfig() config.CacheConfig {
	return config.CacheConfig{
		TopFreshTTL: 10 * time.Millisecond, TopStaleTTL: 50 * time.Millisecond,
		MediumFreshTTL: 10 * time.Millisecond, MediumStaleTTL: 50 * time.Millisecond,
		LongTailFreshTTL: 10 * time.Millisecond, LongTailStaleTTL: 50 * time.Millisecond,
	}
}

func TestFetchRunsOnlyOnceUnderConcurrentCallers(t *testing.T) {
	c := New(NewMemStore(10), nil, testCacheConfig())

	var calls atomic.Int32
	fetch := func(ctx context.Context) (*core.CacheEntry, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return &core.CacheEntry{QueryKey: "k1", GeneratedAt: time.Now(), TTL: 10 * time.Millisecond, Tier: core.TierTop}, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := c.Fetch(context.Background(), "k1", core.TierTop, fetch)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
}

func TestLookupReturnsMissThenFreshAfterSet(t *testing.T) {
	c := New(NewMemStore(10), nil, testCacheConfig())

	_, state := c.Lookup("k2", core.TierTop)
	assert.Equal(t, core.CacheMiss, state)

	entry := &core.CacheEntry{QueryKey: "k2", GeneratedAt: time.Now(), TTL: 10 * time.Millisecond, Tier: core.TierTop}
	c.Set("k2", entry)

	got, state := c.Lookup("k2", core.TierTop)
	require.NotNil(t, got)
	assert.Equal(t, core.CacheFresh, state)
}

func TestLookupTransitionsToStaleThenMiss(t *testing.T) {
	c := New(NewMemStore(10), nil, testCacheConfig())
	entry := &core.CacheEntry{QueryKey: "k3", GeneratedAt: time.Now().Add(-20 * time.Millisecond), TTL: 10 * time.Millisecond, Tier: core.TierTop}
	c.Set("k3", entry)

	_, state := c.Lookup("k3", core.TierTop)
	assert.Equal(t, core.CacheStale, state)

	stale := &core.CacheEntry{QueryKey: "k4", GeneratedAt: time.Now().Add(-100 * time.Millisecond), TTL: 10 * time.Millisecond, Tier: core.TierTop}
	c.Set("k4", stale)
	_, state = c.Lookup("k4", core.TierTop)
	assert.Equal(t, core.CacheMiss, state)
}
