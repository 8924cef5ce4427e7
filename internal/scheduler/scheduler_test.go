package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/flightcore/crawl/core"
)

func TestPopularityTrackerTopOrdersByCount(t *testing.T) {
	tr := NewPopularityTracker()
	tr.Record("hot", core.TierTop)
	tr.Record("hot", core.TierTop)
	tr.Record("cold", core.TierLongTail)

	top := tr.Top(2)
	assert.Equal(t, core.QueryKey("hot"), top[0].Key)
	assert.Equal(t, core.QueryKey("cold"), top[1].Key)
}

func TestPopularityTrackerTopRespectsLimit(t *testing.T) {
	tr := NewPopularityTracker()
	tr.Record("a", core.TierTop)
	tr.Record("b", core.TierTop)
	tr.Record("c", core.TierTop)

	assert.Len(t, tr.Top(1), 1)
}

func TestSweepBoundsConcurrency(t *testing.T) {
	tr := NewPopularityTracker()
	for i := 0; i < 10; i++ {
		tr.Record(core.QueryKey(string(rune('a'+i))), core.TierTop)
	}

	var inFlight, maxInFlight atomic.Int32
	refresh := func(ctx context.Context, key core.QueryKey, tier core.RouteTier) error {
		n := inFlight.Add(1)
		for {
			m := maxInFlight.Load()
			if n <= m || maxInFlight.CompareAndSwap(m, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		inFlight.Add(-1)
		return nil
	}

	s := New(tr, refresh, 10, 2, time.Second)
	s.sweep()

	assert.LessOrEqual(t, maxInFlight.Load(), int32(2))
}
