package cache

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/flightcore/crawl/core"
	"github.com/flightcore/crawl/internal/config"
)

// FetchFunc produces a fresh CacheEntry for key on a cache miss or
// stale read, normally by driving the Executor + Merger pipeline.
type FetchFunc func(ctx context.Context) (*core.CacheEntry, error)

// Cache layers a hot MemStore in front of a shared RedisStore and
// guarantees at most one in-flight fetch per query_key (§8 invariant
// 8): concurrent callers for the same key block on the first fetch's
// result instead of triggering redundant fan-outs.
type Cache struct {
	mem    *MemStore
	shared Store
	cfg    config.CacheConfig
	group  singleflight.Group
}

// New builds a Cache. shared may be nil, in which case the mem tier is
// the only backing store (useful for tests and single-instance runs).
func New(mem *MemStore, shared Store, cfg config.CacheConfig) *Cache {
	return &Cache{mem: mem, shared: shared, cfg: cfg}
}

// Lookup returns the current entry for key (if any) and its derived
// state, checking the hot tier before falling back to the shared one.
func (c *Cache) Lookup(key core.QueryKey, tier core.RouteTier) (*core.CacheEntry, core.CacheState) {
	if entry, ok := c.mem.Get(key); ok {
		return entry, c.stateOf(entry, tier)
	}
	if c.shared != nil {
		if entry, ok := c.shared.Get(key); ok {
			c.mem.Set(key, entry) // promote into the hot tier
			return entry, c.stateOf(entry, tier)
		}
	}
	return nil, core.CacheMiss
}

func (c *Cache) stateOf(entry *core.CacheEntry, tier core.RouteTier) core.CacheState {
	_, stale := c.cfg.TTLFor(string(tier))
	return entry.State(time.Now(), stale)
}

// Fetch returns a FRESH or STALE entry immediately if one exists;
// otherwise it runs fetchFn exactly once per key even under concurrent
// callers (via singleflight), stores the result in both tiers, and
// returns it. A STALE entry is still returned to the caller — the
// scheduler, not Fetch, is responsible for swr-style background
// refresh (§4.6).
func (c *Cache) Fetch(ctx context.Context, key core.QueryKey, tier core.RouteTier, fetchFn FetchFunc) (*core.CacheEntry, core.CacheState, error) {
	if entry, state := c.Lookup(key, tier); state == core.CacheFresh || state == core.CacheStale {
		return entry, state, nil
	}

	v, err, _ := c.group.Do(string(key), func() (interface{}, error) {
		entry, ferr := fetchFn(ctx)
		if ferr != nil {
			return nil, ferr
		}
		c.Set(key, entry)
		return entry, nil
	})
	if err != nil {
		return nil, core.CacheMiss, err
	}
	return v.(*core.CacheEntry), core.CacheFresh, nil
}

// Set writes entry into both tiers, atomically replacing whatever was
// there (§3: "never mutated once they enter the cache").
func (c *Cache) Set(key core.QueryKey, entry *core.CacheEntry) {
	c.mem.Set(key, entry)
	if c.shared != nil {
		c.shared.Set(key, entry)
	}
}

// Invalidate removes key from both tiers.
func (c *Cache) Invalidate(key core.QueryKey) {
	c.mem.Delete(key)
	if c.shared != nil {
		c.shared.Delete(key)
	}
}
