// Package cache implements the tiered result store of §4.6: a hot
// in-process LRU in front of a shared Redis store, both holding the
// same core.CacheEntry shape, plus the single-writer-per-key guarantee
// of §8 invariant 8.
//
// The two-tier Store split (MemStore/RedisStore behind one interface)
// follows internal/cache.MemoryStore/RedisStore in wudi-gateway,
// adapted from a raw HTTP response Entry to core.CacheEntry and from
// zap to this module's zerolog logging.
package cache

import (
	"github.com/flightcore/crawl/core"
)

// Store is the backing persistence contract both cache tiers satisfy.
type Store interface {
	Get(key core.QueryKey) (*core.CacheEntry, bool)
	Set(key core.QueryKey, entry *core.CacheEntry)
	Delete(key core.QueryKey)
}
