package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/flightcore/crawl/core"
)

// MemStore is the hot, in-process tier in front of Redis: a bounded
// LRU holding the most recently touched query_keys. Eviction is by
// capacity, not by a clock — staleness is derived from the entry's own
// GeneratedAt/TTL (core.CacheEntry.State), not from LRU expiry.
type MemStore struct {
	lru *lru.Cache[core.QueryKey, *core.CacheEntry]
}

// NewMemStore builds a MemStore capped at size entries, defaulting to
// a sane floor if the configured size is non-positive.
func NewMemStore(size int) *MemStore {
	if size <= 0 {
		size = 1000
	}
	l, _ := lru.New[core.QueryKey, *core.CacheEntry](size)
	return &MemStore{lru: l}
}

func (s *MemStore) Get(key core.QueryKey) (*core.CacheEntry, bool) {
	return s.lru.Get(key)
}

func (s *MemStore) Set(key core.QueryKey, entry *core.CacheEntry) {
	s.lru.Add(key, entry)
}

func (s *MemStore) Delete(key core.QueryKey) {
	s.lru.Remove(key)
}

// Len reports the current entry count, for operator dashboards.
func (s *MemStore) Len() int {
	return s.lru.Len()
}
