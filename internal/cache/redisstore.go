package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/flightcore/crawl/core"
)

// RedisStore is the shared, cross-instance tier. Entries are JSON
// encoded (core.CacheEntry has no unexported fields, so JSON round
// trips it exactly, unlike wudi-gateway's gob-encoded raw HTTP Entry).
// A Redis failure degrades to a cache miss rather than an error — the
// Executor can always re-fetch from upstream.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore builds a RedisStore. ttl bounds how long Redis itself
// keeps a key around; it should be set to the longest stale TTL in the
// tier table so Redis never evicts an entry the application still
// considers STALE-but-servable.
func NewRedisStore(addr, prefix string, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisStore{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		prefix: prefix,
		ttl:    ttl,
	}
}

func (s *RedisStore) Get(key core.QueryKey) (*core.CacheEntry, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	data, err := s.client.Get(ctx, s.prefix+string(key)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Str("query_key", string(key)).Msg("redis cache get failed, treating as miss")
		}
		return nil, false
	}

	var entry core.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		log.Warn().Err(err).Str("query_key", string(key)).Msg("redis cache entry decode failed, treating as miss")
		return nil, false
	}
	return &entry, true
}

func (s *RedisStore) Set(key core.QueryKey, entry *core.CacheEntry) {
	data, err := json.Marshal(entry)
	if err != nil {
		log.Warn().Err(err).Str("query_key", string(key)).Msg("redis cache entry encode failed")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	if err := s.client.Set(ctx, s.prefix+string(key), data, s.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("query_key", string(key)).Msg("redis cache set failed")
	}
}

func (s *RedisStore) Delete(key core.QueryKey) {
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	if err := s.client.Del(ctx, s.prefix+string(key)).Err(); err != nil {
		log.Warn().Err(err).Str("query_key", string(key)).Msg("redis cache delete failed")
	}
}
