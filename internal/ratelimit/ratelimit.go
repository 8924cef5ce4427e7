// Package ratelimit wraps golang.org/x/time/rate behind a per-source
// registry, following the proxyratelimit/serviceratelimit per-route
// limiter-map pattern.
package ratelimit

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/flightcore/crawl/internal/config"
)

// Limiter wraps one source's token bucket plus its observed counters.
type Limiter struct {
	limiter    *rate.Limiter
	bucketWait time.Duration
	allowed    atomic.Int64
	rejected   atomic.Int64
}

// New builds a Limiter from an AdapterConfig's RateLimitConfig.
func New(cfg config.RateLimitConfig) *Limiter {
	capacity := cfg.Capacity
	if capacity <= 0 {
		capacity = 1
	}
	refill := cfg.RefillPerSec
	if refill <= 0 {
		refill = 1
	}
	bucketWait := cfg.BucketWait
	if bucketWait <= 0 {
		bucketWait = time.Second
	}
	return &Limiter{limiter: rate.NewLimiter(rate.Limit(refill), capacity), bucketWait: bucketWait}
}

// Allow reports whether a request may proceed immediately, consuming a
// token if so. It never blocks; the Executor does not call it and
// gates requests through Wait instead.
func (l *Limiter) Allow() bool {
	ok := l.limiter.Allow()
	if ok {
		l.allowed.Add(1)
	} else {
		l.rejected.Add(1)
	}
	return ok
}

// Wait reserves a token, blocking up to min(deadline_remaining,
// bucket_wait) for it to become available (§4.1). It reports whether a
// token was obtained; false means the caller should fail the request as
// RATE_LIMITED rather than proceed. ctx's own deadline bounds the wait
// exactly as every other blocking point in the Executor does.
func (l *Limiter) Wait(ctx context.Context) bool {
	now := time.Now()
	r := l.limiter.ReserveN(now, 1)
	if !r.OK() {
		l.rejected.Add(1)
		return false
	}

	delay := r.DelayFrom(now)
	if delay <= 0 {
		l.allowed.Add(1)
		return true
	}

	wait := l.bucketWait
	if dl, ok := ctx.Deadline(); ok {
		if remaining := time.Until(dl); remaining < wait {
			wait = remaining
		}
	}
	if delay > wait {
		r.Cancel()
		l.rejected.Add(1)
		return false
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		l.allowed.Add(1)
		return true
	case <-ctx.Done():
		r.Cancel()
		l.rejected.Add(1)
		return false
	}
}

// Remaining approximates the bucket's current token count for health
// reporting (core.SourceHealth.SetBucketRemaining).
func (l *Limiter) Remaining() float64 {
	return float64(l.limiter.Tokens())
}

// Stats exposes allow/reject counters for observability.
func (l *Limiter) Stats() (allowed, rejected int64) {
	return l.allowed.Load(), l.rejected.Load()
}

// Registry owns one Limiter per source, all created up front by
// NewRegistry from each source's AdapterConfig.
type Registry struct {
	mu       sync.RWMutex
	limiters map[string]*Limiter
}

// NewRegistry builds a Registry pre-populated from the supplied adapter
// configuration map (source ID -> AdapterConfig).
func NewRegistry(adapters map[string]config.AdapterConfig) *Registry {
	r := &Registry{limiters: make(map[string]*Limiter, len(adapters))}
	for id, cfg := range adapters {
		r.limiters[id] = New(cfg.RateLimit)
	}
	return r
}

// Get returns the Limiter for sourceID, or nil if no such source was
// registered.
func (r *Registry) Get(sourceID string) *Limiter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.limiters[sourceID]
}

// Stats returns allow/reject counters for every registered source.
func (r *Registry) Stats() map[string][2]int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string][2]int64, len(r.limiters))
	for id, l := range r.limiters {
		allowed, rejected := l.Stats()
		out[id] = [2]int64{allowed, rejected}
	}
	return out
}
