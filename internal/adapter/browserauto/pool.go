package browserauto

import (
	"context"
	"fmt"

	"github.com/flightcore/crawl/internal/config"
)

// Pool bounds concurrent browser automation sessions to the configured
// size (§5, §6): each Search call must acquire a lease before driving a
// system-installed browser instance and release it when done, so the
// slowest variant in the fleet never starves the rest of the host's
// browser binaries.
type Pool struct {
	leases chan struct{}
}

func NewPool(cfg config.BrowserPoolConfig) *Pool {
	size := cfg.Size
	if size <= 0 {
		size = 1
	}
	return &Pool{leases: make(chan struct{}, size)}
}

// Lease is a held browser slot. Release must be called exactly once.
type Lease struct {
	pool *Pool
}

func (l *Lease) Release() {
	<-l.pool.leases
}

// Acquire blocks until a slot is free or ctx is cancelled.
func (p *Pool) Acquire(ctx context.Context) (*Lease, error) {
	select {
	case p.leases <- struct{}{}:
		return &Lease{pool: p}, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("acquire browser lease: %w", ctx.Err())
	}
}
