// Package history is the append-only price time-series writer of
// §4.6: every merged price point the scheduler or Executor observes is
// recorded here, keyed by fingerprint, so a future "how has this
// flight's price moved" query has something to read.
package history

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/flightcore/crawl/core"
)

// Point is one recorded price observation.
type Point struct {
	ID          uuid.UUID
	Fingerprint core.Fingerprint
	QueryKey    core.QueryKey
	SourceID    string
	Currency    string
	Amount      float64
	RecordedAt  time.Time
}

// Recorder is an in-process, capacity-bounded time-series store. It is
// intentionally not durable — a real deployment would point this at a
// time-series database, but nothing in spec.md names one, so the
// in-memory ring keeps the contract demonstrable without inventing a
// dependency no component needs elsewhere.
type Recorder struct {
	mu       sync.Mutex
	capacity int
	byFP     map[core.Fingerprint][]Point
}

// NewRecorder builds a Recorder capping each fingerprint's series at
// capacity points (oldest evicted first).
func NewRecorder(capacity int) *Recorder {
	if capacity <= 0 {
		capacity = 500
	}
	return &Recorder{capacity: capacity, byFP: make(map[core.Fingerprint][]Point)}
}

// Record appends one observation per price on offer, stamped at
// recordedAt.
func (r *Recorder) Record(queryKey core.QueryKey, offer *core.Offer, recordedAt time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	series := r.byFP[offer.Fingerprint]
	for _, p := range offer.Prices {
		series = append(series, Point{
			ID:          uuid.New(),
			Fingerprint: offer.Fingerprint,
			QueryKey:    queryKey,
			SourceID:    p.SourceID,
			Currency:    p.Currency,
			Amount:      p.Amount,
			RecordedAt:  recordedAt,
		})
	}
	if overflow := len(series) - r.capacity; overflow > 0 {
		series = series[overflow:]
	}
	r.byFP[offer.Fingerprint] = series
}

// Series returns the recorded points for fingerprint, oldest first.
func (r *Recorder) Series(fingerprint core.Fingerprint) []Point {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Point, len(r.byFP[fingerprint]))
	copy(out, r.byFP[fingerprint])
	return out
}
