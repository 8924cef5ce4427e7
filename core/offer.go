package core

import (
	"strings"
	"time"
)

// RawOffer is the adapter-specific opaque payload described in §3. It is
// short-lived: produced by an Adapter, consumed by exactly one Normalizer
// call, and never persisted.
type RawOffer struct {
	SourceID string
	FetchedAt time.Time
	// Payload is the adapter's native shape (a decoded DTO, not bytes);
	// only that adapter's normalizer knows how to type-assert it.
	Payload interface{}
}

// Segment is one flown leg of an itinerary (§3).
type Segment struct {
	Carrier         string
	OperatingCarrier string // falls back to Carrier when unknown (§4.2)
	FlightNumber    string
	Origin          string
	Destination     string
	DepartUTC       time.Time
	ArriveUTC       time.Time
	AircraftType    string // optional
	Cabin           Cabin
	DurationMinutes int
}

// Validate enforces the per-segment invariant of §3.
func (s Segment) Validate() error {
	if !s.ArriveUTC.After(s.DepartUTC) {
		return ErrSegmentChain
	}
	return nil
}

// ValidateChain enforces the adjacency invariant across an ordered segment
// slice (§3): next.origin == prev.destination and next departs after prev
// arrives.
func ValidateChain(segments []Segment) error {
	if len(segments) == 0 {
		return ErrSegmentChain
	}
	for i, s := range segments {
		if err := s.Validate(); err != nil {
			return err
		}
		if i == 0 {
			continue
		}
		prev := segments[i-1]
		if s.Origin != prev.Destination {
			return ErrSegmentChain
		}
		if !s.DepartUTC.After(prev.ArriveUTC) {
			return ErrSegmentChain
		}
	}
	return nil
}

// Price is one source's quote for an Offer (§3).
type Price struct {
	SourceID        string
	TrustScore      int
	Currency        string
	Amount          float64
	IncludesBaggage bool
	IncludesMeal    bool
	FareClass       string
	BookingURL      string
	FetchedAt       time.Time
}

// Fingerprint is the dedup key of §3: the ordered tuple of per-segment
// identities, rendered as a single comparable string so it can key maps
// directly.
type Fingerprint string

// SegmentFingerprint derives the stable identity of one segment.
func SegmentFingerprint(s Segment) string {
	return strings.Join([]string{
		s.Carrier, s.FlightNumber,
		s.DepartUTC.Format("2006-01-02"),
		s.Origin, s.Destination,
		string(s.Cabin),
	}, "/")
}

// ComputeFingerprint derives the Offer-level fingerprint from its ordered
// segments, per §3: "If the offer is a multi-segment itinerary, fingerprint
// is the ordered tuple of segment fingerprints."
func ComputeFingerprint(segments []Segment) Fingerprint {
	parts := make([]string, len(segments))
	for i, s := range segments {
		parts[i] = SegmentFingerprint(s)
	}
	return Fingerprint(strings.Join(parts, "->"))
}

// Offer is the canonical, merge-ready flight result of §3. Offers are
// created by the Normalizer, may be merged with another Offer sharing the
// same fingerprint (prices concatenated, lowest_price recomputed), and are
// never mutated once they enter the cache — a refresh replaces the whole
// cache entry atomically instead.
type Offer struct {
	Fingerprint Fingerprint
	Segments    []Segment
	Prices      []Price
}

// LowestPrice returns the minimum Price.Amount, which the caller must
// already have converted to one common currency before calling this (the
// Merger is responsible for that ordering — see internal/merger).
func (o *Offer) LowestPrice() (Price, bool) {
	if len(o.Prices) == 0 {
		return Price{}, false
	}
	lowest := o.Prices[0]
	for _, p := range o.Prices[1:] {
		if p.Amount < lowest.Amount {
			lowest = p
		}
	}
	return lowest, true
}

// Validate enforces invariants 1-2 of §8: non-empty prices, chronologically
// and geographically chained segments.
func (o *Offer) Validate() error {
	if len(o.Prices) == 0 {
		return ErrEmptyOffer
	}
	return ValidateChain(o.Segments)
}

// NewOffer builds an Offer from normalized segments and prices, computing
// its fingerprint. Callers should call Validate afterward.
func NewOffer(segments []Segment, prices []Price) *Offer {
	return &Offer{
		Fingerprint: ComputeFingerprint(segments),
		Segments:    segments,
		Prices:      prices,
	}
}

// FormatFingerprint renders a Fingerprint for logs/metrics without
// exposing its internal separator choice to callers.
func FormatFingerprint(f Fingerprint) string {
	return string(f)
}
