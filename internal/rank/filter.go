package rank

import (
	"strings"
	"time"

	"github.com/flightcore/crawl/core"
)

// FilterOptions is the post-merge refinement layer named in
// SPEC_FULL.md's supplemented features, adapted from
// internal/usecase/filter.go and domain.FilterOptions in the teacher:
// a set of optional, independently-applied predicates over the merged
// offer list. A nil field skips that predicate entirely.
type FilterOptions struct {
	MaxPrice           *float64
	MaxStops           *int
	Carriers           []string
	DepartureTimeRange *TimeRange
	ArrivalTimeRange   *TimeRange
	DurationRange      *DurationRange
}

// TimeRange filters by time-of-day, ignoring the date component, the
// same way the teacher's domain.TimeRange.Contains does.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t's time-of-day falls within the range.
func (tr *TimeRange) Contains(t time.Time) bool {
	if tr == nil {
		return true
	}
	minutes := t.Hour()*60 + t.Minute()
	start := tr.Start.Hour()*60 + tr.Start.Minute()
	end := tr.End.Hour()*60 + tr.End.Minute()
	return minutes >= start && minutes <= end
}

// DurationRange filters by total itinerary duration in minutes.
type DurationRange struct {
	MinMinutes *int
	MaxMinutes *int
}

// Contains reports whether durationMinutes falls within the range.
func (dr *DurationRange) Contains(durationMinutes int) bool {
	if dr == nil {
		return true
	}
	if dr.MinMinutes != nil && durationMinutes < *dr.MinMinutes {
		return false
	}
	if dr.MaxMinutes != nil && durationMinutes > *dr.MaxMinutes {
		return false
	}
	return true
}

// ApplyFilters returns the offers matching every non-nil predicate in
// opts, preserving order. A nil opts returns offers unchanged.
func ApplyFilters(offers []*core.Offer, opts *FilterOptions) []*core.Offer {
	if opts == nil {
		return offers
	}

	var carrierSet map[string]struct{}
	if len(opts.Carriers) > 0 {
		carrierSet = make(map[string]struct{}, len(opts.Carriers))
		for _, c := range opts.Carriers {
			carrierSet[strings.ToUpper(c)] = struct{}{}
		}
	}

	out := make([]*core.Offer, 0, len(offers))
	for _, o := range offers {
		if matches(o, opts, carrierSet) {
			out = append(out, o)
		}
	}
	return out
}

func matches(o *core.Offer, opts *FilterOptions, carrierSet map[string]struct{}) bool {
	if opts.MaxPrice != nil {
		price, ok := o.LowestPrice()
		if !ok || price.Amount > *opts.MaxPrice {
			return false
		}
	}
	if opts.MaxStops != nil && stops(o) > *opts.MaxStops {
		return false
	}
	if carrierSet != nil && len(o.Segments) > 0 {
		if _, ok := carrierSet[strings.ToUpper(o.Segments[0].Carrier)]; !ok {
			return false
		}
	}
	if opts.DepartureTimeRange != nil && len(o.Segments) > 0 {
		if !opts.DepartureTimeRange.Contains(o.Segments[0].DepartUTC) {
			return false
		}
	}
	if opts.ArrivalTimeRange != nil && len(o.Segments) > 0 {
		last := o.Segments[len(o.Segments)-1]
		if !opts.ArrivalTimeRange.Contains(last.ArriveUTC) {
			return false
		}
	}
	if opts.DurationRange != nil && !opts.DurationRange.Contains(totalDurationMinutes(o)) {
		return false
	}
	return true
}
