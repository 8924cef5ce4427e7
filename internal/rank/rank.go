// Package rank provides the pluggable post-merge scoring layer named
// in spec.md §1 ("the scoring function is a pluggable pure function
// over canonical offers"). BestValue is the one reference
// implementation the core ships; an API collaborator may supply its
// own Scorer.
//
// The weighted normalized scoring and stable-sort dispatch are adapted
// from internal/usecase.ranking.go's CalculateRankingScores/SortFlights
// in the teacher, generalized from domain.Flight to core.Offer.
package rank

import (
	"math"
	"sort"
	"time"

	"github.com/flightcore/crawl/core"
)

// Ranking weights, preserved from the teacher's calibration.
const (
	weightPrice    = 0.5
	weightDuration = 0.3
	weightStops    = 0.2
)

// Scorer assigns a lower-is-better score to each Offer, in the same
// order as its input. A caller wanting a different trade-off between
// price, duration and stops supplies its own Scorer instead of
// BestValue.
type Scorer func(offers []*core.Offer) []float64

// SortOption selects a merged-result ordering for the API collaborator.
type SortOption string

const (
	SortByBestValue SortOption = "best_value"
	SortByPrice     SortOption = "price"
	SortByDuration  SortOption = "duration"
	SortByDeparture SortOption = "departure"
)

// IsValid reports whether s is a recognized SortOption.
func (s SortOption) IsValid() bool {
	switch s {
	case SortByBestValue, SortByPrice, SortByDuration, SortByDeparture:
		return true
	default:
		return false
	}
}

// BestValue scores each offer as 0.5*price + 0.3*duration + 0.2*stops,
// every term normalized to [0,1] across the input set. Lower score is
// better value; an empty min==max range scores 0 for that term (every
// offer equally optimal on it).
func BestValue(offers []*core.Offer) []float64 {
	scores := make([]float64, len(offers))
	if len(offers) == 0 {
		return scores
	}

	minPrice, maxPrice := priceRange(offers)
	minDuration, maxDuration := durationRange(offers)
	minStops, maxStops := stopsRange(offers)

	for i, o := range offers {
		price, _ := o.LowestPrice()
		normPrice := normalize(price.Amount, minPrice, maxPrice)
		normDuration := normalize(float64(totalDurationMinutes(o)), float64(minDuration), float64(maxDuration))
		normStops := normalize(float64(stops(o)), float64(minStops), float64(maxStops))

		scores[i] = weightPrice*normPrice + weightDuration*normDuration + weightStops*normStops
	}
	return scores
}

// Sort stable-sorts offers by the requested option, defaulting to
// SortByBestValue for an empty or invalid option. The input slice is
// left untouched; Sort returns a new slice.
func Sort(offers []*core.Offer, sortBy SortOption, scorer Scorer) []*core.Offer {
	result := make([]*core.Offer, len(offers))
	copy(result, offers)
	if len(result) < 2 {
		return result
	}

	if !sortBy.IsValid() {
		sortBy = SortByBestValue
	}
	if scorer == nil {
		scorer = BestValue
	}

	switch sortBy {
	case SortByBestValue:
		scores := scorer(result)
		sort.SliceStable(result, func(i, j int) bool { return scores[i] < scores[j] })
	case SortByPrice:
		sort.SliceStable(result, func(i, j int) bool {
			pi, _ := result[i].LowestPrice()
			pj, _ := result[j].LowestPrice()
			return pi.Amount < pj.Amount
		})
	case SortByDuration:
		sort.SliceStable(result, func(i, j int) bool {
			return totalDurationMinutes(result[i]) < totalDurationMinutes(result[j])
		})
	case SortByDeparture:
		sort.SliceStable(result, func(i, j int) bool {
			return departure(result[i]).Before(departure(result[j]))
		})
	}
	return result
}

func normalize(value, min, max float64) float64 {
	if max == min {
		return 0
	}
	return (value - min) / (max - min)
}

func totalDurationMinutes(o *core.Offer) int {
	if len(o.Segments) == 0 {
		return 0
	}
	first, last := o.Segments[0], o.Segments[len(o.Segments)-1]
	return int(last.ArriveUTC.Sub(first.DepartUTC).Minutes())
}

func stops(o *core.Offer) int {
	if len(o.Segments) == 0 {
		return 0
	}
	return len(o.Segments) - 1
}

func departure(o *core.Offer) time.Time {
	if len(o.Segments) == 0 {
		return time.Time{}
	}
	return o.Segments[0].DepartUTC
}

func priceRange(offers []*core.Offer) (min, max float64) {
	min = math.MaxFloat64
	for _, o := range offers {
		p, ok := o.LowestPrice()
		if !ok {
			continue
		}
		if p.Amount < min {
			min = p.Amount
		}
		if p.Amount > max {
			max = p.Amount
		}
	}
	if min == math.MaxFloat64 {
		min = 0
	}
	return min, max
}

func durationRange(offers []*core.Offer) (min, max int) {
	min = math.MaxInt
	for _, o := range offers {
		d := totalDurationMinutes(o)
		if d < min {
			min = d
		}
		if d > max {
			max = d
		}
	}
	if min == math.MaxInt {
		min = 0
	}
	return min, max
}

func stopsRange(offers []*core.Offer) (min, max int) {
	min = math.MaxInt
	for _, o := range offers {
		s := stops(o)
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}
	if min == math.MaxInt {
		min = 0
	}
	return min, max
}
