package rank

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/flightcore/crawl/core"
)

func makeOffer(carrier string, amount float64, stops int, depart time.Time) *core.Offer {
	segments := make([]core.Segment, 0, stops+1)
	origin := "CGK"
	cursor := depart
	for i := 0; i <= stops; i++ {
		dest := "SIN"
		if i < stops {
			dest = "DPS"
		}
		arrive := cursor.Add(90 * time.Minute)
		segments = append(segments, core.Segment{
			Carrier: carrier, FlightNumber: "GA1", Origin: origin, Destination: dest,
			DepartUTC: cursor, ArriveUTC: arrive, Cabin: core.CabinEconomy,
		})
		origin = dest
		cursor = arrive.Add(45 * time.Minute)
	}
	return core.NewOffer(segments, []core.Price{{SourceID: "x", Currency: "USD", Amount: amount}})
}

func TestApplyFiltersByMaxPriceAndStops(t *testing.T) {
	cheap := makeOffer("GA", 100, 0, time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC))
	expensive := makeOffer("GA", 500, 1, time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC))

	maxPrice := 200.0
	maxStops := 0
	result := ApplyFilters([]*core.Offer{cheap, expensive}, &FilterOptions{MaxPrice: &maxPrice, MaxStops: &maxStops})
	assert.Len(t, result, 1)
	assert.Same(t, cheap, result[0])
}

func TestApplyFiltersByCarrierIsCaseInsensitive(t *testing.T) {
	ga := makeOffer("GA", 100, 0, time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC))
	jt := makeOffer("JT", 100, 0, time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC))

	result := ApplyFilters([]*core.Offer{ga, jt}, &FilterOptions{Carriers: []string{"ga"}})
	assert.Len(t, result, 1)
	assert.Same(t, ga, result[0])
}

func TestApplyFiltersNilOptsReturnsUnchanged(t *testing.T) {
	ga := makeOffer("GA", 100, 0, time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC))
	result := ApplyFilters([]*core.Offer{ga}, nil)
	assert.Len(t, result, 1)
}
