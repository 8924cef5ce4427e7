package rank

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flightcore/crawl/core"
)

func offerWith(carrier string, amount float64, stops int, depart time.Time) *core.Offer {
	segs := []core.Segment{{
		Carrier: carrier, FlightNumber: carrier + "1", Origin: "CGK", Destination: "SIN",
		DepartUTC: depart, ArriveUTC: depart.Add(2 * time.Hour), Cabin: core.CabinEconomy,
	}}
	for i := 0; i < stops; i++ {
		last := segs[len(segs)-1]
		segs = append(segs, core.Segment{
			Carrier: carrier, FlightNumber: carrier + "2", Origin: "SIN", Destination: "KUL",
			DepartUTC: last.ArriveUTC.Add(time.Hour), ArriveUTC: last.ArriveUTC.Add(3 * time.Hour), Cabin: core.CabinEconomy,
		})
	}
	return core.NewOffer(segs, []core.Price{{SourceID: "x", TrustScore: 70, Currency: "USD", Amount: amount, FetchedAt: time.Now()}})
}

func TestBestValuePrefersCheaperFasterFewerStops(t *testing.T) {
	base := time.Now().Add(24 * time.Hour)
	best := offerWith("QG", 100, 0, base)
	worst := offerWith("JT", 500, 1, base)

	scores := BestValue([]*core.Offer{best, worst})
	require.Len(t, scores, 2)
	assert.Less(t, scores[0], scores[1])
}

func TestSortByPriceIsStableAscending(t *testing.T) {
	base := time.Now().Add(24 * time.Hour)
	cheap := offerWith("QG", 100, 0, base)
	expensive := offerWith("GA", 300, 0, base)

	sorted := Sort([]*core.Offer{expensive, cheap}, SortByPrice, nil)
	lowest, _ := sorted[0].LowestPrice()
	assert.Equal(t, 100.0, lowest.Amount)
}

func TestSortDefaultsToBestValueForInvalidOption(t *testing.T) {
	base := time.Now().Add(24 * time.Hour)
	a := offerWith("QG", 100, 0, base)
	b := offerWith("GA", 300, 1, base)

	sorted := Sort([]*core.Offer{b, a}, SortOption("bogus"), nil)
	require.Len(t, sorted, 2)
	lowest, _ := sorted[0].LowestPrice()
	assert.Equal(t, 100.0, lowest.Amount)
}
