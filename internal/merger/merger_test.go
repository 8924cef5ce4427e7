package merger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flightcore/crawl/core"
)

func seg(carrier, operating string) core.Segment {
	return core.Segment{
		Carrier: carrier, OperatingCarrier: operating, FlightNumber: carrier + "100",
		Origin: "CGK", Destination: "SIN",
		DepartUTC: time.Date(2026, 8, 1, 8, 0, 0, 0, time.UTC),
		ArriveUTC: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
		Cabin:     core.CabinEconomy,
	}
}

func TestMergeGroupsByFingerprintAndSortsByLowestPrice(t *testing.T) {
	cheap := core.NewOffer([]core.Segment{seg("QG", "QG")}, []core.Price{
		{SourceID: "aggregator-x", TrustScore: 70, Currency: "USD", Amount: 120, FetchedAt: time.Now()},
	})
	expensive := core.NewOffer([]core.Segment{seg("GA", "GA")}, []core.Price{
		{SourceID: "carrierhub-official", TrustScore: 100, Currency: "USD", Amount: 500, FetchedAt: time.Now()},
	})

	merged, err := Merge([]*core.Offer{expensive, cheap}, "USD", nil)
	require.NoError(t, err)
	require.Len(t, merged, 2)
	lowest, ok := merged[0].LowestPrice()
	require.True(t, ok)
	assert.Equal(t, 120.0, lowest.Amount)
}

func TestMergeUnionsPricesWithinAFingerprintGroup(t *testing.T) {
	fetchedEarlier := time.Now().Add(-time.Hour)
	fetchedLater := time.Now()

	a := core.NewOffer([]core.Segment{seg("QG", "QG")}, []core.Price{
		{SourceID: "aggregator-x", TrustScore: 70, Currency: "USD", Amount: 150, FetchedAt: fetchedLater},
	})
	b := core.NewOffer([]core.Segment{seg("QG", "QG")}, []core.Price{
		{SourceID: "wholesaler-x", TrustScore: 60, Currency: "USD", Amount: 150, FetchedAt: fetchedEarlier},
	})
	require.Equal(t, a.Fingerprint, b.Fingerprint)

	merged, err := Merge([]*core.Offer{a, b}, "USD", nil)
	require.NoError(t, err)
	require.Len(t, merged, 1)
	require.Len(t, merged[0].Prices, 2)

	// Equal amount: higher trust score wins the tie-break (rule 4).
	assert.Equal(t, "aggregator-x", merged[0].Prices[0].SourceID)
}

func TestMergePrefersHigherTrustSourceForSegmentAttributes(t *testing.T) {
	lowTrust := core.NewOffer([]core.Segment{seg("QG", "")}, []core.Price{
		{SourceID: "legacy-air-browser", TrustScore: 50, Currency: "USD", Amount: 200, FetchedAt: time.Now()},
	})
	highTrust := core.NewOffer([]core.Segment{seg("QG", "QG")}, []core.Price{
		{SourceID: "carrierhub-official", TrustScore: 100, Currency: "USD", Amount: 210, FetchedAt: time.Now()},
	})
	// Segments differ only in OperatingCarrier (one unresolved). The
	// fingerprint doesn't key on OperatingCarrier, so the two offers
	// already share one; the assignment below just makes that explicit.
	highTrust.Fingerprint = lowTrust.Fingerprint

	merged, err := Merge([]*core.Offer{lowTrust, highTrust}, "USD", nil)
	require.NoError(t, err)
	require.Len(t, merged, 1)
	assert.Equal(t, "QG", merged[0].Segments[0].OperatingCarrier)
}
