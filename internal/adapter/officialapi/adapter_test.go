package officialapi

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flightcore/crawl/core"
	"github.com/flightcore/crawl/internal/adapter"
)

func TestNormalizeBuildsOfferFromOfficialOffer(t *testing.T) {
	raw := &core.RawOffer{
		SourceID:  ProviderName,
		FetchedAt: time.Now(),
		Payload: OfficialOffer{
			MarketingCarrier: "SQ",
			OperatingCarrier: "MI",
			FlightNumber:     "SQ5678",
			Origin:           "SIN",
			Destination:      "HKG",
			DepartUTC:        "2026-08-01T01:00:00Z",
			ArriveUTC:        "2026-08-01T04:30:00Z",
			CabinCode:        "BUSINESS",
			FareAmount:       980.0,
			FareCurrency:     "USD",
			IncludesBaggage:  true,
			BookingURL:       "https://example.com/official",
		},
	}

	offer, err := Normalize(raw)
	require.NoError(t, err)
	require.Len(t, offer.Segments, 1)
	assert.Equal(t, "MI", offer.Segments[0].OperatingCarrier)
	assert.Equal(t, core.CabinBusiness, offer.Segments[0].Cabin)
	assert.Equal(t, TrustScore, offer.Prices[0].TrustScore)
}

func TestNormalizeRejectsMissingCurrency(t *testing.T) {
	raw := &core.RawOffer{
		SourceID: ProviderName,
		Payload: OfficialOffer{
			MarketingCarrier: "SQ", FlightNumber: "SQ5678",
			Origin: "SIN", Destination: "HKG",
			DepartUTC: "2026-08-01T01:00:00Z",
			ArriveUTC: "2026-08-01T04:30:00Z",
		},
	}
	_, err := Normalize(raw)
	require.Error(t, err)
}

func TestSearchRejectsExpiredCredential(t *testing.T) {
	a := NewAdapter("https://official.example.com")
	actx := &adapter.AdapterContext{
		Credential: adapter.Credential{OAuthToken: "x", ExpiresAt: time.Now().Add(-time.Minute)},
	}
	q := core.Query{
		Origin: "SIN", Destination: "HKG", DepartureDate: time.Now().Add(24 * time.Hour),
		Cabin: core.CabinBusiness, TripType: core.TripOneWay, Currency: "USD",
		Passengers: core.Passengers{Adults: 1},
	}
	_, err := a.Search(context.Background(), actx, q)
	require.Error(t, err)
	se, ok := core.AsSourceError(err)
	require.True(t, ok)
	assert.Equal(t, core.FailureAuthExpired, se.Kind)
}

func TestClassifyFailure(t *testing.T) {
	a := NewAdapter("https://official.example.com")
	err := core.NewSourceError(ProviderName, core.FailureAuthExpired, assertErr)
	assert.Equal(t, core.FailureAuthExpired, a.ClassifyFailure(err))
	assert.Equal(t, core.FailureUnknown, a.ClassifyFailure(assertErr))
}

var assertErr = assertError("boom")

type assertError string

func (e assertError) Error() string { return string(e) }
