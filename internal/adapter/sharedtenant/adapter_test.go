package sharedtenant

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flightcore/crawl/core"
)

func TestNormalizeBuildsOfferFromQuote(t *testing.T) {
	raw := &core.RawOffer{
		SourceID:  ProviderName,
		FetchedAt: time.Now(),
		Payload: Quote{
			AirlineCode:  "JT",
			FlightNumber: "JT610",
			Origin:       "CGK",
			Destination:  "SIN",
			DepartLocal:  "2026-08-01T09:00:00",
			ArriveLocal:  "2026-08-01T11:45:00",
			CabinCode:    "Y",
			TotalPrice:   89.50,
			Currency:     "USD",
			BaggageIncl:  true,
			DeepLink:     "https://example.com/wx",
		},
	}

	offer, err := Normalize(raw)
	require.NoError(t, err)
	require.Len(t, offer.Segments, 1)
	assert.True(t, offer.Segments[0].ArriveUTC.After(offer.Segments[0].DepartUTC))
	assert.Equal(t, TrustScore, offer.Prices[0].TrustScore)
	assert.Equal(t, 89.50, offer.Prices[0].Amount)
}

func TestNormalizeRejectsMissingCurrency(t *testing.T) {
	raw := &core.RawOffer{
		SourceID: ProviderName,
		Payload: Quote{
			AirlineCode: "JT", FlightNumber: "JT610",
			Origin: "CGK", Destination: "SIN",
			DepartLocal: "2026-08-01T09:00:00",
			ArriveLocal: "2026-08-01T11:45:00",
		},
	}
	_, err := Normalize(raw)
	require.Error(t, err)
}

func TestClassifyFailure(t *testing.T) {
	a := NewAdapter("https://wholesale.example.com")
	err := core.NewSourceError(ProviderName, core.FailureBotChallenge, assertErr)
	assert.Equal(t, core.FailureBotChallenge, a.ClassifyFailure(err))
	assert.Equal(t, core.FailureUnknown, a.ClassifyFailure(assertErr))
}

var assertErr = assertError("boom")

type assertError string

func (e assertError) Error() string { return string(e) }
