package perairline

import (
	"fmt"
	"time"

	"github.com/flightcore/crawl/core"
	"github.com/flightcore/crawl/internal/normalize"
)

// TrustScore: a direct-airline feed, reverse-engineered or not, ranks
// above every third-party reseller in the §4.5 ordering.
const TrustScore = 85

func Normalize(raw *core.RawOffer) (*core.Offer, error) {
	trip, ok := raw.Payload.(Trip)
	if !ok {
		return nil, core.NewUnusableParseError(raw.SourceID, "payload", fmt.Errorf("unexpected payload type %T", raw.Payload))
	}
	if trip.FareCcy == "" {
		return nil, core.NewUnusableParseError(raw.SourceID, "currency", fmt.Errorf("missing price currency"))
	}

	depart, err := time.Parse(time.RFC3339, trip.DepartISO)
	if err != nil {
		return nil, core.NewRecoverableParseError(raw.SourceID, "departIso", err)
	}
	arrive, err := time.Parse(time.RFC3339, trip.ArriveISO)
	if err != nil {
		return nil, core.NewRecoverableParseError(raw.SourceID, "arriveIso", err)
	}
	depart, arrive = depart.UTC(), arrive.UTC()

	carrier := ProviderCarrierCode
	seg := core.Segment{
		Carrier:          carrier,
		OperatingCarrier: carrier,
		FlightNumber:     trip.FlightNo,
		Origin:           trip.From,
		Destination:      trip.To,
		DepartUTC:        depart,
		ArriveUTC:        arrive,
		Cabin:            normalize.MapCabin(trip.Cabin),
		DurationMinutes:  int(arrive.Sub(depart).Minutes()),
	}
	if err := seg.Validate(); err != nil {
		return nil, core.NewRecoverableParseError(raw.SourceID, "segment", err)
	}

	price := core.Price{
		SourceID:   raw.SourceID,
		TrustScore: TrustScore,
		Currency:   trip.FareCcy,
		Amount:     trip.FareAmount,
		BookingURL: trip.DeepLinkURL,
		FetchedAt:  raw.FetchedAt,
	}

	offer := core.NewOffer([]core.Segment{seg}, []core.Price{price})
	if err := offer.Validate(); err != nil {
		return nil, core.NewRecoverableParseError(raw.SourceID, "offer", err)
	}
	return offer, nil
}

// ProviderCarrierCode is this airline's own IATA code; the reverse-
// engineered endpoint never echoes it back, so it is a compile-time
// constant of the adapter rather than a parsed field.
const ProviderCarrierCode = "IN"
