package binarymeta

import (
	"fmt"
	"time"

	"github.com/flightcore/crawl/core"
	"github.com/flightcore/crawl/internal/normalize"
)

// TrustScore reflects this variant's place in the §4.5 trust ordering:
// metasearch ranks above only browser-scrape.
const TrustScore = 40

// Normalize converts a binary-metasearch Record into a canonical Offer.
// Deterministic and side-effect-free per §4.2.
func Normalize(raw *core.RawOffer) (*core.Offer, error) {
	rec, ok := raw.Payload.(Record)
	if !ok {
		return nil, core.NewUnusableParseError(raw.SourceID, "payload", fmt.Errorf("unexpected payload type %T", raw.Payload))
	}

	if rec.Currency == "" {
		return nil, core.NewUnusableParseError(raw.SourceID, "currency", fmt.Errorf("missing price currency"))
	}

	depart := time.Unix(rec.DepartUnix, 0).UTC()
	arrive := time.Unix(rec.ArriveUnix, 0).UTC()

	seg := core.Segment{
		Carrier:          rec.Carrier,
		OperatingCarrier: rec.Carrier,
		FlightNumber:     rec.FlightNo,
		Origin:           rec.Origin,
		Destination:      rec.Destination,
		DepartUTC:        depart,
		ArriveUTC:        arrive,
		Cabin:            normalize.MapCabin(rec.CabinCode),
		DurationMinutes:  int(arrive.Sub(depart).Minutes()),
	}
	if err := seg.Validate(); err != nil {
		return nil, core.NewRecoverableParseError(raw.SourceID, "segment", err)
	}

	price := core.Price{
		SourceID:   raw.SourceID,
		TrustScore: TrustScore,
		Currency:   rec.Currency,
		Amount:     float64(rec.PriceMinor) / 100,
		BookingURL: rec.DeepLink,
		FetchedAt:  raw.FetchedAt,
	}

	offer := core.NewOffer([]core.Segment{seg}, []core.Price{price})
	if err := offer.Validate(); err != nil {
		return nil, core.NewRecoverableParseError(raw.SourceID, "offer", err)
	}
	return offer, nil
}
