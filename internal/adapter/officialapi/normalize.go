package officialapi

import (
	"fmt"
	"time"

	"github.com/flightcore/crawl/core"
	"github.com/flightcore/crawl/internal/normalize"
)

// TrustScore: the carrier's own documented API is the most trusted
// source in the §4.5 ordering.
const TrustScore = 100

func Normalize(raw *core.RawOffer) (*core.Offer, error) {
	o, ok := raw.Payload.(OfficialOffer)
	if !ok {
		return nil, core.NewUnusableParseError(raw.SourceID, "payload", fmt.Errorf("unexpected payload type %T", raw.Payload))
	}
	if o.FareCurrency == "" {
		return nil, core.NewUnusableParseError(raw.SourceID, "fareCurrency", fmt.Errorf("missing price currency"))
	}

	depart, err := time.Parse(time.RFC3339, o.DepartUTC)
	if err != nil {
		return nil, core.NewRecoverableParseError(raw.SourceID, "departUtc", err)
	}
	arrive, err := time.Parse(time.RFC3339, o.ArriveUTC)
	if err != nil {
		return nil, core.NewRecoverableParseError(raw.SourceID, "arriveUtc", err)
	}
	depart, arrive = depart.UTC(), arrive.UTC()

	operating, _ := normalize.ResolveOperatingCarrier(o.MarketingCarrier, o.OperatingCarrier)

	seg := core.Segment{
		Carrier:          o.MarketingCarrier,
		OperatingCarrier: operating,
		FlightNumber:     o.FlightNumber,
		Origin:           o.Origin,
		Destination:      o.Destination,
		DepartUTC:        depart,
		ArriveUTC:        arrive,
		Cabin:            normalize.MapCabin(o.CabinCode),
		DurationMinutes:  int(arrive.Sub(depart).Minutes()),
	}
	if err := seg.Validate(); err != nil {
		return nil, core.NewRecoverableParseError(raw.SourceID, "segment", err)
	}

	price := core.Price{
		SourceID:        raw.SourceID,
		TrustScore:      TrustScore,
		Currency:        o.FareCurrency,
		Amount:          o.FareAmount,
		IncludesBaggage: o.IncludesBaggage,
		IncludesMeal:    o.IncludesMeal,
		BookingURL:      o.BookingURL,
		FetchedAt:       raw.FetchedAt,
	}

	offer := core.NewOffer([]core.Segment{seg}, []core.Price{price})
	if err := offer.Validate(); err != nil {
		return nil, core.NewRecoverableParseError(raw.SourceID, "offer", err)
	}
	return offer, nil
}
