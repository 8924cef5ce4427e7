package gdssdk

import (
	"fmt"
	"time"

	"github.com/flightcore/crawl/core"
	"github.com/flightcore/crawl/internal/normalize"
)

// TrustScore: a GDS sits below direct-airline and official-API feeds
// but above every reseller in the §4.5 ordering.
const TrustScore = 80

func Normalize(raw *core.RawOffer) (*core.Offer, error) {
	it, ok := raw.Payload.(PricedItinerary)
	if !ok {
		return nil, core.NewUnusableParseError(raw.SourceID, "payload", fmt.Errorf("unexpected payload type %T", raw.Payload))
	}
	if it.FareCurrency == "" {
		return nil, core.NewUnusableParseError(raw.SourceID, "fare_currency", fmt.Errorf("missing price currency"))
	}

	depart, err := time.Parse(time.RFC3339, it.DepartUTCISO)
	if err != nil {
		return nil, core.NewRecoverableParseError(raw.SourceID, "depart_utc", err)
	}
	arrive, err := time.Parse(time.RFC3339, it.ArriveUTCISO)
	if err != nil {
		return nil, core.NewRecoverableParseError(raw.SourceID, "arrive_utc", err)
	}
	depart, arrive = depart.UTC(), arrive.UTC()

	operating, _ := normalize.ResolveOperatingCarrier(it.MarketingCarrier, it.OperatingCarrier)

	seg := core.Segment{
		Carrier:          it.MarketingCarrier,
		OperatingCarrier: operating,
		FlightNumber:     it.FlightNumber,
		Origin:           it.Origin,
		Destination:      it.Destination,
		DepartUTC:        depart,
		ArriveUTC:        arrive,
		Cabin:            normalize.MapCabin(it.BookingClass),
		DurationMinutes:  int(arrive.Sub(depart).Minutes()),
	}
	if err := seg.Validate(); err != nil {
		return nil, core.NewRecoverableParseError(raw.SourceID, "segment", err)
	}

	amount, err := parseFare(it.TotalFare)
	if err != nil {
		return nil, core.NewRecoverableParseError(raw.SourceID, "total_fare", err)
	}

	price := core.Price{
		SourceID:   raw.SourceID,
		TrustScore: TrustScore,
		Currency:   it.FareCurrency,
		Amount:     amount,
		BookingURL: "", // GDS results resolve through the booking flow, not a deep link
		FetchedAt:  raw.FetchedAt,
	}

	offer := core.NewOffer([]core.Segment{seg}, []core.Price{price})
	if err := offer.Validate(); err != nil {
		return nil, core.NewRecoverableParseError(raw.SourceID, "offer", err)
	}
	return offer, nil
}

func parseFare(s string) (float64, error) {
	var amount float64
	_, err := fmt.Sscanf(s, "%f", &amount)
	if err != nil {
		return 0, fmt.Errorf("parse fare amount %q: %w", s, err)
	}
	return amount, nil
}
