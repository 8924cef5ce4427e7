package aggregator

import (
	"fmt"
	"time"

	"github.com/flightcore/crawl/core"
	"github.com/flightcore/crawl/internal/normalize"
	"github.com/flightcore/crawl/pkg/util"
)

// TrustScore sits below direct-airline/official-API/GDS but above
// metasearch and browser-scrape in the §4.5 ordering.
const TrustScore = 70

func Normalize(raw *core.RawOffer) (*core.Offer, error) {
	o, ok := raw.Payload.(Offer)
	if !ok {
		return nil, core.NewUnusableParseError(raw.SourceID, "payload", fmt.Errorf("unexpected payload type %T", raw.Payload))
	}
	if o.Fare.Currency == "" {
		return nil, core.NewUnusableParseError(raw.SourceID, "currency", fmt.Errorf("missing price currency"))
	}
	if len(o.Segments) == 0 {
		return nil, core.NewRecoverableParseError(raw.SourceID, "segments", fmt.Errorf("no segments"))
	}

	segments := make([]core.Segment, 0, len(o.Segments))
	for _, s := range o.Segments {
		depart, err := time.Parse(time.RFC3339, s.DepartISO)
		if err != nil {
			return nil, core.NewRecoverableParseError(raw.SourceID, "depart_iso", err)
		}
		arrive, err := time.Parse(time.RFC3339, s.ArriveISO)
		if err != nil {
			return nil, core.NewRecoverableParseError(raw.SourceID, "arrive_iso", err)
		}
		operating, _ := normalize.ResolveOperatingCarrier(s.MarketingCarrier, s.OperatingCarrier)

		seg := core.Segment{
			Carrier:          s.MarketingCarrier,
			OperatingCarrier: operating,
			FlightNumber:     s.FlightNumber,
			Origin:           s.Origin,
			Destination:      s.Destination,
			DepartUTC:        depart.UTC(),
			ArriveUTC:        arrive.UTC(),
			AircraftType:     s.Aircraft,
			Cabin:            normalize.MapCabin(s.CabinClass),
			DurationMinutes:  int(arrive.UTC().Sub(depart.UTC()).Minutes()),
		}
		segments = append(segments, seg)
	}
	if err := core.ValidateChain(segments); err != nil {
		return nil, core.NewRecoverableParseError(raw.SourceID, "segment_chain", err)
	}

	amount, err := util.ConvertExact(o.Fare.Amount, o.Fare.Currency, o.Fare.Currency, nil)
	if err != nil {
		return nil, core.NewRecoverableParseError(raw.SourceID, "amount", err)
	}

	price := core.Price{
		SourceID:        raw.SourceID,
		TrustScore:      TrustScore,
		Currency:        o.Fare.Currency,
		Amount:          util.AmountToFloat(amount),
		IncludesBaggage: o.Fare.IncludesBaggage,
		FareClass:       o.Fare.FareBrand,
		BookingURL:      o.Fare.BookingURL,
		FetchedAt:       raw.FetchedAt,
	}

	offer := core.NewOffer(segments, []core.Price{price})
	if err := offer.Validate(); err != nil {
		return nil, core.NewRecoverableParseError(raw.SourceID, "offer", err)
	}
	return offer, nil
}
