package sharedtenant

import (
	"fmt"

	"github.com/flightcore/crawl/core"
	"github.com/flightcore/crawl/internal/normalize"
	"github.com/flightcore/crawl/pkg/util"
)

// TrustScore: a wholesaler platform sits below a direct-airline feed
// but above metasearch, per §4.5.
const TrustScore = 60

const wallClockLayout = "2006-01-02T15:04:05"

// Normalize converts a shared-tenant Quote into a canonical Offer. Unlike
// binarymeta and aggregator, this source reports local wall-clock times
// without a UTC offset, so depart/arrive must be resolved against each
// airport's timezone before the chain can be validated (§4.2).
func Normalize(raw *core.RawOffer) (*core.Offer, error) {
	q, ok := raw.Payload.(Quote)
	if !ok {
		return nil, core.NewUnusableParseError(raw.SourceID, "payload", fmt.Errorf("unexpected payload type %T", raw.Payload))
	}
	if q.Currency == "" {
		return nil, core.NewUnusableParseError(raw.SourceID, "currency", fmt.Errorf("missing price currency"))
	}

	originTZ := normalize.AirportTimezone(q.Origin)
	destTZ := normalize.AirportTimezone(q.Destination)

	depart, err := util.ParseInTimezone(wallClockLayout, q.DepartLocal, originTZ)
	if err != nil {
		return nil, core.NewRecoverableParseError(raw.SourceID, "depart_local", err)
	}
	arrive, err := util.ParseInTimezone(wallClockLayout, q.ArriveLocal, destTZ)
	if err != nil {
		return nil, core.NewRecoverableParseError(raw.SourceID, "arrive_local", err)
	}
	departUTC := depart.UTC()
	arriveUTC := arrive.UTC()

	seg := core.Segment{
		Carrier:          q.AirlineCode,
		OperatingCarrier: q.AirlineCode,
		FlightNumber:     q.FlightNumber,
		Origin:           q.Origin,
		Destination:      q.Destination,
		DepartUTC:        departUTC,
		ArriveUTC:        arriveUTC,
		Cabin:            normalize.MapCabin(q.CabinCode),
		DurationMinutes:  int(arriveUTC.Sub(departUTC).Minutes()),
	}
	if err := seg.Validate(); err != nil {
		return nil, core.NewRecoverableParseError(raw.SourceID, "segment", err)
	}

	price := core.Price{
		SourceID:        raw.SourceID,
		TrustScore:      TrustScore,
		Currency:        q.Currency,
		Amount:          q.TotalPrice,
		IncludesBaggage: q.BaggageIncl,
		BookingURL:      q.DeepLink,
		FetchedAt:       raw.FetchedAt,
	}

	offer := core.NewOffer([]core.Segment{seg}, []core.Price{price})
	if err := offer.Validate(); err != nil {
		return nil, core.NewRecoverableParseError(raw.SourceID, "offer", err)
	}
	return offer, nil
}
