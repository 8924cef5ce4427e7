package browserauto

import (
	"fmt"
	"time"

	"github.com/flightcore/crawl/core"
	"github.com/flightcore/crawl/internal/normalize"
	"github.com/flightcore/crawl/pkg/util"
)

// TrustScore: browser-scrape is the least trusted source in the §4.5
// ordering, below even metasearch, since the DOM shape it depends on
// can drift without any contract to signal the break.
const TrustScore = 30

const wallClockLayout = "2006-01-02T15:04:05"

func Normalize(raw *core.RawOffer) (*core.Offer, error) {
	row, ok := raw.Payload.(scrapedRow)
	if !ok {
		return nil, core.NewUnusableParseError(raw.SourceID, "payload", fmt.Errorf("unexpected payload type %T", raw.Payload))
	}
	if row.Currency == "" {
		return nil, core.NewUnusableParseError(raw.SourceID, "currency", fmt.Errorf("missing price currency"))
	}

	originTZ := normalize.AirportTimezone(row.Origin)
	destTZ := normalize.AirportTimezone(row.Destination)

	depart, err := util.ParseInTimezone(wallClockLayout, row.DepartTime, originTZ)
	if err != nil {
		return nil, core.NewRecoverableParseError(raw.SourceID, "departTime", err)
	}
	arrive, err := util.ParseInTimezone(wallClockLayout, row.ArriveTime, destTZ)
	if err != nil {
		return nil, core.NewRecoverableParseError(raw.SourceID, "arriveTime", err)
	}
	departUTC, arriveUTC := depart.UTC(), arrive.UTC()

	seg := core.Segment{
		Carrier:          row.Carrier,
		OperatingCarrier: row.Carrier,
		FlightNumber:     row.FlightNumber,
		Origin:           row.Origin,
		Destination:      row.Destination,
		DepartUTC:        departUTC,
		ArriveUTC:        arriveUTC,
		Cabin:            normalize.MapCabin(row.CabinLabel),
		DurationMinutes:  int(arriveUTC.Sub(departUTC).Minutes()),
	}
	if err := seg.Validate(); err != nil {
		return nil, core.NewRecoverableParseError(raw.SourceID, "segment", err)
	}

	price := core.Price{
		SourceID:   raw.SourceID,
		TrustScore: TrustScore,
		Currency:   row.Currency,
		Amount:     row.Price,
		BookingURL: row.BookingHref,
		FetchedAt:  raw.FetchedAt,
	}

	offer := core.NewOffer([]core.Segment{seg}, []core.Price{price})
	if err := offer.Validate(); err != nil {
		return nil, core.NewRecoverableParseError(raw.SourceID, "offer", err)
	}
	return offer, nil
}
