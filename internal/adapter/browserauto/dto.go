package browserauto

import (
	"encoding/json"
	"fmt"
)

// scrapedRow is what the injected page-extraction script hands back
// after the calendar widget has rendered its results, one row per
// flight card in the DOM.
type scrapedRow struct {
	Carrier      string  `json:"carrier"`
	FlightNumber string  `json:"flightNumber"`
	DepartTime   string  `json:"departTime"`
	ArriveTime   string  `json:"arriveTime"`
	CabinLabel   string  `json:"cabinLabel"`
	Price        float64 `json:"price"`
	Currency     string  `json:"currency"`
	BookingHref  string  `json:"bookingHref"`

	// Origin/Destination are not present in the extraction script's
	// output (the calendar widget page is already scoped to one
	// route); Search stamps them from the originating Query before
	// handing the row to the Normalizer.
	Origin      string `json:"-"`
	Destination string `json:"-"`
}

type scrapedPage struct {
	Rows []scrapedRow `json:"rows"`
}

// evalValue mirrors the Runtime.evaluate "result" object: {type, value}.
// The extraction script returns its payload JSON.stringify-ed, so value
// arrives as a JSON string that must be unmarshaled a second time.
type evalValue struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

func decodeScrapedPage(raw json.RawMessage) (scrapedPage, error) {
	var ev evalValue
	if err := json.Unmarshal(raw, &ev); err != nil {
		return scrapedPage{}, fmt.Errorf("decode eval result envelope: %w", err)
	}
	var asString string
	if err := json.Unmarshal(ev.Value, &asString); err != nil {
		return scrapedPage{}, fmt.Errorf("decode eval result string: %w", err)
	}
	var page scrapedPage
	if err := json.Unmarshal([]byte(asString), &page); err != nil {
		return scrapedPage{}, fmt.Errorf("decode scraped page: %w", err)
	}
	return page, nil
}
