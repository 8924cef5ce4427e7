package api

import (
	"time"

	"github.com/flightcore/crawl/core"
)

// SearchResponse is the JSON body returned by POST /api/v1/search.
type SearchResponse struct {
	SearchCriteria SearchCriteriaDTO `json:"search_criteria"`
	Metadata       MetadataDTO       `json:"metadata"`
	Offers         []OfferDTO        `json:"offers"`
}

// SearchCriteriaDTO echoes back the resolved query.
type SearchCriteriaDTO struct {
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DepartureDate string `json:"departure_date"`
	Cabin         string `json:"cabin"`
	Currency      string `json:"currency"`
}

// MetadataDTO mirrors the teacher's SearchMetadata equivalent named in
// SPEC_FULL.md's supplemented features.
type MetadataDTO struct {
	TotalResults         int    `json:"total_results"`
	CacheState           string `json:"cache_state"`
	Partial              bool   `json:"partial"`
	BackgroundDispatched bool   `json:"background_dispatched"`
	SourceMix            map[string]int `json:"source_mix,omitempty"`
}

// OfferDTO is one merged, ranked offer.
type OfferDTO struct {
	Fingerprint string       `json:"fingerprint"`
	Segments    []SegmentDTO `json:"segments"`
	LowestPrice PriceDTO     `json:"lowest_price"`
	Prices      []PriceDTO   `json:"prices"`
}

// SegmentDTO is one flown leg.
type SegmentDTO struct {
	Carrier         string `json:"carrier"`
	OperatingCarrier string `json:"operating_carrier"`
	FlightNumber    string `json:"flight_number"`
	Origin          string `json:"origin"`
	Destination     string `json:"destination"`
	DepartUTC       string `json:"depart_utc"`
	ArriveUTC       string `json:"arrive_utc"`
	Cabin           string `json:"cabin"`
}

// PriceDTO is one source's quote.
type PriceDTO struct {
	SourceID string  `json:"source_id"`
	Currency string  `json:"currency"`
	Amount   float64 `json:"amount"`
}

// NewSearchResponse builds the wire response from the resolved query
// and the service's SearchResponse.
func NewSearchResponse(q core.Query, result *core.SearchResponse) SearchResponse {
	offers := make([]OfferDTO, len(result.Offers))
	for i, o := range result.Offers {
		offers[i] = toOfferDTO(o)
	}

	return SearchResponse{
		SearchCriteria: SearchCriteriaDTO{
			Origin:        q.Origin,
			Destination:   q.Destination,
			DepartureDate: q.DepartureDate.Format("2006-01-02"),
			Cabin:         string(q.Cabin),
			Currency:      q.Currency,
		},
		Metadata: MetadataDTO{
			TotalResults:         len(offers),
			CacheState:           string(result.CacheState),
			Partial:              result.Partial,
			BackgroundDispatched: result.BackgroundDispatched,
			SourceMix:            result.SourceMix,
		},
		Offers: offers,
	}
}

func toOfferDTO(o *core.Offer) OfferDTO {
	segments := make([]SegmentDTO, len(o.Segments))
	for i, s := range o.Segments {
		segments[i] = SegmentDTO{
			Carrier:          s.Carrier,
			OperatingCarrier: s.OperatingCarrier,
			FlightNumber:     s.FlightNumber,
			Origin:           s.Origin,
			Destination:      s.Destination,
			DepartUTC:        s.DepartUTC.Format(time.RFC3339),
			ArriveUTC:        s.ArriveUTC.Format(time.RFC3339),
			Cabin:            string(s.Cabin),
		}
	}

	prices := make([]PriceDTO, len(o.Prices))
	for i, p := range o.Prices {
		prices[i] = PriceDTO{SourceID: p.SourceID, Currency: p.Currency, Amount: p.Amount}
	}

	lowest, _ := o.LowestPrice()
	return OfferDTO{
		Fingerprint: core.FormatFingerprint(o.Fingerprint),
		Segments:    segments,
		LowestPrice: PriceDTO{SourceID: lowest.SourceID, Currency: lowest.Currency, Amount: lowest.Amount},
		Prices:      prices,
	}
}
