package api

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	airportCodeRegex = regexp.MustCompile(`^[A-Z]{3}$`)
	currencyRegex    = regexp.MustCompile(`^[A-Z]{3}$`)
	clockRegex       = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)
)

// SearchRequest is the HTTP-facing request for POST /api/v1/search.
type SearchRequest struct {
	Origin        string         `json:"origin"`
	Destination   string         `json:"destination"`
	DepartureDate string         `json:"departure_date"`
	ReturnDate    string         `json:"return_date,omitempty"`
	Cabin         string         `json:"cabin,omitempty"`
	TripType      string         `json:"trip_type,omitempty"`
	Currency      string         `json:"currency,omitempty"`
	Passengers    PassengersDTO  `json:"passengers"`
	SortBy        string         `json:"sort_by,omitempty"`
	Filters       *FilterDTO     `json:"filters,omitempty"`
}

// PassengersDTO mirrors core.Passengers over the wire.
type PassengersDTO struct {
	Adults        int `json:"adults"`
	Children      int `json:"children,omitempty"`
	InfantsInSeat int `json:"infants_in_seat,omitempty"`
	InfantsOnLap  int `json:"infants_on_lap,omitempty"`
}

// FilterDTO is the optional post-merge refinement the caller may ask for.
type FilterDTO struct {
	MaxPrice           *float64          `json:"max_price,omitempty"`
	MaxStops           *int              `json:"max_stops,omitempty"`
	Carriers           []string          `json:"carriers,omitempty"`
	DepartureTimeRange *TimeRangeDTO     `json:"departure_time_range,omitempty"`
	ArrivalTimeRange   *TimeRangeDTO     `json:"arrival_time_range,omitempty"`
	DurationRange      *DurationRangeDTO `json:"duration_range,omitempty"`
}

// TimeRangeDTO carries a "HH:MM" 24-hour clock window.
type TimeRangeDTO struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// DurationRangeDTO bounds total itinerary duration in minutes.
type DurationRangeDTO struct {
	MinMinutes *int `json:"min_minutes,omitempty"`
	MaxMinutes *int `json:"max_minutes,omitempty"`
}

// Normalize uppercases airport/currency/cabin codes and lowercases
// enum-like fields, the way the teacher's SearchRequest.Normalize does
// before Validate runs.
func (r *SearchRequest) Normalize() {
	r.Origin = strings.ToUpper(strings.TrimSpace(r.Origin))
	r.Destination = strings.ToUpper(strings.TrimSpace(r.Destination))
	r.Cabin = strings.ToUpper(strings.TrimSpace(r.Cabin))
	r.TripType = strings.ToUpper(strings.TrimSpace(r.TripType))
	r.Currency = strings.ToUpper(strings.TrimSpace(r.Currency))
	r.SortBy = strings.ToLower(strings.TrimSpace(r.SortBy))
}

// Validate enforces the wire-level shape; the core.Query invariants of
// §3 (dates not in the past, passenger caps, etc) are re-checked by
// core.Query.Validate once this DTO is converted, so this only rejects
// malformed input the converter couldn't otherwise handle.
func (r *SearchRequest) Validate() error {
	if !airportCodeRegex.MatchString(r.Origin) {
		return fmt.Errorf("origin must be a 3-letter IATA code, got %q", r.Origin)
	}
	if !airportCodeRegex.MatchString(r.Destination) {
		return fmt.Errorf("destination must be a 3-letter IATA code, got %q", r.Destination)
	}
	if _, err := time.Parse("2006-01-02", r.DepartureDate); err != nil {
		return fmt.Errorf("departure_date must be in YYYY-MM-DD format: %w", err)
	}
	if r.ReturnDate != "" {
		if _, err := time.Parse("2006-01-02", r.ReturnDate); err != nil {
			return fmt.Errorf("return_date must be in YYYY-MM-DD format: %w", err)
		}
	}
	if r.Currency != "" && !currencyRegex.MatchString(r.Currency) {
		return fmt.Errorf("currency must be an ISO-4217 code, got %q", r.Currency)
	}
	if r.Passengers.Adults < 1 {
		return fmt.Errorf("passengers.adults must be at least 1")
	}
	if r.Filters != nil {
		if err := r.Filters.Validate(); err != nil {
			return fmt.Errorf("invalid filters: %w", err)
		}
	}
	return nil
}

// Validate checks filter-internal shape (ranges, clock format).
func (f *FilterDTO) Validate() error {
	if f == nil {
		return nil
	}
	if f.MaxPrice != nil && *f.MaxPrice < 0 {
		return fmt.Errorf("max_price must be non-negative")
	}
	if f.MaxStops != nil && *f.MaxStops < 0 {
		return fmt.Errorf("max_stops must be non-negative")
	}
	if f.DepartureTimeRange != nil {
		if err := f.DepartureTimeRange.Validate(); err != nil {
			return fmt.Errorf("departure_time_range: %w", err)
		}
	}
	if f.ArrivalTimeRange != nil {
		if err := f.ArrivalTimeRange.Validate(); err != nil {
			return fmt.Errorf("arrival_time_range: %w", err)
		}
	}
	if f.DurationRange != nil {
		if f.DurationRange.MinMinutes != nil && f.DurationRange.MaxMinutes != nil &&
			*f.DurationRange.MinMinutes > *f.DurationRange.MaxMinutes {
			return fmt.Errorf("duration_range: min_minutes must not exceed max_minutes")
		}
	}
	return nil
}

// Validate checks that start/end are valid HH:MM clock values.
func (t *TimeRangeDTO) Validate() error {
	if t == nil {
		return nil
	}
	if !clockRegex.MatchString(t.Start) {
		return fmt.Errorf("start must be in HH:MM format, got %q", t.Start)
	}
	if !clockRegex.MatchString(t.End) {
		return fmt.Errorf("end must be in HH:MM format, got %q", t.End)
	}
	return nil
}
