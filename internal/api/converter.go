package api

import (
	"fmt"
	"time"

	"github.com/flightcore/crawl/core"
	"github.com/flightcore/crawl/internal/rank"
	"github.com/flightcore/crawl/internal/service"
)

// ToQuery converts a validated SearchRequest into a core.Query. Date
// parsing errors are not expected here since Validate already checked
// the format, but are still surfaced rather than ignored.
func ToQuery(req SearchRequest) (core.Query, error) {
	departure, err := time.Parse("2006-01-02", req.DepartureDate)
	if err != nil {
		return core.Query{}, fmt.Errorf("parse departure_date: %w", err)
	}

	var returnDate *time.Time
	if req.ReturnDate != "" {
		rd, err := time.Parse("2006-01-02", req.ReturnDate)
		if err != nil {
			return core.Query{}, fmt.Errorf("parse return_date: %w", err)
		}
		returnDate = &rd
	}

	cabin := core.Cabin(req.Cabin)
	if cabin == "" {
		cabin = core.CabinEconomy
	}
	tripType := core.TripType(req.TripType)
	if tripType == "" {
		tripType = core.TripOneWay
	}
	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	return core.Query{
		Origin:        req.Origin,
		Destination:   req.Destination,
		DepartureDate: departure,
		ReturnDate:    returnDate,
		Cabin:         cabin,
		TripType:      tripType,
		Currency:      currency,
		Passengers: core.Passengers{
			Adults:        req.Passengers.Adults,
			Children:      req.Passengers.Children,
			InfantsInSeat: req.Passengers.InfantsInSeat,
			InfantsOnLap:  req.Passengers.InfantsOnLap,
		},
	}, nil
}

// ToOptions converts the DTO's sort/filter preferences into
// service.Options.
func ToOptions(req SearchRequest) service.Options {
	return service.Options{
		SortBy:  ToSortOption(req.SortBy),
		Filters: ToFilterOptions(req.Filters),
	}
}

// ToSortOption maps the wire-level sort_by string, defaulting to best
// value for an empty or unrecognized option (rank.Sort does the same
// defaulting, so this is a convenience for callers that want it
// resolved earlier).
func ToSortOption(sortBy string) rank.SortOption {
	opt := rank.SortOption(sortBy)
	if opt.IsValid() {
		return opt
	}
	return rank.SortByBestValue
}

// ToFilterOptions converts FilterDTO to rank.FilterOptions.
func ToFilterOptions(dto *FilterDTO) *rank.FilterOptions {
	if dto == nil {
		return nil
	}
	opts := &rank.FilterOptions{
		MaxPrice: dto.MaxPrice,
		MaxStops: dto.MaxStops,
		Carriers: dto.Carriers,
	}
	if dto.DepartureTimeRange != nil {
		opts.DepartureTimeRange = toTimeRange(dto.DepartureTimeRange)
	}
	if dto.ArrivalTimeRange != nil {
		opts.ArrivalTimeRange = toTimeRange(dto.ArrivalTimeRange)
	}
	if dto.DurationRange != nil {
		opts.DurationRange = &rank.DurationRange{
			MinMinutes: dto.DurationRange.MinMinutes,
			MaxMinutes: dto.DurationRange.MaxMinutes,
		}
	}
	return opts
}

// toTimeRange parses "HH:MM" strings into rank.TimeRange, which only
// reads the hour/minute component of the resulting time.Time.
func toTimeRange(dto *TimeRangeDTO) *rank.TimeRange {
	const reference = "2006-01-02 15:04"
	start, err := time.Parse(reference, "2006-01-02 "+dto.Start)
	if err != nil {
		return nil // unreachable once Validate has run
	}
	end, err := time.Parse(reference, "2006-01-02 "+dto.End)
	if err != nil {
		return nil
	}
	return &rank.TimeRange{Start: start, End: end}
}
