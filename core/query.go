package core

import (
	"regexp"
	"time"
)

// Cabin is the requested cabin class (§3).
type Cabin string

const (
	CabinEconomy         Cabin = "ECONOMY"
	CabinPremiumEconomy  Cabin = "PREMIUM_ECONOMY"
	CabinBusiness        Cabin = "BUSINESS"
	CabinFirst           Cabin = "FIRST"
)

func (c Cabin) IsValid() bool {
	switch c {
	case CabinEconomy, CabinPremiumEconomy, CabinBusiness, CabinFirst:
		return true
	default:
		return false
	}
}

// TripType is the requested trip shape (§3).
type TripType string

const (
	TripOneWay    TripType = "ONE_WAY"
	TripRoundTrip TripType = "ROUND_TRIP"
	TripMultiCity TripType = "MULTI_CITY"
)

func (t TripType) IsValid() bool {
	switch t {
	case TripOneWay, TripRoundTrip, TripMultiCity:
		return true
	default:
		return false
	}
}

var (
	iataRegex     = regexp.MustCompile(`^[A-Z]{3}$`)
	currencyRegex = regexp.MustCompile(`^[A-Z]{3}$`)
)

// Passengers holds the passenger counts of §3.
type Passengers struct {
	Adults         int
	Children       int
	InfantsInSeat  int
	InfantsOnLap   int
}

// Total returns the sum of every passenger bucket.
func (p Passengers) Total() int {
	return p.Adults + p.Children + p.InfantsInSeat + p.InfantsOnLap
}

// Query is the immutable request descriptor of §3. Construct with
// NewQuery so invariants are checked once, at the boundary; every
// downstream component (Router, Adapter, Merger, Cache) treats a Query
// value as already-valid.
type Query struct {
	Origin        string
	Destination   string
	DepartureDate time.Time
	ReturnDate    *time.Time
	Cabin         Cabin
	Passengers    Passengers
	Currency      string
	TripType      TripType
}

// Validate enforces the invariants of §3. now is injected so callers (and
// tests) control what "today" means instead of the query reaching into
// time.Now() itself.
func (q *Query) Validate(now time.Time) error {
	if !iataRegex.MatchString(q.Origin) {
		return WrapInvalidQuery("origin must be a 3-letter IATA code, got %q", q.Origin)
	}
	if !iataRegex.MatchString(q.Destination) {
		return WrapInvalidQuery("destination must be a 3-letter IATA code, got %q", q.Destination)
	}
	if q.Origin == q.Destination {
		return WrapInvalidQuery("origin and destination must differ")
	}
	if !q.Cabin.IsValid() {
		return WrapInvalidQuery("cabin must be one of ECONOMY, PREMIUM_ECONOMY, BUSINESS, FIRST; got %q", q.Cabin)
	}
	if !q.TripType.IsValid() {
		return WrapInvalidQuery("trip_type must be one of ONE_WAY, ROUND_TRIP, MULTI_CITY; got %q", q.TripType)
	}
	if !currencyRegex.MatchString(q.Currency) {
		return WrapInvalidQuery("currency must be an ISO-4217 code, got %q", q.Currency)
	}
	if q.Passengers.Adults < 1 {
		return WrapInvalidQuery("adults must be at least 1")
	}
	if total := q.Passengers.Total(); total > 9 {
		return WrapInvalidQuery("total passengers must not exceed 9, got %d", total)
	}
	if q.Passengers.InfantsOnLap > q.Passengers.Adults {
		return WrapInvalidQuery("infants_on_lap (%d) must not exceed adults (%d)", q.Passengers.InfantsOnLap, q.Passengers.Adults)
	}
	if q.DepartureDate.Before(truncateToDate(now)) {
		return WrapInvalidQuery("departure_date must not be in the past")
	}
	if q.ReturnDate != nil && q.ReturnDate.Before(q.DepartureDate) {
		return WrapInvalidQuery("return_date must not be before departure_date")
	}
	return nil
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// QueryKey is the canonical serialization used to key the cache (§3). It
// deliberately excludes passenger counts: availability does not depend on
// how many seats are requested, only the final price multiplier does, so
// two queries that differ only in passenger count share one cache entry.
type QueryKey string

// Key derives the QueryKey for q.
func (q *Query) Key() QueryKey {
	ret := "none"
	if q.ReturnDate != nil {
		ret = q.ReturnDate.Format("2006-01-02")
	}
	return QueryKey(
		q.Origin + "|" +
			q.Destination + "|" +
			q.DepartureDate.Format("2006-01-02") + "|" +
			ret + "|" +
			string(q.Cabin) + "|" +
			string(q.TripType) + "|" +
			q.Currency,
	)
}
