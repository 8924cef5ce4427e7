// Package util provides utility functions for working with timezones and time operations.
// It includes caching mechanisms for improved performance when working with multiple timezone conversions.
package util

import (
	"fmt"
	"sync"
	"time"
)

// locationCache is a thread-safe cache for storing loaded time.Location objects.
// This prevents repeated calls to time.LoadLocation which can be expensive.
var locationCache sync.Map

// Common timezone constants used in the flight crawling system.
// These represent the IANA Time Zone Database names for various regions.
const (
	UTC = "UTC"

	// Indonesian time zones
	WIB  = "Asia/Jakarta"  // Western Indonesia Time (UTC+7)
	WITA = "Asia/Makassar" // Central Indonesia Time (UTC+8)
	WIT  = "Asia/Jayapura" // Eastern Indonesia Time (UTC+9)

	// Other Asian time zones
	SGT = "Asia/Singapore" // Singapore Time (UTC+8)
	JST = "Asia/Tokyo"     // Japan Standard Time (UTC+9)
	HKT = "Asia/Hong_Kong"
	ICT = "Asia/Bangkok"
	KST = "Asia/Seoul"
	IST = "Asia/Kolkata"
	GST = "Asia/Dubai"

	// Europe / Americas / Oceania, for the §4.2 "timezone resolution
	// via airport timezone table" requirement beyond Indonesia only.
	GMT  = "Europe/London"
	CET  = "Europe/Paris"
	EST  = "America/New_York"
	CST  = "America/Chicago"
	PST  = "America/Los_Angeles"
	AEST = "Australia/Sydney"
)

func GetLocation(name string) (*time.Location, error) {
	if loc, ok := locationCache.Load(name); ok {
		return loc.(*time.Location), nil
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", name, err)
	}

	locationCache.Store(name, loc)
	return loc, nil
}

func ParseInTimezone(layout, value, timezone string) (time.Time, error) {
	loc, err := GetLocation(timezone)
	if err != nil {
		return time.Time{}, err
	}
	return time.ParseInLocation(layout, value, loc)
}

// airportTimezones maps IATA airport codes to their IANA timezone, the
// "airport timezone table" the Normalizer resolves departure/arrival
// wall-clock times against before converting to UTC (§4.2).
var airportTimezones = map[string]string{
	// Indonesia
	"CGK": WIB, "SUB": WIB, "BDO": WIB, "KNO": WIB, "SRG": WIB, "JOG": WIB, "PLM": WIB, "PKU": WIB, "BTH": WIB, "PNK": WIB,
	"DPS": WITA, "UPG": WITA, "BPN": WITA, "MDC": WITA, "PLW": WITA, "KDI": WITA, "LOP": WITA, "BDJ": WITA,
	"DJJ": WIT, "AMQ": WIT, "TIM": WIT, "MKQ": WIT, "SOQ": WIT, "BIK": WIT,

	// Regional Asia-Pacific
	"SIN": SGT, "KUL": "Asia/Kuala_Lumpur", "BKK": ICT, "DMK": ICT, "MNL": "Asia/Manila",
	"HKG": HKT, "NRT": JST, "HND": JST, "KIX": JST, "ICN": KST, "GMP": KST,
	"DEL": IST, "BOM": IST, "BLR": IST, "DXB": GST, "AUH": GST,
	"SYD": AEST, "MEL": AEST, "BNE": AEST, "AKL": "Pacific/Auckland",

	// Europe
	"LHR": GMT, "LGW": GMT, "CDG": CET, "FRA": CET, "AMS": CET, "MAD": CET, "FCO": CET, "ZRH": CET,

	// Americas
	"JFK": EST, "EWR": EST, "MIA": EST, "ORD": CST, "DFW": CST, "DEN": "America/Denver", "LAX": PST, "SFO": PST, "SEA": PST,
	"GRU": "America/Sao_Paulo", "YYZ": EST,
}

// GetTimezoneByAirport returns the IANA timezone for an airport code.
// Falls back to WIB for unrecognized codes so a new source's unfamiliar
// airport doesn't produce a zero-value location; callers relying on
// exact precision for a new region should add it to airportTimezones.
func GetTimezoneByAirport(airportCode string) string {
	if tz, ok := airportTimezones[airportCode]; ok {
		return tz
	}
	return WIB
}
