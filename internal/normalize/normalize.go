// Package normalize hosts the pure (RawOffer, source_metadata) -> Offer
// conversion of §4.2, plus the shared helpers every per-source
// normalizer leans on: cabin-class mapping, carrier disambiguation, and
// the dispatch registry the Executor uses to route a RawOffer to its
// source's normalizer without a type switch.
package normalize

import (
	"fmt"

	"github.com/flightcore/crawl/core"
	"github.com/flightcore/crawl/pkg/util"
)

// Func converts one adapter's raw payload into a canonical Offer. It
// must be deterministic and side-effect-free (§4.2) so merged output is
// reproducible given the same inputs.
type Func func(raw *core.RawOffer) (*core.Offer, error)

// Registry dispatches a RawOffer to its source's Func by SourceID.
type Registry struct {
	funcs map[string]Func
}

// NewRegistry builds an empty Registry; callers populate it with
// Register during startup wiring.
func NewRegistry() *Registry {
	return &Registry{funcs: make(map[string]Func)}
}

// Register associates sourceID with its normalizer function.
func (r *Registry) Register(sourceID string, fn Func) {
	r.funcs[sourceID] = fn
}

// Normalize dispatches raw to its source's registered Func.
func (r *Registry) Normalize(raw *core.RawOffer) (*core.Offer, error) {
	fn, ok := r.funcs[raw.SourceID]
	if !ok {
		return nil, core.NewUnusableParseError(raw.SourceID, "source", fmt.Errorf("no normalizer registered"))
	}
	return fn(raw)
}

// cabinAliases maps the many wire-level spellings of a cabin to the
// canonical core.Cabin enumeration (§4.2 "cabin-class string mapping").
var cabinAliases = map[string]core.Cabin{
	"Y": core.CabinEconomy, "ECONOMY": core.CabinEconomy, "ECO": core.CabinEconomy, "M": core.CabinEconomy,
	"W": core.CabinPremiumEconomy, "PREMIUMECONOMY": core.CabinPremiumEconomy, "PE": core.CabinPremiumEconomy,
	"C": core.CabinBusiness, "J": core.CabinBusiness, "BUSINESS": core.CabinBusiness, "BIZ": core.CabinBusiness,
	"F": core.CabinFirst, "FIRST": core.CabinFirst, "A": core.CabinFirst,
}

// MapCabin resolves a raw wire-level cabin code to the canonical Cabin,
// defaulting to ECONOMY for unrecognized codes rather than rejecting
// the whole offer over a cosmetic label mismatch.
func MapCabin(raw string) core.Cabin {
	if c, ok := cabinAliases[normalizeCode(raw)]; ok {
		return c
	}
	return core.CabinEconomy
}

// ResolveOperatingCarrier implements the §4.2 missing-field policy:
// "missing operating carrier -> fall back to marketing carrier, flag in
// provenance." flagged reports whether the fallback was applied.
func ResolveOperatingCarrier(marketing, operating string) (resolved string, flagged bool) {
	if operating == "" {
		return marketing, true
	}
	return operating, false
}

// AirportTimezone resolves an airport code to its IANA timezone via the
// shared table (§4.2 "time-zone resolution via airport timezone
// table").
func AirportTimezone(airportCode string) string {
	return util.GetTimezoneByAirport(airportCode)
}

func normalizeCode(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		if c != ' ' && c != '_' && c != '-' {
			out = append(out, c)
		}
	}
	return string(out)
}
