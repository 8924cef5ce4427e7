package router

import "github.com/flightcore/crawl/core"

// CoverageTable is the static route-coverage asset of §4.3: for a given
// origin/destination region pair and cabin, it names the carriers a
// caller should expect to find, and which adapters serve those
// carriers directly. It is hand-maintained; there is no automatic
// rebuild from observed search_mix history yet (Open Question
// decision #3 — a follow-up offline job to correlate source_mix
// history against real route coverage is still unscheduled).
type CoverageTable struct {
	routes       map[routeKey][]string // route -> expected carrier codes
	directSource map[string][]string   // adapter source ID -> carriers it serves directly
}

type routeKey struct {
	originRegion string
	destRegion   string
	cabin        core.Cabin
}

// NewCoverageTable builds the table from explicit route and
// direct-coverage entries, so callers (tests, alternate deployments)
// can supply their own without editing this file.
func NewCoverageTable(routes map[routeKey][]string, directSource map[string][]string) *CoverageTable {
	return &CoverageTable{routes: routes, directSource: directSource}
}

// DefaultCoverageTable is the production table: Indonesian-market
// regional routes where a carrier-direct adapter exists, matched
// against the adapters configured in internal/config.DefaultAdapters.
func DefaultCoverageTable() *CoverageTable {
	routes := map[routeKey][]string{
		{originRegion: "ID", destRegion: "SEA", cabin: core.CabinEconomy}:        {"IN", "GA"},
		{originRegion: "ID", destRegion: "SEA", cabin: core.CabinPremiumEconomy}: {"IN", "GA"},
		{originRegion: "SEA", destRegion: "ID", cabin: core.CabinEconomy}:        {"IN", "GA"},
		{originRegion: "ID", destRegion: "ID", cabin: core.CabinEconomy}:         {"IN", "GA", "QG"},
		{originRegion: "ID", destRegion: "NE_ASIA", cabin: core.CabinBusiness}:   {"GA", "SQ"},
		{originRegion: "ID", destRegion: "EU", cabin: core.CabinBusiness}:        {"GA", "SQ"},
	}
	directSource := map[string][]string{
		"nusantara-air-direct": {"IN"},
		"carrierhub-official":  {"GA", "SQ"},
	}
	return NewCoverageTable(routes, directSource)
}

// ForcedPrimary returns the set of source IDs that the coverage table
// forces into the primary tier for q (rule 3), because they serve a
// carrier the route is expected to carry.
func (t *CoverageTable) ForcedPrimary(q core.Query) map[string]bool {
	forced := map[string]bool{}
	if t == nil {
		return forced
	}

	key := routeKey{
		originRegion: regionOf(q.Origin),
		destRegion:   regionOf(q.Destination),
		cabin:        q.Cabin,
	}
	expected, ok := t.routes[key]
	if !ok {
		return forced
	}

	for sourceID, carriers := range t.directSource {
		for _, served := range carriers {
			if containsCarrier(expected, served) {
				forced[sourceID] = true
				break
			}
		}
	}
	return forced
}

func containsCarrier(carriers []string, target string) bool {
	for _, c := range carriers {
		if c == target {
			return true
		}
	}
	return false
}

// regionOf buckets an airport's IATA code into a coarse region. This
// mirrors the level of precision the coverage table actually needs —
// it is not a substitute for internal/normalize's timezone resolution.
func regionOf(airport string) string {
	switch airport {
	case "CGK", "DPS", "SUB", "MES", "KNO", "UPG":
		return "ID"
	case "SIN", "KUL", "BKK", "MNL", "SGN", "HAN":
		return "SEA"
	case "NRT", "HND", "ICN", "PVG", "PEK", "HKG", "TPE":
		return "NE_ASIA"
	case "LHR", "CDG", "FRA", "AMS", "MUC":
		return "EU"
	case "JFK", "LAX", "SFO", "ORD":
		return "NA"
	default:
		return "OTHER"
	}
}
