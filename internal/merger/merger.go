// Package merger implements §4.5: group normalized Offers by
// fingerprint, union and currency-normalize their prices, resolve
// disagreements between sources reporting the same flight, and
// stable-sort the result by lowest price ascending.
//
// The grouping and stable-sort shape follows
// internal/usecase.ranking.go's SortFlights in the teacher, adapted
// from a flat flight list to Offer groups keyed by fingerprint.
package merger

import (
	"sort"
	"strconv"

	"github.com/flightcore/crawl/core"
	"github.com/flightcore/crawl/pkg/util"
)

// Merge groups offers sharing a fingerprint, converts every price into
// targetCurrency, and returns one merged Offer per group, stable-sorted
// by lowest price ascending (§4.5 rule 5). rates may be nil when every
// offer is already in targetCurrency.
func Merge(offers []*core.Offer, targetCurrency string, rates util.ExchangeRates) ([]*core.Offer, error) {
	groups := make(map[core.Fingerprint][]*core.Offer)
	order := make([]core.Fingerprint, 0)
	for _, o := range offers {
		if _, seen := groups[o.Fingerprint]; !seen {
			order = append(order, o.Fingerprint)
		}
		groups[o.Fingerprint] = append(groups[o.Fingerprint], o)
	}

	merged := make([]*core.Offer, 0, len(order))
	for _, fp := range order {
		m, err := mergeGroup(fp, groups[fp], targetCurrency, rates)
		if err != nil {
			return nil, err
		}
		merged = append(merged, m)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		pi, _ := merged[i].LowestPrice()
		pj, _ := merged[j].LowestPrice()
		if pi.Amount != pj.Amount {
			return pi.Amount < pj.Amount
		}
		return merged[i].Fingerprint < merged[j].Fingerprint
	})
	return merged, nil
}

// mergeGroup implements rules 2-4 for one fingerprint group: union
// prices (converted to a common currency), sort with the documented
// tie-break, and resolve segment disagreements by preferring the
// highest-trust contributing offer (rule 3).
func mergeGroup(fp core.Fingerprint, group []*core.Offer, targetCurrency string, rates util.ExchangeRates) (*core.Offer, error) {
	prices := make([]core.Price, 0)
	for _, o := range group {
		for _, p := range o.Prices {
			converted, err := convert(p, targetCurrency, rates)
			if err != nil {
				return nil, err
			}
			prices = append(prices, converted)
		}
	}

	sort.SliceStable(prices, func(i, j int) bool {
		if prices[i].Amount != prices[j].Amount {
			return prices[i].Amount < prices[j].Amount
		}
		if prices[i].TrustScore != prices[j].TrustScore {
			return prices[i].TrustScore > prices[j].TrustScore
		}
		return prices[i].FetchedAt.Before(prices[j].FetchedAt)
	})

	return &core.Offer{
		Fingerprint: fp,
		Segments:    highestTrustSegments(group),
		Prices:      prices,
	}, nil
}

// convert re-expresses p.Amount in targetCurrency via exact decimal
// arithmetic (§4.2 invariant 1), leaving every other Price field
// untouched.
func convert(p core.Price, targetCurrency string, rates util.ExchangeRates) (core.Price, error) {
	if p.Currency == targetCurrency {
		return p, nil
	}
	amountStr := strconv.FormatFloat(p.Amount, 'f', -1, 64)
	converted, err := util.ConvertExact(amountStr, p.Currency, targetCurrency, rates)
	if err != nil {
		return core.Price{}, err
	}
	p.Amount = util.AmountToFloat(converted)
	p.Currency = targetCurrency
	return p, nil
}

// highestTrustSegments picks the segment slate from the group's most
// trustworthy offer, per rule 3: "merge them, preferring the
// higher-trust source for non-price attributes".
func highestTrustSegments(group []*core.Offer) []core.Segment {
	best := group[0]
	bestTrust := maxTrust(best)
	for _, o := range group[1:] {
		if t := maxTrust(o); t > bestTrust {
			best, bestTrust = o, t
		}
	}
	return best.Segments
}

func maxTrust(o *core.Offer) int {
	max := 0
	for _, p := range o.Prices {
		if p.TrustScore > max {
			max = p.TrustScore
		}
	}
	return max
}
