package util

import (
	"fmt"
	"math"
	"strings"

	"github.com/bojanz/currency"
)

// FormatIDR formats a float64 amount to Indonesian Rupiah (IDR) format.
//
// The function follows Indonesian currency conventions:
//   - Prefix: "Rp " (with space)
//   - Thousand separator: dot (.)
//   - No decimal places
//
// Examples:
//   - 0 → "Rp 0"
//   - 1500000 → "Rp 1.500.000"
func FormatIDR(amount float64) string {
	intAmount := int64(math.Round(amount))

	if intAmount == 0 {
		return "Rp 0"
	}

	str := fmt.Sprintf("%d", intAmount)

	var result strings.Builder
	length := len(str)
	for i, char := range str {
		if i > 0 && (length-i)%3 == 0 {
			result.WriteString(".")
		}
		result.WriteRune(char)
	}

	return "Rp " + result.String()
}

// ExchangeRates is a daily-stamped rate table: source currency -> store
// currency -> rate, per §4.2's "currency conversion to canonical
// store-currency at a stamped daily rate".
type ExchangeRates map[string]map[string]string

// ConvertExact converts amount (in fromCurrency) into toCurrency using
// bojanz/currency's exact decimal arithmetic, avoiding the float
// rounding drift that would otherwise creep into merged, re-sorted
// prices across many sources.
func ConvertExact(amountStr, fromCurrency, toCurrency string, rates ExchangeRates) (currency.Amount, error) {
	amount, err := currency.NewAmount(amountStr, fromCurrency)
	if err != nil {
		return currency.Amount{}, fmt.Errorf("parse amount %q %s: %w", amountStr, fromCurrency, err)
	}
	if fromCurrency == toCurrency {
		return amount, nil
	}

	byTarget, ok := rates[fromCurrency]
	if !ok {
		return currency.Amount{}, fmt.Errorf("no exchange rate table for source currency %s", fromCurrency)
	}
	rateStr, ok := byTarget[toCurrency]
	if !ok {
		return currency.Amount{}, fmt.Errorf("no exchange rate %s->%s", fromCurrency, toCurrency)
	}

	converted, err := amount.Convert(toCurrency, rateStr)
	if err != nil {
		return currency.Amount{}, fmt.Errorf("convert %s->%s: %w", fromCurrency, toCurrency, err)
	}
	return converted.Round(), nil
}

// AmountToFloat extracts the float64 view of an exact currency.Amount for
// callers (ranking, sorting) that only need a comparable magnitude, not
// exact decimal semantics.
func AmountToFloat(a currency.Amount) float64 {
	f, _ := a.Float64()
	return f
}
