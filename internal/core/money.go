// Package core provides the budget domain types and money helpers.
//
// Prices and totals are decimal values rounded to two places, half away
// from zero. They are persisted as plain JSON numbers.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

func init() {
	// The persisted file stores amounts as numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// RoundPrice rounds a unit price to cents.
func RoundPrice(p decimal.Decimal) decimal.Decimal {
	return p.Round(2)
}

// LineTotal returns round(quantity * round(price, 2), 2).
func LineTotal(quantity int, price decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(int64(quantity)).Mul(RoundPrice(price)).Round(2)
}

// ParsePrice converts user input to a decimal price.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators.
// Negative values are rejected; rounding is left to the ledger.
func ParsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidPrice
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidPrice
	}
	if d.IsNegative() {
		return decimal.Zero, ErrNegativePrice
	}
	return d, nil
}

// FormatAmount renders an amount with exactly two decimals.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
