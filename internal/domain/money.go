package domain

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// ParsePrice parses a decimal price string into int64 cents. The string
// must be a non-negative number with at most 2 decimal places. Parsing
// goes through decimal rather than float64 so large catalog prices
// (e.g. "1000000.00") convert exactly.
func ParsePrice(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q: %w", s, err)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("price must not be negative: %q", s)
	}
	cents := d.Mul(decimal.NewFromInt(100))
	if !cents.IsInteger() {
		return 0, fmt.Errorf("price must have at most 2 decimal places: %q", s)
	}
	return cents.IntPart(), nil
}

// DollarsToCents converts a float64 dollar amount to int64 cents.
// It validates that the input has at most 2 decimal places and returns
// an error if more precision is provided. Uses math.Round after
// multiplying by 100 to handle floating-point representation issues.
func DollarsToCents(f float64) (int64, error) {
	// Multiply by 1000 to check for a third decimal place.
	// Round to avoid floating-point artifacts (e.g., 1.10 * 1000 = 1099.9999...).
	scaled := math.Round(f * 1000)
	if math.Mod(scaled, 10) != 0 {
		return 0, fmt.Errorf("monetary values must have at most 2 decimal places")
	}

	cents := math.Round(f * 100)
	return int64(cents), nil
}

// CentsToDollars converts an int64 cents value to a float64 dollar amount.
func CentsToDollars(c int64) float64 {
	return float64(c) / 100.0
}
