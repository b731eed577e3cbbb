package types

import "github.com/shopspring/decimal"

// StyleOverrides maps a style label ("2 Track", "3 Track") to the rate that
// replaces the base rate for that style. A zero or missing override falls
// back to the base rate.
type StyleOverrides map[string]decimal.Decimal

// RateFor resolves the effective rate for a style against the base rate.
func (s StyleOverrides) RateFor(style string, base decimal.Decimal) decimal.Decimal {
	if s == nil || style == "" {
		return base
	}
	override, ok := s[style]
	if !ok || override.LessThanOrEqual(decimal.Zero) {
		return base
	}
	return override
}
