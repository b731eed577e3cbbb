package pricing

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sunilfabrications/backend/pkg/enums"
	"github.com/sunilfabrications/backend/pkg/types"
)

// Rate is the effective pricing for one category.
type Rate struct {
	Base      decimal.Decimal
	Overrides types.StyleOverrides
}

// RateCard maps categories to their configured rates.
type RateCard map[enums.ItemCategory]Rate

// MeasurementInput is one opening to estimate. Width and height stay raw
// text: surveyors type them on-site and bad values must never block a quote.
// The estimate multiplies the numbers as entered; the measurement unit is a
// recording concern and lives with the stored order, not here.
type MeasurementInput struct {
	Label    string
	Width    string
	Height   string
	Qty      int
	Category enums.ItemCategory
	Style    string
}

// VentilatorInput is a fixed-price accessory line.
type VentilatorInput struct {
	Label     string
	Qty       int
	UnitPrice string
}

// EstimateInput bundles everything the estimator needs.
type EstimateInput struct {
	Measurements []MeasurementInput
	Ventilators  []VentilatorInput
}

// MeasurementLine is the per-measurement estimate breakdown.
type MeasurementLine struct {
	Label     string
	Area      decimal.Decimal
	Qty       int
	Rate      decimal.Decimal
	LineTotal decimal.Decimal
}

// VentilatorLine is the per-ventilator estimate breakdown.
type VentilatorLine struct {
	Label     string
	Qty       int
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

// Estimate is the itemised result of a quote computation.
type Estimate struct {
	Measurements []MeasurementLine
	Ventilators  []VentilatorLine
	Total        decimal.Decimal
}

// ComputeEstimate prices the input against the rate card. It performs no I/O
// and never fails: unparseable numbers contribute zero, unknown categories
// and styles fall back to the default rate.
func ComputeEstimate(input EstimateInput, rates RateCard, defaultRate decimal.Decimal) Estimate {
	result := Estimate{
		Measurements: make([]MeasurementLine, 0, len(input.Measurements)),
		Ventilators:  make([]VentilatorLine, 0, len(input.Ventilators)),
	}

	for _, m := range input.Measurements {
		rate := resolveRate(rates, m.Category, m.Style, defaultRate)
		width := ParseNonNegativeDecimal(m.Width)
		height := ParseNonNegativeDecimal(m.Height)
		qty := m.Qty
		if qty < 0 {
			qty = 0
		}
		area := width.Mul(height)
		line := area.Mul(decimal.NewFromInt(int64(qty))).Mul(rate)
		result.Measurements = append(result.Measurements, MeasurementLine{
			Label:     m.Label,
			Area:      area,
			Qty:       qty,
			Rate:      rate,
			LineTotal: line,
		})
		result.Total = result.Total.Add(line)
	}

	for _, v := range input.Ventilators {
		unitPrice := ParseNonNegativeDecimal(v.UnitPrice)
		qty := v.Qty
		if qty < 0 {
			qty = 0
		}
		line := unitPrice.Mul(decimal.NewFromInt(int64(qty)))
		result.Ventilators = append(result.Ventilators, VentilatorLine{
			Label:     v.Label,
			Qty:       qty,
			UnitPrice: unitPrice,
			LineTotal: line,
		})
		result.Total = result.Total.Add(line)
	}

	return result
}

func resolveRate(rates RateCard, category enums.ItemCategory, style string, defaultRate decimal.Decimal) decimal.Decimal {
	rate, ok := rates[category]
	if !ok {
		return defaultRate
	}
	base := rate.Base
	if base.LessThanOrEqual(decimal.Zero) {
		base = defaultRate
	}
	return rate.Overrides.RateFor(style, base)
}

// ParseNonNegativeDecimal interprets free-form numeric text. Anything that is
// not a plain non-negative number becomes zero, silently: field inputs are
// messy and estimation must keep going.
func ParseNonNegativeDecimal(raw string) decimal.Decimal {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return decimal.Zero
	}
	parsed, err := decimal.NewFromString(trimmed)
	if err != nil || parsed.IsNegative() {
		return decimal.Zero
	}
	return parsed
}

// ParseNonNegativeInt applies the same permissive rules to whole-number text
// such as the surveyor's on-the-spot quote.
func ParseNonNegativeInt(raw string) int64 {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0
	}
	parsed, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil || parsed < 0 {
		return 0
	}
	return parsed
}
