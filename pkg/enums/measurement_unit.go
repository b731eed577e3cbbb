package enums

import "fmt"

// MeasurementUnit is the unit a site measurement was taken in.
//
// Values keep the casing the field teams write on measurement sheets.
type MeasurementUnit string

const (
	MeasurementUnitInches MeasurementUnit = "Inches"
	MeasurementUnitCM     MeasurementUnit = "cm"
	MeasurementUnitFeet   MeasurementUnit = "Feet"
)

var validMeasurementUnits = []MeasurementUnit{
	MeasurementUnitInches,
	MeasurementUnitCM,
	MeasurementUnitFeet,
}

// String implements fmt.Stringer.
func (m MeasurementUnit) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MeasurementUnit.
func (m MeasurementUnit) IsValid() bool {
	for _, candidate := range validMeasurementUnits {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMeasurementUnit converts raw input into a MeasurementUnit.
func ParseMeasurementUnit(value string) (MeasurementUnit, error) {
	for _, candidate := range validMeasurementUnits {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid measurement unit %q", value)
}
