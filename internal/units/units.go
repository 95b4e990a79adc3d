// Package units provides the playback step units and their durations.
package units

import (
	"fmt"
	"strings"
	"time"
)

// StepUnit is the granularity by which time-indexed playback advances per tick.
type StepUnit string

// Step unit constants
const (
	Hour  StepUnit = "hour"
	Day   StepUnit = "day"
	Month StepUnit = "month"
)

// DaysPerMonth is the fixed month length used for stepping.
const DaysPerMonth = 30

// ValidUnits lists the step units in cycle order.
var ValidUnits = []StepUnit{Hour, Day, Month}

// IsValid checks if the given unit is one of ValidUnits
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if StepUnit(unit) == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated list of units for error messages
func GetValidUnitsString() string {
	names := make([]string, len(ValidUnits))
	for i, u := range ValidUnits {
		names[i] = string(u)
	}
	return strings.Join(names, ", ")
}

// Parse converts a unit name to a StepUnit.
func Parse(unit string) (StepUnit, error) {
	if !IsValid(unit) {
		return "", fmt.Errorf("invalid step unit %q (valid: %s)", unit, GetValidUnitsString())
	}
	return StepUnit(unit), nil
}

// Step returns the playback advance for one tick: speed hours, speed days,
// or speed*30 days. Unknown units step by hours.
func Step(unit StepUnit, speed float64) time.Duration {
	switch unit {
	case Day:
		return time.Duration(speed * float64(24*time.Hour))
	case Month:
		return time.Duration(speed * DaysPerMonth * float64(24*time.Hour))
	default:
		return time.Duration(speed * float64(time.Hour))
	}
}

// Next returns the unit following u in ValidUnits, wrapping around.
func Next(u StepUnit) StepUnit {
	for i, v := range ValidUnits {
		if v == u {
			return ValidUnits[(i+1)%len(ValidUnits)]
		}
	}
	return ValidUnits[0]
}

// Title returns the unit name for button labels, e.g. "Hour".
func (u StepUnit) Title() string {
	if u == "" {
		return ""
	}
	return strings.ToUpper(string(u[:1])) + string(u[1:])
}
