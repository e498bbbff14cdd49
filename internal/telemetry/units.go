package telemetry

import "math"

// Unit strings attached to metric fields and their companion tags.
const (
	UnitKilowatt     = "kW"
	UnitKilowattHour = "kWh"
	UnitPercent      = "%"
	UnitSeconds      = "s"
)

// Round2 rounds to 2 decimal places, halves away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// KilowattsFromWatts converts a watt reading to kilowatts with 2-decimal
// rounding. Nil in, nil out.
func KilowattsFromWatts(w *float64) *float64 {
	if w == nil {
		return nil
	}
	kw := Round2(*w / 1000.0)
	return &kw
}

// KilowattHoursFromWattHours converts a watt-hour counter to kilowatt-hours
// with 2-decimal rounding. Nil in, nil out.
func KilowattHoursFromWattHours(wh *float64) *float64 {
	if wh == nil {
		return nil
	}
	kwh := Round2(*wh / 1000.0)
	return &kwh
}

// SplitBySign splits a signed watt reading into a (positive-side,
// negative-side) pair of kilowatt magnitudes. Exactly one side is non-zero
// for a non-zero input; both are zero for zero.
//
// Callers assign meaning to the sides: for grid power the positive side is
// import and the negative side is feed-in; for battery power the positive
// side is discharging and the negative side is charging.
func SplitBySign(watts float64) (positive, negative float64) {
	if watts >= 0 {
		return Round2(watts / 1000.0), 0
	}
	return 0, Round2(-watts / 1000.0)
}
