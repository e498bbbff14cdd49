package telemetry

// Metric names form a fixed, closed schema. The sink writes these as field
// keys and derives the companion unit tag name by appending "_unit".
const (
	MetricSolarProducedCurrent    = "Solar_Produced_Current"
	MetricConsumptionCurrent      = "Consumption_Current"
	MetricGridConsumptionCurrent  = "Grid_Consumption_Current"
	MetricGridFeedInCurrent       = "Grid_FeedIn_Current"
	MetricGridFeedInTotal         = "Grid_FeedIn_Total"
	MetricGridConsumptionTotal    = "Grid_Consumption_Total"
	MetricConsumptionTotal        = "Consumption_Total"
	MetricSolarProducedTotal      = "Solar_Produced_Total"
	MetricBatterySOC              = "Battery_SOC"
	MetricBatteryCharging         = "Battery_Charging"
	MetricBatteryDischarging      = "Battery_Discharging"
	MetricAutonomyPercentage      = "Autonomy_Percentage"
	MetricLoggedAt                = "Logged_At"
)

// Field is one normalized metric: an optional numeric value with its unit.
//
// Value is a pointer so absence stays distinguishable from zero — a sign-split
// yields a legitimate 0.00 on one side, while a failed meter fetch yields no
// value at all. Absent fields are never written to the sink.
type Field struct {
	Value *float64
	Unit  string
}

// Present reports whether the field carries a value.
func (f Field) Present() bool {
	return f.Value != nil
}

// Sample is the normalized outcome of one collector cycle.
//
// Fields holds the present power/energy metrics keyed by metric name.
// LoggedAt is the cycle's Unix timestamp in seconds; it is always present and
// is written as the integer Logged_At field.
type Sample struct {
	Fields   map[string]Field
	LoggedAt int64
}

// FieldValue returns the value of the named field, or nil when absent.
// Convenience for tests and the verbose summary.
func (s Sample) FieldValue(name string) *float64 {
	return s.Fields[name].Value
}

// put records a field only when the value is present.
func (s Sample) put(name string, value *float64, unit string) {
	if value == nil {
		return
	}
	s.Fields[name] = Field{Value: value, Unit: unit}
}
