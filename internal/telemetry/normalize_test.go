package telemetry_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/pvlog/fronius-collector/internal/fronius"
	"github.com/pvlog/fronius-collector/internal/telemetry"
)

var cycleTime = time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC)

// fullSnapshot mirrors a healthy GEN24 with battery and smart meter:
// producing 3.2 kW, battery charging at 800 W, importing 500 W.
func fullSnapshot() fronius.Snapshot {
	return fronius.Snapshot{
		PowerFlow: &fronius.PowerFlowData{
			Site: fronius.PowerFlowSite{
				PPV:         f(3200),
				PLoad:       f(-1400),
				PGrid:       f(500),
				PAkku:       f(-800),
				RelAutonomy: f(87.3),
			},
			Inverters: map[string]fronius.PowerFlowInverter{
				"1": {DT: 1, P: f(3200), SOC: f(76.444)},
			},
		},
		Meter: &fronius.MeterData{
			EnergySumProduced:   f(12000),
			EnergySumConsumed:   f(8000),
			EnergyMinusAbsolute: f(8000),
			EnergyPlusAbsolute:  f(12000),
		},
		Common: &fronius.CommonInverterData{
			PAC: &fronius.ValueUnit{Value: f(3200), Unit: "W"},
		},
	}
}

func wantField(t *testing.T, s telemetry.Sample, name string, value float64, unit string) {
	t.Helper()
	field, ok := s.Fields[name]
	if !ok || !field.Present() {
		t.Errorf("%s absent, want %v %s", name, value, unit)
		return
	}
	if *field.Value != value {
		t.Errorf("%s = %v, want %v", name, *field.Value, value)
	}
	if field.Unit != unit {
		t.Errorf("%s unit = %q, want %q", name, field.Unit, unit)
	}
}

func wantAbsent(t *testing.T, s telemetry.Sample, names ...string) {
	t.Helper()
	for _, name := range names {
		if _, ok := s.Fields[name]; ok {
			t.Errorf("%s present, want absent", name)
		}
	}
}

func TestNormalize_FullSnapshot(t *testing.T) {
	s := telemetry.Normalize(fullSnapshot(), cycleTime)

	wantField(t, s, telemetry.MetricSolarProducedCurrent, 3.20, "kW")
	wantField(t, s, telemetry.MetricConsumptionCurrent, 1.40, "kW")
	wantField(t, s, telemetry.MetricGridConsumptionCurrent, 0.50, "kW")
	wantField(t, s, telemetry.MetricGridFeedInCurrent, 0.00, "kW")
	wantField(t, s, telemetry.MetricBatteryCharging, 0.80, "kW")
	wantField(t, s, telemetry.MetricBatteryDischarging, 0.00, "kW")
	wantField(t, s, telemetry.MetricAutonomyPercentage, 87.30, "%")
	wantField(t, s, telemetry.MetricGridFeedInTotal, 12.00, "kWh")
	wantField(t, s, telemetry.MetricGridConsumptionTotal, 8.00, "kWh")
	wantField(t, s, telemetry.MetricConsumptionTotal, 8.00, "kWh")
	wantField(t, s, telemetry.MetricSolarProducedTotal, 12.00, "kWh")
	wantField(t, s, telemetry.MetricBatterySOC, 76.44, "%")

	if s.LoggedAt != cycleTime.Unix() {
		t.Errorf("LoggedAt = %d, want %d", s.LoggedAt, cycleTime.Unix())
	}
}

func TestNormalize_GridSignSplit(t *testing.T) {
	tests := []struct {
		name            string
		grid            float64
		wantConsumption float64
		wantFeedIn      float64
	}{
		{"importing", 2500, 2.50, 0.00},
		{"exporting", -1800, 0.00, 1.80},
		{"balanced", 0, 0.00, 0.00},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := fronius.Snapshot{
				PowerFlow: &fronius.PowerFlowData{
					Site: fronius.PowerFlowSite{PGrid: f(tt.grid)},
				},
			}
			s := telemetry.Normalize(snap, cycleTime)
			wantField(t, s, telemetry.MetricGridConsumptionCurrent, tt.wantConsumption, "kW")
			wantField(t, s, telemetry.MetricGridFeedInCurrent, tt.wantFeedIn, "kW")
		})
	}
}

func TestNormalize_BatterySignSplit(t *testing.T) {
	tests := []struct {
		name            string
		akku            float64
		wantCharging    float64
		wantDischarging float64
	}{
		{"charging", -800, 0.80, 0.00},
		{"discharging", 650, 0.00, 0.65},
		{"idle", 0, 0.00, 0.00},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := fronius.Snapshot{
				PowerFlow: &fronius.PowerFlowData{
					Site: fronius.PowerFlowSite{PAkku: f(tt.akku)},
				},
			}
			s := telemetry.Normalize(snap, cycleTime)
			wantField(t, s, telemetry.MetricBatteryCharging, tt.wantCharging, "kW")
			wantField(t, s, telemetry.MetricBatteryDischarging, tt.wantDischarging, "kW")
		})
	}
}

func TestNormalize_MeterAbsent(t *testing.T) {
	snap := fullSnapshot()
	snap.Meter = nil

	s := telemetry.Normalize(snap, cycleTime)

	// No zero-substitution: all four totals must be absent.
	wantAbsent(t, s,
		telemetry.MetricGridFeedInTotal,
		telemetry.MetricGridConsumptionTotal,
		telemetry.MetricConsumptionTotal,
		telemetry.MetricSolarProducedTotal,
	)
	// Power-flow metrics are unaffected by the meter failure.
	wantField(t, s, telemetry.MetricSolarProducedCurrent, 3.20, "kW")
}

func TestNormalize_PowerFlowAbsent(t *testing.T) {
	snap := fullSnapshot()
	snap.PowerFlow = nil

	s := telemetry.Normalize(snap, cycleTime)

	wantAbsent(t, s,
		telemetry.MetricSolarProducedCurrent,
		telemetry.MetricConsumptionCurrent,
		telemetry.MetricGridConsumptionCurrent,
		telemetry.MetricGridFeedInCurrent,
		telemetry.MetricBatteryCharging,
		telemetry.MetricBatteryDischarging,
		telemetry.MetricBatterySOC,
		telemetry.MetricAutonomyPercentage,
	)
	// Meter totals survive independently.
	wantField(t, s, telemetry.MetricGridFeedInTotal, 12.00, "kWh")
}

func TestNormalize_AllAbsent(t *testing.T) {
	s := telemetry.Normalize(fronius.Snapshot{}, cycleTime)

	if len(s.Fields) != 0 {
		t.Errorf("Fields = %v, want empty sample", s.Fields)
	}
	if s.LoggedAt != cycleTime.Unix() {
		t.Errorf("LoggedAt = %d, want %d", s.LoggedAt, cycleTime.Unix())
	}
}

func TestNormalize_SOCFirstInverterWins(t *testing.T) {
	snap := fronius.Snapshot{
		PowerFlow: &fronius.PowerFlowData{
			Inverters: map[string]fronius.PowerFlowInverter{
				"2": {SOC: f(55.0)},
				"1": {P: f(1000)}, // no SOC field
				"3": {SOC: f(99.0)},
			},
		},
	}

	s := telemetry.Normalize(snap, cycleTime)
	// Keys iterate in sorted order; "1" has no SOC, so "2" wins.
	wantField(t, s, telemetry.MetricBatterySOC, 55.00, "%")
}

func TestNormalize_IsPure(t *testing.T) {
	snap := fullSnapshot()
	first := telemetry.Normalize(snap, cycleTime)
	second := telemetry.Normalize(snap, cycleTime)

	if !reflect.DeepEqual(first.Fields, second.Fields) || first.LoggedAt != second.LoggedAt {
		t.Error("Normalize() is not deterministic for identical inputs")
	}
}

func TestNormalize_PartialSite(t *testing.T) {
	// Only PV present: every other site metric stays absent.
	snap := fronius.Snapshot{
		PowerFlow: &fronius.PowerFlowData{
			Site: fronius.PowerFlowSite{PPV: f(1500)},
		},
	}

	s := telemetry.Normalize(snap, cycleTime)
	wantField(t, s, telemetry.MetricSolarProducedCurrent, 1.50, "kW")
	wantAbsent(t, s,
		telemetry.MetricConsumptionCurrent,
		telemetry.MetricGridConsumptionCurrent,
		telemetry.MetricGridFeedInCurrent,
		telemetry.MetricBatteryCharging,
		telemetry.MetricBatteryDischarging,
		telemetry.MetricAutonomyPercentage,
	)
}
