package telemetry_test

import (
	"testing"

	"github.com/pvlog/fronius-collector/internal/telemetry"
)

func f(v float64) *float64 { return &v }

func TestKilowattsFromWatts(t *testing.T) {
	tests := []struct {
		name string
		in   *float64
		want *float64
	}{
		{"nil", nil, nil},
		{"zero", f(0), f(0)},
		{"exact", f(3200), f(3.2)},
		{"rounds down", f(1234), f(1.23)},
		{"rounds half up", f(1235), f(1.24)},
		{"negative", f(-1800), f(-1.8)},
		{"small", f(4), f(0)},
		{"sub-cent rounds", f(5), f(0.01)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := telemetry.KilowattsFromWatts(tt.in)
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("KilowattsFromWatts(%v) = %v, want nil", *tt.in, *got)
			case tt.want != nil && got == nil:
				t.Errorf("KilowattsFromWatts(%v) = nil, want %v", *tt.in, *tt.want)
			case tt.want != nil && *got != *tt.want:
				t.Errorf("KilowattsFromWatts(%v) = %v, want %v", *tt.in, *got, *tt.want)
			}
		})
	}
}

func TestKilowattHoursFromWattHours(t *testing.T) {
	if got := telemetry.KilowattHoursFromWattHours(nil); got != nil {
		t.Errorf("KilowattHoursFromWattHours(nil) = %v, want nil", *got)
	}
	if got := telemetry.KilowattHoursFromWattHours(f(12000)); got == nil || *got != 12.0 {
		t.Errorf("KilowattHoursFromWattHours(12000) = %v, want 12.00", got)
	}
	if got := telemetry.KilowattHoursFromWattHours(f(8765.4)); got == nil || *got != 8.77 {
		t.Errorf("KilowattHoursFromWattHours(8765.4) = %v, want 8.77", got)
	}
}

func TestSplitBySign(t *testing.T) {
	tests := []struct {
		name         string
		watts        float64
		wantPositive float64
		wantNegative float64
	}{
		{"import", 2500, 2.50, 0},
		{"feed-in", -1800, 0, 1.80},
		{"zero", 0, 0, 0},
		{"small import", 4, 0, 0},
		{"rounding", -1234.5, 0, 1.23},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, neg := telemetry.SplitBySign(tt.watts)
			if pos != tt.wantPositive || neg != tt.wantNegative {
				t.Errorf("SplitBySign(%v) = (%v, %v), want (%v, %v)",
					tt.watts, pos, neg, tt.wantPositive, tt.wantNegative)
			}
			// Invariant: at most one side non-zero.
			if pos != 0 && neg != 0 {
				t.Errorf("SplitBySign(%v): both sides non-zero", tt.watts)
			}
		})
	}
}
