package collector

import (
	"fmt"
	"strings"
	"time"

	"github.com/pvlog/fronius-collector/internal/telemetry"
)

// ANSI colours for the verbose summary line.
const (
	sumReset   = "\033[0m"
	sumRed     = "\033[31m"
	sumGreen   = "\033[32m"
	sumYellow  = "\033[33m"
	sumBlue    = "\033[34m"
	sumMagenta = "\033[35m"
	sumCyan    = "\033[36m"
)

// summaryTimestamp matches the log line timestamp format.
const summaryTimestamp = "2006-01-02/15:04:05"

// formatSummary renders the one-line human dashboard printed in verbose mode:
//
//	[2026-08-27/10:00:00] Solar=3.20 | Load=1.40 | Grid+0.00/-0.50kW | SOC=76.44% | ...
//
// Grid and battery show both directions as +feed/-draw pairs, coloured green
// and red when active. Absent values render as a dash.
func formatSummary(sample telemetry.Sample, now time.Time, color bool) string {
	paint := func(text, c string) string {
		if !color {
			return text
		}
		return c + text + sumReset
	}

	val := func(name string) string {
		v := sample.FieldValue(name)
		if v == nil {
			return "—"
		}
		return fmt.Sprintf("%.2f", *v)
	}

	num := func(name string) float64 {
		if v := sample.FieldValue(name); v != nil {
			return *v
		}
		return 0
	}

	// flow renders a +in/-out pair, colouring whichever side is active.
	flow := func(in, out float64) string {
		plus := paint("+0.00", sumReset)
		if in > 0 {
			plus = paint(fmt.Sprintf("+%.2f", in), sumGreen)
		}
		minus := paint("-0.00", sumReset)
		if out > 0 {
			minus = paint(fmt.Sprintf("-%.2f", out), sumRed)
		}
		return plus + "/" + minus
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] ", now.Format(summaryTimestamp))
	fmt.Fprintf(&b, "Solar=%s | ", paint(val(telemetry.MetricSolarProducedCurrent), sumYellow))
	fmt.Fprintf(&b, "Load=%s | ", paint(val(telemetry.MetricConsumptionCurrent), sumMagenta))
	fmt.Fprintf(&b, "Grid%skW | ", flow(num(telemetry.MetricGridFeedInCurrent), num(telemetry.MetricGridConsumptionCurrent)))
	fmt.Fprintf(&b, "SOC=%s%% | ", paint(val(telemetry.MetricBatterySOC), sumCyan))
	fmt.Fprintf(&b, "Batt%skW | ", flow(num(telemetry.MetricBatteryCharging), num(telemetry.MetricBatteryDischarging)))
	fmt.Fprintf(&b, "Auto=%s%% | ", paint(val(telemetry.MetricAutonomyPercentage), sumBlue))
	fmt.Fprintf(&b, "ConsTot=%skWh | ", paint(val(telemetry.MetricConsumptionTotal), sumYellow))
	fmt.Fprintf(&b, "GridConsTot=%skWh | ", paint(val(telemetry.MetricGridConsumptionTotal), sumRed))
	fmt.Fprintf(&b, "GridFeedTot=%skWh", paint(val(telemetry.MetricGridFeedInTotal), sumGreen))

	return b.String()
}
