package telemetry

import (
	"math"
	"sort"
	"time"

	"github.com/pvlog/fronius-collector/internal/fronius"
)

// Normalize maps one cycle's raw snapshot to the metric schema.
//
// Each metric is computed independently: a missing document or missing source
// field makes only the metrics derived from it absent, never the whole sample.
// The returned sample always carries LoggedAt.
func Normalize(snap fronius.Snapshot, now time.Time) Sample {
	s := Sample{
		Fields:   make(map[string]Field),
		LoggedAt: now.Unix(),
	}

	if snap.PowerFlow != nil {
		normalizeSite(s, snap.PowerFlow.Site)
		normalizeBatterySOC(s, snap.PowerFlow.Inverters)
	}
	if snap.Meter != nil {
		normalizeMeter(s, snap.Meter)
	}

	return s
}

// normalizeSite derives the instantaneous power metrics from the site block.
func normalizeSite(s Sample, site fronius.PowerFlowSite) {
	s.put(MetricSolarProducedCurrent, KilowattsFromWatts(site.PPV), UnitKilowatt)

	if site.PLoad != nil {
		load := math.Abs(*site.PLoad)
		s.put(MetricConsumptionCurrent, KilowattsFromWatts(&load), UnitKilowatt)
	}

	// Positive grid power is import from the grid.
	if site.PGrid != nil {
		consumption, feedIn := SplitBySign(*site.PGrid)
		s.put(MetricGridConsumptionCurrent, &consumption, UnitKilowatt)
		s.put(MetricGridFeedInCurrent, &feedIn, UnitKilowatt)
	}

	// Positive battery power is discharging into the site.
	if site.PAkku != nil {
		discharging, charging := SplitBySign(*site.PAkku)
		s.put(MetricBatteryCharging, &charging, UnitKilowatt)
		s.put(MetricBatteryDischarging, &discharging, UnitKilowatt)
	}

	if site.RelAutonomy != nil {
		autonomy := Round2(*site.RelAutonomy)
		s.put(MetricAutonomyPercentage, &autonomy, UnitPercent)
	}
}

// normalizeBatterySOC takes the state of charge from the first inverter entry
// exposing one. Map keys are sorted so the choice is stable across cycles.
func normalizeBatterySOC(s Sample, inverters map[string]fronius.PowerFlowInverter) {
	keys := make([]string, 0, len(inverters))
	for k := range inverters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if soc := inverters[k].SOC; soc != nil {
			v := Round2(*soc)
			s.put(MetricBatterySOC, &v, UnitPercent)
			return
		}
	}
}

// normalizeMeter derives the four cumulative energy totals.
func normalizeMeter(s Sample, meter *fronius.MeterData) {
	s.put(MetricGridFeedInTotal, KilowattHoursFromWattHours(meter.EnergySumProduced), UnitKilowattHour)
	s.put(MetricGridConsumptionTotal, KilowattHoursFromWattHours(meter.EnergySumConsumed), UnitKilowattHour)
	s.put(MetricConsumptionTotal, KilowattHoursFromWattHours(meter.EnergyMinusAbsolute), UnitKilowattHour)
	s.put(MetricSolarProducedTotal, KilowattHoursFromWattHours(meter.EnergyPlusAbsolute), UnitKilowattHour)
}
