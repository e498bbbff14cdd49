package collector

import (
	"context"
	"time"

	"github.com/pvlog/fronius-collector/internal/telemetry"
)

// measurement is the single measurement name every cycle writes under.
const measurement = "fronius_clean"

// PointWriter is the transport seam for the sink; satisfied by
// influxdb.Client and faked in tests.
type PointWriter interface {
	WritePoint(ctx context.Context, measurement string, tags map[string]string, fields map[string]interface{}, ts time.Time) error
}

// InfluxSink converts samples into tagged InfluxDB points.
//
// The static tag set is fixed at construction and attached identically to
// every point; per-field unit tags are derived from the sample.
type InfluxSink struct {
	writer PointWriter
	tags   map[string]string
	now    func() time.Time
}

// NewInfluxSink creates a sink writing through w with the given static tags.
func NewInfluxSink(w PointWriter, tags map[string]string) *InfluxSink {
	// Copy so later mutation of the caller's map cannot leak into points.
	static := make(map[string]string, len(tags))
	for k, v := range tags {
		static[k] = v
	}
	return &InfluxSink{
		writer: w,
		tags:   static,
		now:    time.Now,
	}
}

// Write emits one point for the sample.
//
// Tags are the static set plus a <field>_unit companion tag for every present
// field. Absent fields are omitted entirely — no null fields, no
// zero-substitution. Logged_At is always present, so every cycle writes a
// point even when the inverter was unreachable; the lone-timestamp point acts
// as a collector heartbeat.
//
// The timestamp is write time, truncated to second precision.
func (s *InfluxSink) Write(ctx context.Context, sample telemetry.Sample) error {
	tags := make(map[string]string, len(s.tags)+len(sample.Fields)+1)
	for k, v := range s.tags {
		tags[k] = v
	}

	fields := make(map[string]interface{}, len(sample.Fields)+1)
	for name, field := range sample.Fields {
		if !field.Present() {
			continue
		}
		fields[name] = *field.Value
		tags[name+"_unit"] = field.Unit
	}

	fields[telemetry.MetricLoggedAt] = sample.LoggedAt
	tags[telemetry.MetricLoggedAt+"_unit"] = telemetry.UnitSeconds

	return s.writer.WritePoint(ctx, measurement, tags, fields, s.now().Truncate(time.Second))
}
