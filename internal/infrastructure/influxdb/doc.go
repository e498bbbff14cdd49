// Package influxdb provides InfluxDB v2 connectivity for the collector.
//
// It wraps the official influxdb-client-go v2 library with connection
// management, per-point blocking writes, and health checks.
//
// # Write Model
//
// The collector produces exactly one point per polling cycle, so writes use
// the blocking API: each cycle learns immediately whether its point landed,
// and a failure can be logged against that cycle. There is no batching and
// no buffering — a failed write drops that cycle's data by design.
//
// # Thread Safety
//
// The client is safe for concurrent use, though the collector only ever
// writes from the single scheduler goroutine.
package influxdb
