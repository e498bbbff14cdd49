// Package telemetry converts raw Solar API readings into the collector's
// normalized metric schema.
//
// The schema is a fixed, closed set of metric names (see the Metric*
// constants), each carried as a Field: an optional numeric value paired with
// its unit string. Absence is first-class — a field whose source document or
// source value was missing stays absent and is never zero-substituted.
//
// Normalize is a pure function of the snapshot and the cycle time; calling it
// twice with identical inputs yields identical samples.
package telemetry
