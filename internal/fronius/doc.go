// Package fronius provides an HTTP client for the Fronius Solar API v1.
//
// It fetches the three realtime documents the collector consumes (common
// inverter data, power-flow data, meter data) from a GEN24 inverter on the
// local network.
//
// # Error Handling
//
// Each fetch is retried with exponential backoff (see internal/retry). After
// the attempt budget is exhausted the document is reported as absent rather
// than as a hard error: a single unreachable endpoint degrades the cycle, it
// never aborts it. Failed attempts are logged at warning level with the URL
// and attempt count.
//
// # Field Absence
//
// Numeric fields in the response documents are *float64 so that a field the
// inverter omits (no battery, no meter channel) stays distinguishable from a
// genuine zero reading.
package fronius
