// Package journal provides an optional local SQLite log of collector cycles.
//
// One row is appended per polling cycle: which endpoints answered, how many
// fields the cycle produced, and whether the InfluxDB write succeeded. The
// journal answers "what was the collector doing last night" without access
// to the InfluxDB bucket.
//
// The journal is diagnostics only. It is not a write buffer: rows are
// appended regardless of the sink outcome and are never replayed.
package journal
