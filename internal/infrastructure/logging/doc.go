// Package logging provides structured logging for the collector.
//
// It wraps log/slog with three output formats:
//   - json: machine-readable, for container log pipelines
//   - text: slog's key=value text handler
//   - console: human-readable single lines with colourised level tags,
//     the collector's default for interactive use
//
// A configured log file receives every line with colour stripped, appended
// across restarts. Colour can be disabled globally (--no-color) without
// affecting log content.
package logging
