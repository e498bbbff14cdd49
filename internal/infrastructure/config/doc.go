// Package config loads the collector's configuration.
//
// Configuration is layered: hardcoded defaults, then an optional YAML file,
// then environment variable overrides. The environment names match the
// collector's Docker deployment (FRONIUS_*, INFLUX_*, POLLING_INTERVAL,
// TAG_*), so the YAML file is optional — a container can run on environment
// variables alone.
//
// The Config is built once at startup, validated, and never mutated
// afterwards. Changing configuration requires a process restart.
package config
