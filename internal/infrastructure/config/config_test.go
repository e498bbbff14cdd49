package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}

	if cfg.Inverter.Host != "fronius" {
		t.Errorf("Inverter.Host = %q, want %q", cfg.Inverter.Host, "fronius")
	}
	if cfg.Polling.Interval() != 10*time.Second {
		t.Errorf("Polling.Interval() = %v, want 10s", cfg.Polling.Interval())
	}
	if cfg.Tags["source"] != "SymoGEN24" || cfg.Tags["site"] != "home" {
		t.Errorf("Tags = %v, want default source/site", cfg.Tags)
	}
	if cfg.MQTT.Enabled || cfg.Journal.Enabled {
		t.Error("optional integrations must default to disabled")
	}
}

func TestLoad_ValidFile(t *testing.T) {
	content := `
inverter:
  host: "192.168.1.40"
  use_https: true
  device_id: 2
influxdb:
  url: "http://influx:8086"
  token: "secret"
  org: "pv"
  bucket: "fronius_clean"
polling:
  interval: 2.5
tags:
  source: "GEN24"
  site: "cabin"
`
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Inverter.Host != "192.168.1.40" {
		t.Errorf("Inverter.Host = %q, want %q", cfg.Inverter.Host, "192.168.1.40")
	}
	if !cfg.Inverter.UseHTTPS {
		t.Error("Inverter.UseHTTPS = false, want true")
	}
	if cfg.Polling.Interval() != 2500*time.Millisecond {
		t.Errorf("Polling.Interval() = %v, want 2.5s", cfg.Polling.Interval())
	}
	if cfg.Tags["site"] != "cabin" {
		t.Errorf("Tags[site] = %q, want %q", cfg.Tags["site"], "cabin")
	}
	// Defaults survive when the file doesn't mention them.
	if cfg.Polling.MaxFetchAttempts != 3 {
		t.Errorf("Polling.MaxFetchAttempts = %d, want default 3", cfg.Polling.MaxFetchAttempts)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(path, []byte("inverter: [broken"), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("FRONIUS_INVERTER_HOST", "10.0.0.5")
	t.Setenv("FRONIUS_INVERTER_USE_HTTPS", "true")
	t.Setenv("FRONIUS_INVERTER_DEVICE_ID", "3")
	t.Setenv("INFLUX_URL", "http://db:8086")
	t.Setenv("INFLUX_TOKEN", "tok")
	t.Setenv("POLLING_INTERVAL", "0.5")
	t.Setenv("TAG_SITE", "lab")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Inverter.Host != "10.0.0.5" {
		t.Errorf("Inverter.Host = %q, want env override", cfg.Inverter.Host)
	}
	if !cfg.Inverter.UseHTTPS {
		t.Error("Inverter.UseHTTPS = false, want true from env")
	}
	if cfg.Inverter.DeviceID != 3 {
		t.Errorf("Inverter.DeviceID = %d, want 3", cfg.Inverter.DeviceID)
	}
	if cfg.InfluxDB.URL != "http://db:8086" || cfg.InfluxDB.Token != "tok" {
		t.Errorf("InfluxDB = %+v, want env overrides", cfg.InfluxDB)
	}
	if cfg.Polling.Interval() != 500*time.Millisecond {
		t.Errorf("Polling.Interval() = %v, want 500ms", cfg.Polling.Interval())
	}
	if cfg.Tags["site"] != "lab" {
		t.Errorf("Tags[site] = %q, want %q", cfg.Tags["site"], "lab")
	}
}

func TestLoad_NullTagsKey(t *testing.T) {
	// An explicit empty `tags:` key decodes as YAML null, which replaces the
	// default map with nil; env overrides must still land without panicking.
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(path, []byte("tags:\n"), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	t.Setenv("TAG_SOURCE", "garage")
	t.Setenv("TAGS", "rack=r1")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Tags["source"] != "garage" {
		t.Errorf("Tags[source] = %q, want %q", cfg.Tags["source"], "garage")
	}
	if cfg.Tags["rack"] != "r1" {
		t.Errorf("Tags[rack] = %q, want %q", cfg.Tags["rack"], "r1")
	}
	// The explicit empty key cleared the file-level defaults.
	if _, ok := cfg.Tags["site"]; ok {
		t.Errorf("Tags = %v, want default site tag cleared by explicit empty tags key", cfg.Tags)
	}
}

func TestLoad_BulkTagOverrides(t *testing.T) {
	t.Setenv("TAGS", "rack=r1, owner=ops,broken,=skipme,site=roof")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Tags["rack"] != "r1" || cfg.Tags["owner"] != "ops" {
		t.Errorf("Tags = %v, want bulk entries applied", cfg.Tags)
	}
	// Bulk form overrides the named defaults too.
	if cfg.Tags["site"] != "roof" {
		t.Errorf("Tags[site] = %q, want %q", cfg.Tags["site"], "roof")
	}
	if _, ok := cfg.Tags["broken"]; ok {
		t.Error("entry without '=' must be ignored")
	}
	if _, ok := cfg.Tags[""]; ok {
		t.Error("entry with empty key must be ignored")
	}
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty host", func(c *Config) { c.Inverter.Host = "" }, "inverter.host"},
		{"zero interval", func(c *Config) { c.Polling.IntervalSeconds = 0 }, "polling.interval"},
		{"negative interval", func(c *Config) { c.Polling.IntervalSeconds = -1 }, "polling.interval"},
		{"no influx url", func(c *Config) { c.InfluxDB.URL = "" }, "influxdb.url"},
		{"no bucket", func(c *Config) { c.InfluxDB.Bucket = "" }, "influxdb.bucket"},
		{"mqtt without host", func(c *Config) { c.MQTT.Enabled = true; c.MQTT.Host = "" }, "mqtt.host"},
		{"bad qos", func(c *Config) { c.MQTT.Enabled = true; c.MQTT.Host = "b"; c.MQTT.QoS = 3 }, "mqtt.qos"},
		{"journal without path", func(c *Config) { c.Journal.Enabled = true; c.Journal.Path = "" }, "journal.path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}
