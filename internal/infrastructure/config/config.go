package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for the collector.
// All values are loaded from YAML and can be overridden by environment variables.
type Config struct {
	Inverter InverterConfig    `yaml:"inverter"`
	InfluxDB InfluxDBConfig    `yaml:"influxdb"`
	MQTT     MQTTConfig        `yaml:"mqtt"`
	Journal  JournalConfig     `yaml:"journal"`
	Polling  PollingConfig     `yaml:"polling"`
	Tags     map[string]string `yaml:"tags"`
	Logging  LoggingConfig     `yaml:"logging"`
}

// InverterConfig contains the Fronius inverter connection settings.
type InverterConfig struct {
	Host      string `yaml:"host"`
	UseHTTPS  bool   `yaml:"use_https"`
	VerifySSL bool   `yaml:"verify_ssl"`
	DeviceID  int    `yaml:"device_id"`
}

// InfluxDBConfig contains the InfluxDB v2 connection settings.
type InfluxDBConfig struct {
	URL    string `yaml:"url"`
	Token  string `yaml:"token"`
	Org    string `yaml:"org"`
	Bucket string `yaml:"bucket"`
}

// MQTTConfig contains the optional live-sample publisher settings.
type MQTTConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	TLS         bool   `yaml:"tls"`
	ClientID    string `yaml:"client_id"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	QoS         int    `yaml:"qos"`
	TopicPrefix string `yaml:"topic_prefix"`
}

// JournalConfig contains the optional SQLite cycle-journal settings.
type JournalConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Path        string `yaml:"path"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// PollingConfig contains the scheduler settings.
type PollingConfig struct {
	// IntervalSeconds is the cycle period. Fractional values are allowed.
	IntervalSeconds float64 `yaml:"interval"`

	// MaxFetchAttempts is the per-endpoint retry budget, including the
	// first attempt.
	MaxFetchAttempts int `yaml:"max_fetch_attempts"`

	// BackoffSeconds is the delay before the second fetch attempt; it
	// doubles after every further failure.
	BackoffSeconds float64 `yaml:"backoff"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`

	// File, when set, mirrors every log line (colour stripped) to this
	// path, appending across restarts.
	File string `yaml:"file"`
}

// Interval returns the polling period as a Duration.
func (c PollingConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds * float64(time.Second))
}

// Backoff returns the initial retry backoff as a Duration.
func (c PollingConfig) Backoff() time.Duration {
	return time.Duration(c.BackoffSeconds * float64(time.Second))
}

// Load builds the configuration.
//
// Loading order:
//  1. Default values (hardcoded)
//  2. YAML file values, when path is non-empty (a missing file is an error)
//  3. Environment variable overrides
//
// An empty path skips the file layer entirely, matching the env-only
// container deployment.
//
// Returns the validated configuration, or an error the process cannot
// start without resolving.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
		// An explicit empty `tags:` key decodes as null and nils the map;
		// the env overrides below need a map to write into.
		if cfg.Tags == nil {
			cfg.Tags = map[string]string{}
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with the deployment defaults.
func defaultConfig() *Config {
	return &Config{
		Inverter: InverterConfig{
			Host:     "fronius",
			DeviceID: 1,
		},
		InfluxDB: InfluxDBConfig{
			URL:    "http://localhost:8086",
			Org:    "org",
			Bucket: "fronius_clean",
		},
		MQTT: MQTTConfig{
			Port:        1883,
			ClientID:    "froniusd",
			QoS:         1,
			TopicPrefix: "fronius",
		},
		Journal: JournalConfig{
			Path:        "./data/journal.db",
			BusyTimeout: 5,
		},
		Polling: PollingConfig{
			IntervalSeconds:  10,
			MaxFetchAttempts: 3,
			BackoffSeconds:   1,
		},
		Tags: map[string]string{
			"source": "SymoGEN24",
			"site":   "home",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides.
// The inverter/Influx/tag names are kept compatible with the original
// container deployment; collector-specific settings use the FRONIUS_ prefix.
func applyEnvOverrides(cfg *Config) {
	// Inverter
	if v := os.Getenv("FRONIUS_INVERTER_HOST"); v != "" {
		cfg.Inverter.Host = v
	}
	cfg.Inverter.UseHTTPS = envBool("FRONIUS_INVERTER_USE_HTTPS", cfg.Inverter.UseHTTPS)
	cfg.Inverter.VerifySSL = envBool("FRONIUS_INVERTER_VERIFY_SSL", cfg.Inverter.VerifySSL)
	cfg.Inverter.DeviceID = envInt("FRONIUS_INVERTER_DEVICE_ID", cfg.Inverter.DeviceID)

	// InfluxDB
	if v := os.Getenv("INFLUX_URL"); v != "" {
		cfg.InfluxDB.URL = v
	}
	if v := os.Getenv("INFLUX_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}
	if v := os.Getenv("INFLUX_ORG"); v != "" {
		cfg.InfluxDB.Org = v
	}
	if v := os.Getenv("INFLUX_BUCKET"); v != "" {
		cfg.InfluxDB.Bucket = v
	}

	// Polling
	cfg.Polling.IntervalSeconds = envFloat("POLLING_INTERVAL", cfg.Polling.IntervalSeconds)

	// MQTT
	cfg.MQTT.Enabled = envBool("FRONIUS_MQTT_ENABLED", cfg.MQTT.Enabled)
	if v := os.Getenv("FRONIUS_MQTT_HOST"); v != "" {
		cfg.MQTT.Host = v
	}
	cfg.MQTT.Port = envInt("FRONIUS_MQTT_PORT", cfg.MQTT.Port)
	if v := os.Getenv("FRONIUS_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Username = v
	}
	if v := os.Getenv("FRONIUS_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Password = v
	}
	if v := os.Getenv("FRONIUS_MQTT_TOPIC_PREFIX"); v != "" {
		cfg.MQTT.TopicPrefix = v
	}

	// Journal
	cfg.Journal.Enabled = envBool("FRONIUS_JOURNAL_ENABLED", cfg.Journal.Enabled)
	if v := os.Getenv("FRONIUS_JOURNAL_PATH"); v != "" {
		cfg.Journal.Path = v
	}

	// Logging
	if v := os.Getenv("FRONIUS_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("FRONIUS_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("FRONIUS_LOG_FILE"); v != "" {
		cfg.Logging.File = v
	}

	// Tags: named overrides first, then the bulk TAGS=k1=v1,k2=v2 form.
	if v := os.Getenv("TAG_SOURCE"); v != "" {
		cfg.Tags["source"] = v
	}
	if v := os.Getenv("TAG_SITE"); v != "" {
		cfg.Tags["site"] = v
	}
	if v := os.Getenv("TAGS"); v != "" {
		applyTagOverrides(cfg.Tags, v)
	}
}

// applyTagOverrides merges a "k1=v1,k2=v2" list into tags.
// Entries without '=' are ignored.
func applyTagOverrides(tags map[string]string, list string) {
	for _, pair := range strings.Split(list, ",") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		tags[k] = strings.TrimSpace(v)
	}
}

// Validate checks the configuration for errors the process cannot run with.
func (c *Config) Validate() error {
	var errs []string

	if c.Inverter.Host == "" {
		errs = append(errs, "inverter.host is required")
	}
	if c.Inverter.DeviceID < 0 {
		errs = append(errs, "inverter.device_id must not be negative")
	}

	if c.InfluxDB.URL == "" {
		errs = append(errs, "influxdb.url is required")
	}
	if c.InfluxDB.Org == "" {
		errs = append(errs, "influxdb.org is required")
	}
	if c.InfluxDB.Bucket == "" {
		errs = append(errs, "influxdb.bucket is required")
	}

	if c.Polling.IntervalSeconds <= 0 {
		errs = append(errs, "polling.interval must be positive")
	}
	if c.Polling.MaxFetchAttempts < 1 {
		errs = append(errs, "polling.max_fetch_attempts must be at least 1")
	}
	if c.Polling.BackoffSeconds <= 0 {
		errs = append(errs, "polling.backoff must be positive")
	}

	if c.MQTT.Enabled {
		if c.MQTT.Host == "" {
			errs = append(errs, "mqtt.host is required when mqtt is enabled")
		}
		if c.MQTT.Port < 1 || c.MQTT.Port > 65535 {
			errs = append(errs, "mqtt.port must be between 1 and 65535")
		}
		if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
			errs = append(errs, "mqtt.qos must be 0, 1, or 2")
		}
	}

	if c.Journal.Enabled && c.Journal.Path == "" {
		errs = append(errs, "journal.path is required when the journal is enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// envBool reads a boolean environment variable.
// Accepts 1/true/yes/on (case-insensitive); anything else is false.
func envBool(name string, def bool) bool {
	v, ok := os.LookupEnv(name)
	if !ok {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// envInt reads an integer environment variable, keeping def on parse failure.
func envInt(name string, def int) int {
	v, ok := os.LookupEnv(name)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return n
}

// envFloat reads a float environment variable, keeping def on parse failure.
func envFloat(name string, def float64) float64 {
	v, ok := os.LookupEnv(name)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return def
	}
	return f
}
