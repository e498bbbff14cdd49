// Fronius Collector - Solar Telemetry Daemon
//
// froniusd polls a Fronius GEN24 inverter's Solar API on a fixed interval,
// normalizes the readings into a unit-tagged metric set and writes one point
// per cycle to InfluxDB. Optional mirrors: an MQTT live-sample publisher and
// a SQLite cycle journal for on-site diagnostics.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pvlog/fronius-collector/internal/collector"
	"github.com/pvlog/fronius-collector/internal/fronius"
	"github.com/pvlog/fronius-collector/internal/infrastructure/config"
	"github.com/pvlog/fronius-collector/internal/infrastructure/influxdb"
	"github.com/pvlog/fronius-collector/internal/infrastructure/journal"
	"github.com/pvlog/fronius-collector/internal/infrastructure/logging"
	"github.com/pvlog/fronius-collector/internal/infrastructure/mqtt"
	"github.com/pvlog/fronius-collector/internal/retry"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// probeTimeout bounds the startup reachability check. The probe is advisory:
// an unreachable inverter is logged, not fatal, because the loop retries
// every cycle anyway.
const probeTimeout = 15 * time.Second

// options holds the command-line flags.
type options struct {
	configPath string
	verbose    bool
	noColor    bool
}

func main() {
	opts := parseFlags()

	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// parseFlags reads the command line. The config path falls back to the
// FRONIUS_CONFIG environment variable; empty means env-only configuration,
// which is the normal container deployment.
func parseFlags() options {
	var opts options
	flag.StringVar(&opts.configPath, "config", os.Getenv("FRONIUS_CONFIG"), "path to YAML config file (empty: env-only)")
	flag.BoolVar(&opts.verbose, "v", false, "print a per-cycle summary line")
	flag.BoolVar(&opts.verbose, "verbose", false, "print a per-cycle summary line")
	flag.BoolVar(&opts.noColor, "no-color", false, "disable ANSI colour in console output")
	flag.Parse()
	return opts
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//   - opts: Parsed command-line options
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context, opts options) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting fronius collector",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if opts.configPath != "" {
		log.Info("configuration loaded", "path", opts.configPath)
	} else {
		log.Info("configuration loaded from environment")
	}

	// Reinitialise logger with config settings. Verbose mode forces debug
	// level on top of whatever the config asks for.
	if opts.verbose {
		cfg.Logging.Level = "debug"
	}
	log = logging.New(cfg.Logging, logging.Options{NoColor: opts.noColor, Version: version})
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Connect to InfluxDB. The collector has nowhere else to put data, so a
	// failed connection at startup is fatal.
	influxClient, err := influxdb.Connect(ctx, cfg.InfluxDB)
	if err != nil {
		return fmt.Errorf("connecting to InfluxDB: %w", err)
	}
	defer func() {
		log.Info("closing InfluxDB connection")
		if closeErr := influxClient.Close(); closeErr != nil {
			log.Error("error closing InfluxDB", "error", closeErr)
		}
	}()
	log.Info("InfluxDB connected",
		"url", cfg.InfluxDB.URL,
		"org", cfg.InfluxDB.Org,
		"bucket", cfg.InfluxDB.Bucket,
	)

	// Connect to the MQTT broker (optional live-sample mirror)
	var publisher collector.Publisher
	if cfg.MQTT.Enabled {
		mqttClient, mqttErr := mqtt.Connect(cfg.MQTT)
		if mqttErr != nil {
			return fmt.Errorf("connecting to MQTT: %w", mqttErr)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Host, cfg.MQTT.Port),
			"client_id", cfg.MQTT.ClientID,
		)

		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})
		publisher = mqttClient
	} else {
		log.Info("MQTT publisher disabled")
	}

	// Open the cycle journal (optional SQLite diagnostics)
	var cycleJournal collector.CycleJournal
	if cfg.Journal.Enabled {
		jrnl, jrnlErr := journal.Open(ctx, cfg.Journal)
		if jrnlErr != nil {
			return fmt.Errorf("opening cycle journal: %w", jrnlErr)
		}
		defer func() {
			log.Info("closing cycle journal")
			if closeErr := jrnl.Close(); closeErr != nil {
				log.Error("error closing journal", "error", closeErr)
			}
		}()
		log.Info("cycle journal opened", "path", cfg.Journal.Path)
		cycleJournal = jrnl
	}

	// Build the inverter client with the configured retry schedule
	policy := retry.Policy{
		MaxAttempts: cfg.Polling.MaxFetchAttempts,
		Initial:     cfg.Polling.Backoff(),
		Multiplier:  retry.DefaultMultiplier,
	}
	client := fronius.New(fronius.Config{
		Host:      cfg.Inverter.Host,
		UseHTTPS:  cfg.Inverter.UseHTTPS,
		VerifySSL: cfg.Inverter.VerifySSL,
		DeviceID:  cfg.Inverter.DeviceID,
	}, policy, log)

	// Probe the inverter once so an unreachable host shows up in the log
	// immediately rather than as the first cycle's retry noise.
	probeCtx, probeCancel := context.WithTimeout(ctx, probeTimeout)
	if probeErr := client.Probe(probeCtx); probeErr != nil {
		log.Warn("inverter not reachable at startup, continuing anyway",
			"url", client.BaseURL(),
			"error", probeErr,
		)
	} else {
		log.Info("inverter reachable", "url", client.BaseURL())
	}
	probeCancel()

	coll := collector.New(collector.Options{
		Source:    client,
		Sink:      collector.NewInfluxSink(influxClient, cfg.Tags),
		Publisher: publisher,
		Journal:   cycleJournal,
		Logger:    log,
		Interval:  cfg.Polling.Interval(),
		Verbose:   opts.verbose,
		NoColor:   opts.noColor,
	})

	log.Info("initialisation complete, entering collection loop",
		"interval", cfg.Polling.Interval(),
		"max_fetch_attempts", cfg.Polling.MaxFetchAttempts,
	)

	coll.Run(ctx)

	log.Info("fronius collector stopped")
	return nil
}
