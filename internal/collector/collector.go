package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pvlog/fronius-collector/internal/fronius"
	"github.com/pvlog/fronius-collector/internal/infrastructure/journal"
	"github.com/pvlog/fronius-collector/internal/infrastructure/logging"
	"github.com/pvlog/fronius-collector/internal/telemetry"
)

// Source fetches one cycle's raw snapshot. Satisfied by fronius.Client.
type Source interface {
	Snapshot(ctx context.Context) fronius.Snapshot
}

// Sink writes one cycle's normalized sample. Satisfied by InfluxSink.
type Sink interface {
	Write(ctx context.Context, sample telemetry.Sample) error
}

// Publisher mirrors a cycle's sample to a live channel. Satisfied by
// mqtt.Client.
type Publisher interface {
	PublishSample(payload []byte) error
}

// CycleJournal records per-cycle diagnostics. Satisfied by journal.Journal.
type CycleJournal interface {
	Append(ctx context.Context, rec journal.Record) error
}

// Options configure a Collector. Source, Sink, Logger and Interval are
// required; Publisher and Journal are optional mirrors.
type Options struct {
	Source    Source
	Sink      Sink
	Publisher Publisher
	Journal   CycleJournal
	Logger    *logging.Logger

	// Interval is the fixed cycle period.
	Interval time.Duration

	// Verbose enables the per-cycle summary line.
	Verbose bool

	// NoColor disables ANSI colour in the summary line.
	NoColor bool
}

// Collector runs the fetch → normalize → write loop.
//
// A single goroutine owns the loop; cycles never overlap and the sink is
// never written concurrently.
type Collector struct {
	source    Source
	sink      Sink
	publisher Publisher
	journal   CycleJournal
	log       *logging.Logger

	interval time.Duration
	verbose  bool
	noColor  bool

	// Seams for tests: wall clock, end-of-cycle sleep, summary output.
	now        func() time.Time
	sleep      func(ctx context.Context, d time.Duration)
	summaryOut io.Writer
}

// New creates a Collector from options.
func New(opts Options) *Collector {
	return &Collector{
		source:     opts.Source,
		sink:       opts.Sink,
		publisher:  opts.Publisher,
		journal:    opts.Journal,
		log:        opts.Logger,
		interval:   opts.Interval,
		verbose:    opts.Verbose,
		noColor:    opts.NoColor,
		now:        time.Now,
		sleep:      sleepContext,
		summaryOut: os.Stdout,
	}
}

// Run executes cycles until the context is cancelled.
//
// Each cycle measures its own duration and sleeps only the remainder of the
// interval; an overrunning cycle rolls straight into the next one. Transient
// errors are logged and never terminate the loop.
func (c *Collector) Run(ctx context.Context) {
	c.log.Info("collector started", "interval", c.interval)

	for {
		start := c.now()
		c.runCycle(ctx, start)

		elapsed := c.now().Sub(start)
		wait := c.interval - elapsed
		if wait < 0 {
			wait = 0
		}

		select {
		case <-ctx.Done():
			c.log.Info("collector stopped")
			return
		default:
		}
		c.sleep(ctx, wait)

		if ctx.Err() != nil {
			c.log.Info("collector stopped")
			return
		}
	}
}

// runCycle performs one fetch → normalize → write pass.
func (c *Collector) runCycle(ctx context.Context, start time.Time) {
	snap := c.source.Snapshot(ctx)
	sample := telemetry.Normalize(snap, c.now())

	var writeErr error
	if writeErr = c.sink.Write(ctx, sample); writeErr != nil {
		// Data for this cycle is dropped; the next cycle proceeds independently.
		c.log.Error("influx write failed", "error", writeErr)
	}

	if c.publisher != nil {
		if err := c.publisher.PublishSample(samplePayload(sample)); err != nil {
			c.log.Warn("mqtt publish failed", "error", err)
		}
	}

	if c.verbose {
		fmt.Fprintln(c.summaryOut, formatSummary(sample, c.now(), !c.noColor))
	}

	if c.journal != nil {
		rec := journal.Record{
			LoggedAt:      sample.LoggedAt,
			CommonOK:      snap.Common != nil,
			PowerFlowOK:   snap.PowerFlow != nil,
			MeterOK:       snap.Meter != nil,
			FieldsWritten: len(sample.Fields),
			Duration:      c.now().Sub(start),
		}
		if writeErr != nil {
			rec.WriteError = writeErr.Error()
		}
		if err := c.journal.Append(ctx, rec); err != nil {
			c.log.Warn("journal append failed", "error", err)
		}
	}

	c.log.Debug("cycle complete",
		"fields", len(sample.Fields),
		"powerflow", snap.PowerFlow != nil,
		"meter", snap.Meter != nil,
		"common", snap.Common != nil,
	)
}

// samplePayload renders the sample as the MQTT JSON document: every present
// field as {"value": v, "unit": u}, plus Logged_At.
func samplePayload(sample telemetry.Sample) []byte {
	type fieldJSON struct {
		Value float64 `json:"value"`
		Unit  string  `json:"unit"`
	}

	doc := make(map[string]any, len(sample.Fields)+1)
	for name, field := range sample.Fields {
		if field.Present() {
			doc[name] = fieldJSON{Value: *field.Value, Unit: field.Unit}
		}
	}
	doc[telemetry.MetricLoggedAt] = struct {
		Value int64  `json:"value"`
		Unit  string `json:"unit"`
	}{sample.LoggedAt, telemetry.UnitSeconds}

	payload, err := json.Marshal(doc)
	if err != nil {
		// Cannot happen for this shape; keep the publisher contract total.
		return []byte("{}")
	}
	return payload
}

// sleepContext sleeps d or until the context is cancelled.
func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
