package fronius

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/pvlog/fronius-collector/internal/retry"
)

// requestTimeout bounds a single HTTP attempt against the inverter.
const requestTimeout = 10 * time.Second

// Solar API v1 endpoint paths.
const (
	pathInverterRealtime  = "/solar_api/v1/GetInverterRealtimeData.cgi?Scope=Device&DeviceId=%d&DataCollection=CommonInverterData"
	pathPowerFlowRealtime = "/solar_api/v1/GetPowerFlowRealtimeData.fcgi"
	pathMeterRealtime     = "/solar_api/v1/GetMeterRealtimeData.cgi?Scope=Device&DeviceId=0"
)

// Config contains the inverter connection settings.
type Config struct {
	// Host is the inverter's hostname or IP on the local network.
	Host string

	// UseHTTPS selects the https scheme. GEN24 firmware serves both.
	UseHTTPS bool

	// VerifySSL enables TLS certificate verification. Inverters ship with
	// self-signed certificates, so this is typically false.
	VerifySSL bool

	// DeviceID scopes the common inverter data request.
	DeviceID int
}

// Logger is the subset of the logging API the client needs.
// Compatible with logging.Logger and slog.Logger.
type Logger interface {
	Warn(msg string, args ...any)
	Debug(msg string, args ...any)
}

// Client fetches realtime documents from a Fronius GEN24 inverter.
//
// Fetch methods never return an error for transport failures: after the retry
// budget is exhausted they return nil (document absent) so a degraded cycle
// can continue. The zero value is not usable; construct with New.
type Client struct {
	cfg    Config
	http   *http.Client
	policy retry.Policy
	log    Logger
}

// New creates a Client for the configured inverter.
//
// Parameters:
//   - cfg: inverter connection settings
//   - policy: retry schedule for failed fetch attempts
//   - log: logger for per-attempt warnings (must not be nil)
func New(cfg Config, policy retry.Policy, log Logger) *Client {
	transport := http.DefaultTransport
	if !cfg.VerifySSL {
		t := http.DefaultTransport.(*http.Transport).Clone()
		t.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} // #nosec G402 -- inverters use self-signed certs, toggle is config-driven
		transport = t
	}

	return &Client{
		cfg: cfg,
		http: &http.Client{
			Timeout:   requestTimeout,
			Transport: transport,
		},
		policy: policy,
		log:    log,
	}
}

// BaseURL returns the scheme://host prefix for all Solar API requests.
func (c *Client) BaseURL() string {
	scheme := "http"
	if c.cfg.UseHTTPS {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, c.cfg.Host)
}

// Probe performs a single, unretried request against the power-flow endpoint.
//
// Used as a startup health check: a failure is reported to the caller but the
// collector only warns, because the loop must survive an inverter that is down
// at boot.
func (c *Client) Probe(ctx context.Context) error {
	_, err := getDocument[PowerFlowData](ctx, c, pathPowerFlowRealtime)
	return err
}

// CommonInverterData fetches the common inverter document, retrying per the
// client's policy. Returns nil after retry exhaustion.
func (c *Client) CommonInverterData(ctx context.Context) *CommonInverterData {
	path := fmt.Sprintf(pathInverterRealtime, c.cfg.DeviceID)
	return fetchDocument[CommonInverterData](ctx, c, path)
}

// PowerFlow fetches the site power-flow document, retrying per the client's
// policy. Returns nil after retry exhaustion.
func (c *Client) PowerFlow(ctx context.Context) *PowerFlowData {
	return fetchDocument[PowerFlowData](ctx, c, pathPowerFlowRealtime)
}

// Meter fetches the smart-meter document, retrying per the client's policy.
// Returns nil after retry exhaustion.
func (c *Client) Meter(ctx context.Context) *MeterData {
	return fetchDocument[MeterData](ctx, c, pathMeterRealtime)
}

// Snapshot fetches all three documents concurrently and waits for every fetch
// to finish (or exhaust its retries) before returning.
//
// The three endpoints have no ordering dependency; fetching them in parallel
// keeps cycle latency near a single round trip instead of three.
func (c *Client) Snapshot(ctx context.Context) Snapshot {
	var snap Snapshot
	var wg sync.WaitGroup

	wg.Add(3)
	go func() {
		defer wg.Done()
		snap.Common = c.CommonInverterData(ctx)
	}()
	go func() {
		defer wg.Done()
		snap.PowerFlow = c.PowerFlow(ctx)
	}()
	go func() {
		defer wg.Done()
		snap.Meter = c.Meter(ctx)
	}()
	wg.Wait()

	return snap
}

// fetchDocument runs getDocument under the client's retry policy, logging each
// failed attempt, and converts retry exhaustion into document absence.
func fetchDocument[T any](ctx context.Context, c *Client, path string) *T {
	url := c.BaseURL() + path

	var doc *T
	err := c.policy.Do(ctx, func() error {
		var opErr error
		doc, opErr = getDocument[T](ctx, c, path)
		return opErr
	}, func(attempt int, attemptErr error) {
		c.log.Warn("inverter fetch failed",
			"url", url,
			"attempt", fmt.Sprintf("%d/%d", attempt, c.policy.Attempts()),
			"error", attemptErr,
		)
	})
	if err != nil {
		return nil
	}
	return doc
}

// getDocument performs one GET attempt and decodes the Solar API envelope.
func getDocument[T any](ctx context.Context, c *Client, path string) (*T, error) {
	url := c.BaseURL() + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck // Read side only

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}

	var env envelope[T]
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	if env.Head.Status.Code != 0 {
		return nil, fmt.Errorf("%w: code %d (%s)",
			ErrDeviceStatus, env.Head.Status.Code, env.Head.Status.Reason)
	}

	return &env.Body.Data, nil
}
