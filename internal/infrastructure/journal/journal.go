package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/pvlog/fronius-collector/internal/infrastructure/config"
)

// Journal storage constants.
const (
	// dirPermissions is the permission mode for the journal directory.
	dirPermissions = 0750

	// filePermissions is the permission mode for the journal file.
	filePermissions = 0600

	// msPerSecond converts seconds to milliseconds for the busy timeout pragma.
	msPerSecond = 1000

	// connectionTimeout bounds the connectivity check at open.
	connectionTimeout = 5 * time.Second
)

// schema holds the cycle log table. Created at open; there is no migration
// machinery — a schema change means a new journal file.
const schema = `
CREATE TABLE IF NOT EXISTS cycles (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	logged_at      INTEGER NOT NULL,
	common_ok      INTEGER NOT NULL,
	powerflow_ok   INTEGER NOT NULL,
	meter_ok       INTEGER NOT NULL,
	fields_written INTEGER NOT NULL,
	write_error    TEXT NOT NULL DEFAULT '',
	duration_ms    INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_cycles_logged_at ON cycles(logged_at);
`

// Record is one cycle's diagnostic row.
type Record struct {
	// LoggedAt is the cycle's Unix timestamp in seconds.
	LoggedAt int64

	// CommonOK, PowerFlowOK and MeterOK report whether each endpoint
	// produced a document this cycle.
	CommonOK    bool
	PowerFlowOK bool
	MeterOK     bool

	// FieldsWritten is the number of present metric fields, excluding
	// Logged_At.
	FieldsWritten int

	// WriteError holds the sink failure message, empty on success.
	WriteError string

	// Duration is the full cycle duration (fetch through write).
	Duration time.Duration
}

// Journal wraps the SQLite connection holding the cycle log.
type Journal struct {
	db   *sql.DB
	path string
}

// Open creates (or reopens) the journal database.
//
// It creates the directory if needed, applies the WAL and busy-timeout
// pragmas, creates the schema, and verifies the connection.
//
// Parameters:
//   - ctx: Context for the connectivity check
//   - cfg: Journal configuration
//
// Returns:
//   - *Journal: Ready journal
//   - error: If the file cannot be opened or the schema cannot be created
func Open(ctx context.Context, cfg config.JournalConfig) (*Journal, error) {
	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return nil, fmt.Errorf("creating journal directory: %w", err)
	}

	connStr := fmt.Sprintf("file:%s?_busy_timeout=%d&_journal_mode=WAL&_synchronous=NORMAL",
		cfg.Path,
		cfg.BusyTimeout*msPerSecond,
	)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}

	// One writer, sequential use only.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, connectionTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close() //nolint:errcheck // Best effort cleanup on error path
		return nil, fmt.Errorf("verifying journal connection: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close() //nolint:errcheck // Best effort cleanup on error path
		return nil, fmt.Errorf("creating journal schema: %w", err)
	}

	// Owner read/write only; ignore failure on first run before the file exists.
	_ = os.Chmod(cfg.Path, filePermissions) //nolint:errcheck

	return &Journal{db: db, path: cfg.Path}, nil
}

// Append inserts one cycle record.
//
// Returns an error for the caller to log; a failed append never affects the
// cycle itself.
func (j *Journal) Append(ctx context.Context, rec Record) error {
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO cycles (logged_at, common_ok, powerflow_ok, meter_ok, fields_written, write_error, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.LoggedAt,
		boolToInt(rec.CommonOK),
		boolToInt(rec.PowerFlowOK),
		boolToInt(rec.MeterOK),
		rec.FieldsWritten,
		rec.WriteError,
		rec.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("appending cycle record: %w", err)
	}
	return nil
}

// Tail returns the most recent n cycle records, newest first.
// Used by tests and ad-hoc inspection.
func (j *Journal) Tail(ctx context.Context, n int) ([]Record, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT logged_at, common_ok, powerflow_ok, meter_ok, fields_written, write_error, duration_ms
		 FROM cycles ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("querying cycle records: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var recs []Record
	for rows.Next() {
		var rec Record
		var commonOK, powerflowOK, meterOK int
		var durationMS int64
		if err := rows.Scan(&rec.LoggedAt, &commonOK, &powerflowOK, &meterOK,
			&rec.FieldsWritten, &rec.WriteError, &durationMS); err != nil {
			return nil, fmt.Errorf("scanning cycle record: %w", err)
		}
		rec.CommonOK = commonOK != 0
		rec.PowerFlowOK = powerflowOK != 0
		rec.MeterOK = meterOK != 0
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// HealthCheck verifies the journal connection is alive.
func (j *Journal) HealthCheck(ctx context.Context) error {
	if err := j.db.PingContext(ctx); err != nil {
		return fmt.Errorf("journal health check failed: %w", err)
	}
	return nil
}

// Close closes the journal database.
func (j *Journal) Close() error {
	return j.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
