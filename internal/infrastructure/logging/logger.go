package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pvlog/fronius-collector/internal/infrastructure/config"
)

// logFilePermissions is the mode for a newly created log file.
const logFilePermissions = 0600

// Logger wraps slog.Logger with collector-specific construction.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
type Logger struct {
	*slog.Logger
}

// Options control presentation-only aspects of the logger.
type Options struct {
	// NoColor disables ANSI colour in the console format.
	// It never affects log content, only rendering.
	NoColor bool

	// Version is attached as a default field.
	Version string
}

// New creates a Logger from the logging configuration.
//
// The console format renders human-readable lines with coloured level tags;
// json and text delegate to the corresponding slog handlers. When cfg.File is
// set, every line is mirrored to that file with colour stripped, appending
// across restarts. A file that cannot be opened is reported on stderr and
// skipped — logging must not take the collector down.
func New(cfg config.LoggingConfig, opts Options) *Logger {
	var output io.Writer
	switch strings.ToLower(cfg.Output) {
	case "stderr":
		output = os.Stderr
	default:
		output = os.Stdout
	}

	var mirror io.Writer
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermissions)
		if err != nil {
			os.Stderr.WriteString("logging: cannot open log file " + cfg.File + ": " + err.Error() + "\n") //nolint:errcheck
		} else {
			mirror = f
		}
	}

	level := parseLevel(cfg.Level)

	// Default fields are attached to the machine formats only; the console
	// format stays terse for interactive reading.
	defaults := []slog.Attr{
		slog.String("service", "froniusd"),
		slog.String("version", opts.Version),
	}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "json":
		handler = slog.NewJSONHandler(mirrored(output, mirror), &slog.HandlerOptions{Level: level}).WithAttrs(defaults)
	case "text":
		handler = slog.NewTextHandler(mirrored(output, mirror), &slog.HandlerOptions{Level: level}).WithAttrs(defaults)
	default:
		handler = newConsoleHandler(output, mirror, level, !opts.NoColor)
	}

	return &Logger{Logger: slog.New(handler)}
}

// mirrored combines the console writer with the optional file mirror.
// Only used for the uncoloured formats, where both sides get identical bytes.
func mirrored(out, mirror io.Writer) io.Writer {
	if mirror == nil {
		return out
	}
	return io.MultiWriter(out, mirror)
}

// parseLevel converts a string log level to slog.Level.
// Defaults to info if unrecognised.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// With returns a new Logger with additional default attributes.
//
// Example:
//
//	sinkLog := logger.With("component", "sink")
//	sinkLog.Info("point written") // includes component=sink
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

// Default creates a logger for use before configuration is loaded.
// Console format, info level, colour on, stdout.
func Default() *Logger {
	return New(config.LoggingConfig{
		Level:  "info",
		Format: "console",
		Output: "stdout",
	}, Options{Version: "dev"})
}
