package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// ANSI escape sequences for the console format.
const (
	ansiReset  = "\033[0m"
	ansiRed    = "\033[31m"
	ansiYellow = "\033[33m"
	ansiCyan   = "\033[36m"
	ansiGray   = "\033[90m"
)

// timestampLayout matches the collector's historical log line format.
const timestampLayout = "2006-01-02/15:04:05"

// consoleHandler renders single-line, human-readable log records.
//
// The console writer receives coloured output; the optional mirror writer
// receives the same line with no escape sequences, suitable for a plain
// log file.
type consoleHandler struct {
	out    io.Writer
	mirror io.Writer
	level  slog.Leveler
	color  bool

	// attrs and groups accumulate via WithAttrs/WithGroup.
	attrs  []slog.Attr
	prefix string

	mu *sync.Mutex
}

func newConsoleHandler(out, mirror io.Writer, level slog.Leveler, color bool) *consoleHandler {
	return &consoleHandler{
		out:    out,
		mirror: mirror,
		level:  level,
		color:  color,
		mu:     &sync.Mutex{},
	}
}

// Enabled implements slog.Handler.
func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle implements slog.Handler. It writes one line per record:
//
//	2026-08-27/10:00:00 [INFO] point written fields=12
func (h *consoleHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(r.Time.Format(timestampLayout))
	b.WriteString(" [")
	b.WriteString(levelTag(r.Level))
	b.WriteString("] ")
	b.WriteString(r.Message)

	for _, attr := range h.attrs {
		appendAttr(&b, h.prefix, attr)
	}
	r.Attrs(func(attr slog.Attr) bool {
		appendAttr(&b, h.prefix, attr)
		return true
	})
	b.WriteByte('\n')

	plain := b.String()
	line := plain
	if h.color {
		line = colorizeLevel(plain, r.Level)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, err := io.WriteString(h.out, line); err != nil {
		return err
	}
	if h.mirror != nil {
		// Mirror failures are swallowed: the file copy is best effort.
		_, _ = io.WriteString(h.mirror, plain)
	}
	return nil
}

// WithAttrs implements slog.Handler.
func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &clone
}

// WithGroup implements slog.Handler.
func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = h.prefix + name + "."
	return &clone
}

// appendAttr renders one attribute as " key=value".
func appendAttr(b *strings.Builder, prefix string, attr slog.Attr) {
	if attr.Equal(slog.Attr{}) {
		return
	}
	b.WriteByte(' ')
	b.WriteString(prefix)
	b.WriteString(attr.Key)
	b.WriteByte('=')
	fmt.Fprintf(b, "%v", attr.Value.Resolve().Any())
}

// levelTag returns the bracketed level name.
func levelTag(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}

// colorizeLevel wraps the whole line in the level's colour.
func colorizeLevel(line string, level slog.Level) string {
	var color string
	switch {
	case level >= slog.LevelError:
		color = ansiRed
	case level >= slog.LevelWarn:
		color = ansiYellow
	case level >= slog.LevelInfo:
		color = ansiCyan
	default:
		color = ansiGray
	}
	return color + strings.TrimSuffix(line, "\n") + ansiReset + "\n"
}
