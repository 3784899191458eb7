// Package logging builds the process logger: an optional console handler and
// an optional size-rotated log file, both behind one *slog.Logger.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Config selects log outputs. The zero value logs nothing.
type Config struct {
	Level   string `yaml:"level" toml:"level"`     // debug, info, warn, error
	Format  string `yaml:"format" toml:"format"`   // text or json
	Console bool   `yaml:"console" toml:"console"` // write to Stderr (or Output)
	File    string `yaml:"file" toml:"file"`       // rotated log file; empty disables

	FileMaxSizeMB  int `yaml:"file_max_size_mb" toml:"file_max_size_mb"`
	FileMaxBackups int `yaml:"file_max_backups" toml:"file_max_backups"`
	FileMaxAgeDays int `yaml:"file_max_age_days" toml:"file_max_age_days"`

	// Output overrides the console writer. Used by tests.
	Output io.Writer `yaml:"-" toml:"-"`
}

// ParseLevel converts a level name to slog.Level. Unknown names map to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup returns a logger for cfg and a close func for the log file.
// With no outputs enabled the logger discards everything.
func Setup(cfg Config) (*slog.Logger, func() error) {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}
	closer := func() error { return nil }

	var handlers []slog.Handler
	if cfg.Console {
		out := cfg.Output
		if out == nil {
			out = os.Stderr
		}
		handlers = append(handlers, newHandler(out, cfg.Format, opts))
	}
	if cfg.File != "" {
		file := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.FileMaxSizeMB,
			MaxBackups: cfg.FileMaxBackups,
			MaxAge:     cfg.FileMaxAgeDays,
		}
		handlers = append(handlers, newHandler(file, cfg.Format, opts))
		closer = file.Close
	}

	switch len(handlers) {
	case 0:
		return slog.New(slog.NewTextHandler(io.Discard, nil)), closer
	case 1:
		return slog.New(handlers[0]), closer
	default:
		return slog.New(newMultiHandler(handlers...)), closer
	}
}

func newHandler(w io.Writer, format string, opts *slog.HandlerOptions) slog.Handler {
	if strings.EqualFold(format, "json") {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// multiHandler fans records out to several handlers.
type multiHandler struct {
	handlers []slog.Handler
}

func newMultiHandler(handlers ...slog.Handler) *multiHandler {
	return &multiHandler{handlers: handlers}
}

func (h *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle writes to every enabled handler and returns the first error.
func (h *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	var first error
	for _, handler := range h.handlers {
		if !handler.Enabled(ctx, r.Level) {
			continue
		}
		if err := handler.Handle(ctx, r.Clone()); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (h *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithAttrs(attrs)
	}
	return newMultiHandler(handlers...)
}

func (h *multiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithGroup(name)
	}
	return newMultiHandler(handlers...)
}
