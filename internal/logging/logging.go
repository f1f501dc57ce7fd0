// Package logging wraps log/slog so every component logs the same way.
//
// Components accept a *slog.Logger through an option and fall back to Nop()
// when none is given. The interactive table owns the terminal, so it only
// logs when a log file is configured.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Format is the log output format.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Config holds logging configuration.
type Config struct {
	Level  slog.Level
	Format Format
	// Output defaults to os.Stderr.
	Output io.Writer
}

// New creates a logger from cfg.
func New(cfg Config) *slog.Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: cfg.Level}

	var h slog.Handler
	switch cfg.Format {
	case FormatJSON:
		h = slog.NewJSONHandler(cfg.Output, opts)
	default:
		h = slog.NewTextHandler(cfg.Output, opts)
	}
	return slog.New(h)
}

// Nop returns a logger that discards everything.
func Nop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// OpenFile opens (appending) a log file and returns a logger writing to it.
// The returned closer must be called when done.
func OpenFile(path string, level slog.Level, format Format) (*slog.Logger, io.Closer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return New(Config{Level: level, Format: format, Output: f}), f, nil
}

// ParseLevel parses "debug", "info", "warn"/"warning" or "error", ignoring case.
// Anything else is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

// ParseFormat parses "text" or "json", ignoring case. Anything else is text.
func ParseFormat(s string) Format {
	if strings.EqualFold(strings.TrimSpace(s), "json") {
		return FormatJSON
	}
	return FormatText
}

// Component returns l tagged with a component name.
func Component(l *slog.Logger, name string) *slog.Logger {
	if l == nil {
		l = Nop()
	}
	return l.With(slog.String("component", name))
}
