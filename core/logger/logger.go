// Package logger builds the application's slog loggers and provides
// nil-safe attribute helpers for structured records.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config holds logger settings with environment variable support.
type Config struct {
	Level     string `env:"LOG_LEVEL" envDefault:"info"`
	Format    string `env:"LOG_FORMAT" envDefault:"text"` // text or json
	AddSource bool   `env:"LOG_SOURCE" envDefault:"false"`
}

// New returns a text logger at info level writing to stdout.
func New() *slog.Logger {
	return NewFromConfig(Config{Level: "info", Format: "text"})
}

// NewFromConfig builds a logger from configuration. Unknown levels fall
// back to info, unknown formats to text.
func NewFromConfig(cfg Config) *slog.Logger {
	return newLogger(cfg, os.Stdout)
}

// NewDiscard returns a logger that drops every record. Useful as a test
// default.
func NewDiscard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newLogger(cfg Config, out io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	return slog.New(handler)
}

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
