// Package logging builds the zerolog logger used as the operator-visible
// diagnostic channel. Console or JSON output goes to stderr; error-level events
// are also appended to a file so failed actions leave a trace after the
// session ends.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-errors/errors"
	"github.com/rs/zerolog"
)

// Config holds logger configuration.
type Config struct {
	Level     string `mapstructure:"level"`
	Format    string `mapstructure:"format" validate:"omitempty,oneof=console json"`
	ErrorFile string `mapstructure:"error_file"`
}

// New creates a configured logger writing to out. When cfg.ErrorFile is set,
// error-level events are appended there as JSON. The returned close function
// releases the file.
func New(cfg Config, out io.Writer) (zerolog.Logger, func() error, error) {
	if out == nil {
		out = os.Stderr
	}

	var w io.Writer = out
	if cfg.Format != "json" {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly}
	}

	closeFn := func() error { return nil }
	if cfg.ErrorFile != "" {
		f, err := os.OpenFile(cfg.ErrorFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return zerolog.Nop(), closeFn, errors.Errorf("open error log %s: %w", cfg.ErrorFile, err)
		}
		w = zerolog.MultiLevelWriter(w, &zerolog.FilteredLevelWriter{
			Writer: zerolog.LevelWriterAdapter{Writer: f},
			Level:  zerolog.ErrorLevel,
		})
		closeFn = f.Close
	}

	logger := zerolog.New(w).Level(ParseLevel(cfg.Level)).With().Timestamp().Logger()
	return logger, closeFn, nil
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
