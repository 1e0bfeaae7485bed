// Package cliutil holds plumbing shared by the three command-line front
// ends (validate, schema-validate, generate): diagnostic logging, YAML
// transcoding, and generator output formatting. None of it is imported by
// the schema or jsonvalue packages — the core library never logs.
package cliutil

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"
)

// ErrUnknownLogLevel indicates an unrecognized --log-level value.
var ErrUnknownLogLevel = errors.New("unknown log level")

// ErrUnknownLogFormat indicates an unrecognized --log-format value.
var ErrUnknownLogFormat = errors.New("unknown log format")

// LogConfig holds the --log-level/--log-format flag values shared by all
// three CLI binaries.
type LogConfig struct {
	Level  string
	Format string
}

// NewLogConfig returns a LogConfig with the conventional defaults.
func NewLogConfig() *LogConfig {
	return &LogConfig{Level: "info", Format: "text"}
}

// RegisterFlags adds --log-level and --log-format to flags.
func (c *LogConfig) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.Level, "log-level", c.Level, "log level, one of: debug, info, warn, error")
	flags.StringVar(&c.Format, "log-format", c.Format, "log format, one of: text, json")
}

// NewHandler builds a slog.Handler writing to w per the configured level
// and format.
func (c *LogConfig) NewHandler(w io.Writer) (slog.Handler, error) {
	level, err := parseLevel(c.Level)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(c.Format) {
	case "json":
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}), nil
	case "text":
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownLogFormat, c.Format)
}

func parseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLogLevel, level)
}
