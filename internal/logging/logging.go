// Package logging configures the structured logger shared by the CLI and
// the services it drives.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	charmlog "github.com/charmbracelet/log"
)

// Level is a configured log level name.
type Level string

const (
	DebugLevel Level = "debug"
	InfoLevel  Level = "info"
	WarnLevel  Level = "warn"
	ErrorLevel Level = "error"
)

// Format selects how log lines are rendered.
type Format string

const (
	TextFormat Format = "text"
	JSONFormat Format = "json"
)

// Config controls logger construction.
type Config struct {
	Level  Level
	Format Format
	Output io.Writer
}

// DefaultConfig logs warnings and errors as text to stderr, keeping
// command output on stdout clean.
func DefaultConfig() Config {
	return Config{
		Level:  WarnLevel,
		Format: TextFormat,
		Output: os.Stderr,
	}
}

// ParseLevel validates a level name from config or flags.
func ParseLevel(s string) (Level, error) {
	switch l := Level(strings.ToLower(strings.TrimSpace(s))); l {
	case DebugLevel, InfoLevel, WarnLevel, ErrorLevel:
		return l, nil
	}
	return "", fmt.Errorf("unknown log level %q (valid: debug, info, warn, error)", s)
}

// ParseFormat validates a format name from config or flags.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case TextFormat, JSONFormat:
		return f, nil
	}
	return "", fmt.Errorf("unknown log format %q (valid: text, json)", s)
}

func (l Level) charm() charmlog.Level {
	switch l {
	case DebugLevel:
		return charmlog.DebugLevel
	case InfoLevel:
		return charmlog.InfoLevel
	case ErrorLevel:
		return charmlog.ErrorLevel
	default:
		return charmlog.WarnLevel
	}
}

// New builds a logger from cfg. Zero fields fall back to DefaultConfig.
func New(cfg Config) *charmlog.Logger {
	def := DefaultConfig()
	if cfg.Level == "" {
		cfg.Level = def.Level
	}
	if cfg.Format == "" {
		cfg.Format = def.Format
	}
	if cfg.Output == nil {
		cfg.Output = def.Output
	}

	logger := charmlog.NewWithOptions(cfg.Output, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           cfg.Level.charm(),
		Prefix:          "guildkeys",
	})
	if cfg.Format == JSONFormat {
		logger.SetFormatter(charmlog.JSONFormatter)
	} else {
		logger.SetFormatter(charmlog.TextFormatter)
	}
	return logger
}

// Discard returns a logger that drops everything. Services use it when
// no logger is supplied.
func Discard() *charmlog.Logger {
	return charmlog.New(io.Discard)
}

// WithContext attaches logger to ctx.
func WithContext(ctx context.Context, logger *charmlog.Logger) context.Context {
	return charmlog.WithContext(ctx, logger)
}

// FromContext returns the logger attached to ctx, or the package default
// logger of charmbracelet/log when none is attached.
func FromContext(ctx context.Context) *charmlog.Logger {
	if ctx == nil {
		return charmlog.Default()
	}
	return charmlog.FromContext(ctx)
}

// Default returns the process-wide logger.
func Default() *charmlog.Logger { return charmlog.Default() }

// SetDefault replaces the process-wide logger.
func SetDefault(logger *charmlog.Logger) { charmlog.SetDefault(logger) }
