// Package logging builds the slog loggers used by the CLI and MCP server.
package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Level is a textual log level as it appears in config files and flags.
// Valid values: debug, info, warn, error.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// ErrInvalidLevel is returned for an unrecognized level name.
var ErrInvalidLevel = errors.New("invalid log level")

// UnmarshalText implements encoding.TextUnmarshaler so TOML decoding validates levels.
func (l *Level) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	switch Level(s) {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
		*l = Level(s)
		return nil
	case "":
		*l = ""
		return nil
	default:
		return fmt.Errorf("%w: %q (must be one of: debug, info, warn, error)", ErrInvalidLevel, string(text))
	}
}

// SlogLevel converts l to a slog.Level. Empty means warn: the tool is quiet by default.
func (l Level) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(string(l)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning", "":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidLevel, string(l))
	}
}

// String returns the level name.
func (l Level) String() string {
	return string(l)
}

// New returns a text logger writing to w at the given level.
func New(w io.Writer, level Level) (*slog.Logger, error) {
	lvl, err := level.SlogLevel()
	if err != nil {
		return nil, err
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})
	return slog.New(handler), nil
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// OrDiscard returns logger, or Discard() when logger is nil.
func OrDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return Discard()
	}
	return logger
}
