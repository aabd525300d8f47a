// Package logging provides a tiny abstraction over slog so downstream code
// depends on a minimal interface (Logger) while letting embedders plug in any
// structured logger. Components log key/value pairs in the
// "component.action.outcome" message convention used throughout the module.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Level is a thin enum for user-friendly level configuration decoupled from slog.
type Level int

const (
	// LevelDebug is the debug logging level.
	LevelDebug Level = iota
	// LevelInfo is the informational logging level.
	LevelInfo
	// LevelWarn is the warning logging level.
	LevelWarn
	// LevelError is the error logging level.
	LevelError
)

// String returns the string representation of the level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a config string ("debug", "info", ...) to a Level.
// Unknown values fall back to LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l Level) slogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Logger defines the minimal logging interface used across the module.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// SlogAdapter wraps *slog.Logger to implement the Logger interface.
type SlogAdapter struct {
	*slog.Logger
}

// Debug logs a debug message.
func (s *SlogAdapter) Debug(msg string, args ...any) { s.Logger.Debug(msg, args...) }

// Info logs an informational message.
func (s *SlogAdapter) Info(msg string, args ...any) { s.Logger.Info(msg, args...) }

// Warn logs a warning message.
func (s *SlogAdapter) Warn(msg string, args ...any) { s.Logger.Warn(msg, args...) }

// Error logs an error message.
func (s *SlogAdapter) Error(msg string, args ...any) { s.Logger.Error(msg, args...) }

// NewSlogAdapter creates a Logger from an existing *slog.Logger.
func NewSlogAdapter(logger *slog.Logger) Logger {
	return &SlogAdapter{Logger: logger}
}

// New creates a text-handler Logger writing to w at the given level.
func New(w io.Writer, level Level) Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level.slogLevel()})
	return &SlogAdapter{Logger: slog.New(handler)}
}

// NewDefault creates a Logger writing to stderr at info level.
func NewDefault() Logger {
	return New(os.Stderr, LevelInfo)
}

// NoOpLogger discards all log output. Useful as a safe default.
type NoOpLogger struct{}

// Debug discards the message.
func (NoOpLogger) Debug(msg string, args ...any) {}

// Info discards the message.
func (NoOpLogger) Info(msg string, args ...any) {}

// Warn discards the message.
func (NoOpLogger) Warn(msg string, args ...any) {}

// Error discards the message.
func (NoOpLogger) Error(msg string, args ...any) {}

// OrNoOp returns l, or a NoOpLogger when l is nil. Components call this at
// construction so they never have to nil-check their logger.
func OrNoOp(l Logger) Logger {
	if l == nil {
		return NoOpLogger{}
	}
	return l
}
