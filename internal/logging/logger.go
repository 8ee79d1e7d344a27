// Package logging defines the leveled logger contract used across mdpath.
// Libraries default to NoOp so nothing is written unless a host injects a logger.
package logging

import "maps"

// Logger mirrors the leveled interface of github.com/goliatone/go-logger
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// FieldsLogger is implemented by loggers that can carry persistent fields
type FieldsLogger interface {
	WithFields(fields map[string]any) Logger
}

// WithFields attaches fields when the logger supports it, otherwise it
// returns the logger unchanged.
func WithFields(logger Logger, fields map[string]any) Logger {
	if logger == nil {
		return NoOp()
	}
	if len(fields) == 0 {
		return logger
	}
	if fl, ok := logger.(FieldsLogger); ok {
		copied := make(map[string]any, len(fields))
		maps.Copy(copied, fields)
		return fl.WithFields(copied)
	}
	return logger
}

// OrNoOp returns logger, or a no-op logger when logger is nil
func OrNoOp(logger Logger) Logger {
	if logger == nil {
		return NoOp()
	}
	return logger
}

// NoOp returns a logger that discards everything
func NoOp() Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ Logger = noopLogger{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) Logger {
	return n
}
