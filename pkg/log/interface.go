// Package log provides a structured logging interface for attribute selection
// and classification.
//
// The Logger interface is slog-compatible so the backend can be swapped.
// The default backend is zerolog (see provider.go); tests use TestLogger.
//
// Example usage:
//
//	logger := log.GetLoggerWithName("attrsel").With(
//	    log.EvaluatorKey, "CfsSubsetEval",
//	)
//	logger.Info("Selection finished",
//	    log.SelectedKey, 3,
//	    log.MeritKey, 0.71,
//	)
package log

import (
	"context"
)

// Logger is a structured logger with key/value fields.
type Logger interface {
	// Debug logs detailed diagnostic information, such as every subset
	// expanded by a search.
	Debug(msg string, fields ...any)

	// Info logs operational milestones such as a finished Fit.
	Info(msg string, fields ...any)

	// Warn logs conditions that do not stop the operation.
	Warn(msg string, fields ...any)

	// Error logs failures. If the first field is an error it is attached as
	// the record's error value.
	//
	// Example:
	//   logger.Error("Fit failed", err, log.OperationKey, log.OperationFit)
	Error(msg string, fields ...any)

	// With returns a Logger that adds fields to every record.
	With(fields ...any) Logger

	// Enabled reports whether records at level are emitted.
	Enabled(ctx context.Context, level Level) bool
}

// Level is a logging level, numerically compatible with slog.Level.
type Level int

const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

// String returns the level name.
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

// LoggerProvider creates loggers. The package-level functions delegate to
// the provider installed with SetProvider.
type LoggerProvider interface {
	// GetLogger returns the default logger instance.
	GetLogger() Logger

	// GetLoggerWithName returns a logger tagged with a component name.
	GetLoggerWithName(name string) Logger

	// SetLevel sets the minimum level for loggers created by this provider.
	SetLevel(level Level)
}
