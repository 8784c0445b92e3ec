// Package log provides a structured logging interface for mltour runs.
//
// This package defines a minimal, slog-compatible logging interface that allows
// for flexible implementation switching while providing structured logging for
// lesson execution and estimator operations. The interface is designed to
// integrate seamlessly with Go's standard log/slog package and with zerolog,
// which backs the default implementation.
//
// Key features:
//   - slog-compatible interface for future-proofing
//   - tutorial-specific structured attributes (cells, lessons, data shapes, metrics)
//   - Context-aware logging with field chaining
//   - Test-friendly with configurable output destinations
//
// Example usage:
//
//	logger := log.NewConsoleLogger(log.LevelInfo).With(
//	    log.DocTitleKey, "A Tour of Machine Learning",
//	)
//	logger.Info("cell finished",
//	    log.CellNameKey, "linreg-fit",
//	    log.CellIndexKey, 3,
//	    log.DurationMsKey, 12,
//	)
package log

import (
	"context"
)

// Logger defines a structured logging interface compatible with Go's log/slog.
//
// This interface provides the core logging methods with structured field
// support, allowing rich contextual information to be included with log
// messages. It is implementation-agnostic, enabling easy switching between
// logging backends while maintaining a consistent API.
//
// The interface supports method chaining through the With method, allowing
// creation of contextual loggers with pre-populated fields.
type Logger interface {
	// Debug logs a debug-level message with optional structured fields.
	//
	// Example:
	//
	//	logger.Debug("enumerating candidates",
	//	    "grid_size", 4,
	//	)
	Debug(msg string, fields ...any)

	// Info logs an info-level message with optional structured fields.
	//
	// Example:
	//
	//	logger.Info("cell finished",
	//	    log.CellNameKey, "pipeline-fit",
	//	    log.DurationMsKey, 12,
	//	)
	Info(msg string, fields ...any)

	// Warn logs a warning-level message with optional structured fields.
	// Warnings indicate situations that do not stop the run, such as an
	// optimizer stopping at its iteration limit.
	Warn(msg string, fields ...any)

	// Error logs an error-level message with optional structured fields.
	// If an error value is provided as the first field, stack trace
	// information may be automatically included by the backend.
	//
	// Example:
	//
	//	logger.Error("run halted",
	//	    err,
	//	    log.CellNameKey, "gridsearch-fit",
	//	    log.CellIndexKey, 17,
	//	)
	Error(msg string, fields ...any)

	// With returns a new Logger with the given fields pre-populated.
	//
	// Example:
	//
	//	cellLogger := logger.With(
	//	    log.CellNameKey, "clf-fit",
	//	    log.CellIndexKey, 7,
	//	)
	//	cellLogger.Info("running")  // automatically includes cell fields
	With(fields ...any) Logger

	// Enabled reports whether the logger emits log records at the given
	// level. Use it to avoid building expensive attribute values for
	// records that would be dropped.
	Enabled(ctx context.Context, level Level) bool
}

// Level represents a logging level, compatible with slog.Level.
type Level int

// Standard logging levels, values are compatible with slog.Level.
const (
	LevelDebug Level = -4 // Detailed diagnostic information
	LevelInfo  Level = 0  // General operational information
	LevelWarn  Level = 4  // Warning conditions
	LevelError Level = 8  // Error conditions
)

// String returns the string representation of the log level.
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

// LoggerProvider defines an interface for creating and configuring loggers.
// It allows dependency injection and testing with different implementations.
type LoggerProvider interface {
	// GetLogger returns the default logger instance.
	GetLogger() Logger

	// GetLoggerWithName returns a logger with a specific name/component identifier.
	GetLoggerWithName(name string) Logger

	// SetLevel sets the minimum log level for all loggers created by this provider.
	SetLevel(level Level)
}
