// Package log: zerolog-backed Logger implementation.
//
// This file provides the default Logger backend on rs/zerolog, plus the
// bridge that routes pkg/errors warnings into structured log records. Types
// from pkg/errors implement zerolog.LogObjectMarshaler, so warnings and
// errors logged here keep their structured fields.

package log

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/mltour/mltour/pkg/errors"
)

// ZerologLogger implements Logger on top of a zerolog.Logger.
type ZerologLogger struct {
	zl zerolog.Logger
}

// NewZerologLogger creates a JSON-emitting logger writing to w at the given
// minimum level.
func NewZerologLogger(w io.Writer, level Level) *ZerologLogger {
	zl := zerolog.New(w).Level(toZerologLevel(level)).With().Timestamp().Logger()
	return &ZerologLogger{zl: zl}
}

// NewConsoleLogger creates a human-readable logger on stderr for CLI use.
func NewConsoleLogger(level Level) *ZerologLogger {
	cw := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	zl := zerolog.New(cw).Level(toZerologLevel(level)).With().Timestamp().Logger()
	return &ZerologLogger{zl: zl}
}

func toZerologLevel(level Level) zerolog.Level {
	switch {
	case level <= LevelDebug:
		return zerolog.DebugLevel
	case level <= LevelInfo:
		return zerolog.InfoLevel
	case level <= LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

// Debug implements Logger.Debug.
func (l *ZerologLogger) Debug(msg string, fields ...any) {
	l.emit(l.zl.Debug(), msg, fields)
}

// Info implements Logger.Info.
func (l *ZerologLogger) Info(msg string, fields ...any) {
	l.emit(l.zl.Info(), msg, fields)
}

// Warn implements Logger.Warn.
func (l *ZerologLogger) Warn(msg string, fields ...any) {
	l.emit(l.zl.Warn(), msg, fields)
}

// Error implements Logger.Error. When the first field is an error it is
// attached as the record's error, with structured details when the type
// implements zerolog.LogObjectMarshaler.
func (l *ZerologLogger) Error(msg string, fields ...any) {
	evt := l.zl.Error()
	if len(fields) > 0 {
		if err, ok := fields[0].(error); ok {
			evt = evt.Err(err)
			// Stack-wrapped errors hide the marshaler inside the chain.
			var m zerolog.LogObjectMarshaler
			if errors.As(err, &m) {
				evt = evt.Object("details", m)
			}
			fields = fields[1:]
		}
	}
	l.emit(evt, msg, fields)
}

// With implements Logger.With.
func (l *ZerologLogger) With(fields ...any) Logger {
	ctx := l.zl.With()
	if len(fields) > 0 {
		ctx = ctx.Fields(fields)
	}
	return &ZerologLogger{zl: ctx.Logger()}
}

// Enabled implements Logger.Enabled.
func (l *ZerologLogger) Enabled(_ context.Context, level Level) bool {
	return toZerologLevel(level) >= l.zl.GetLevel()
}

func (l *ZerologLogger) emit(evt *zerolog.Event, msg string, fields []any) {
	if len(fields) > 0 {
		evt = evt.Fields(fields)
	}
	evt.Msg(msg)
}

// ZerologProvider implements LoggerProvider backed by a shared writer.
type ZerologProvider struct {
	writer io.Writer
	level  Level
}

// NewZerologProvider creates a provider whose loggers write JSON to w.
func NewZerologProvider(w io.Writer, level Level) *ZerologProvider {
	return &ZerologProvider{writer: w, level: level}
}

// GetLogger implements LoggerProvider.GetLogger.
func (p *ZerologProvider) GetLogger() Logger {
	return NewZerologLogger(p.writer, p.level)
}

// GetLoggerWithName implements LoggerProvider.GetLoggerWithName.
func (p *ZerologProvider) GetLoggerWithName(name string) Logger {
	return NewZerologLogger(p.writer, p.level).With(ComponentKey, name)
}

// SetLevel implements LoggerProvider.SetLevel.
func (p *ZerologProvider) SetLevel(level Level) {
	p.level = level
}

// InstallWarningBridge routes pkg/errors warnings (ConvergenceWarning and
// friends) through the given logger so they land in structured output
// instead of the standard library's plain log.
func InstallWarningBridge(l *ZerologLogger) {
	errors.SetZerologWarnFunc(func(w error) {
		evt := l.zl.Warn()
		var m zerolog.LogObjectMarshaler
		if errors.As(w, &m) {
			evt = evt.Object("warning", m)
		} else {
			evt = evt.AnErr("warning", w)
		}
		evt.Msg(w.Error())
	})
}
