// Package logging provides the service's structured logger, backed by zerolog.
// Production runs emit JSON; development runs use zerolog's console writer.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Level is a logging severity.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// ParseLevel maps a case-insensitive level name to a Level, defaulting to info.
func ParseLevel(s string) Level {
	switch Level(strings.ToLower(strings.TrimSpace(s))) {
	case LevelDebug:
		return LevelDebug
	case LevelWarn:
		return LevelWarn
	case LevelError:
		return LevelError
	default:
		return LevelInfo
	}
}

// Config holds logger configuration.
type Config struct {
	Level       Level
	ServiceName string
	Environment string
	// JSONFormat selects JSON output; otherwise a human-readable console format.
	JSONFormat bool
	// Output defaults to os.Stdout.
	Output io.Writer
}

func DefaultConfig() Config {
	return Config{
		Level:       LevelInfo,
		ServiceName: "person-views",
		Environment: "development",
		Output:      os.Stdout,
	}
}

// Logger is the structured logging interface used across the service.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// With returns a Logger that adds fields to every entry.
	With(fields ...Field) Logger
	// WithContext returns a Logger tagged with the request id carried by ctx, if any.
	WithContext(ctx context.Context) Logger
}

// Field is a key/value pair attached to a log entry.
type Field struct {
	Key   string
	Value any
}

func F(key string, value any) Field { return Field{Key: key, Value: value} }

func Err(err error) Field { return Field{Key: "error", Value: err} }

type logger struct {
	zl zerolog.Logger
}

func New(cfg Config) Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	if !cfg.JSONFormat {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	zl := zerolog.New(out).
		Level(zerologLevel(cfg.Level)).
		With().
		Timestamp().
		Str("service_name", cfg.ServiceName).
		Str("environment", cfg.Environment).
		Logger()
	return &logger{zl: zl}
}

func zerologLevel(l Level) zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func (l *logger) Debug(msg string, fields ...Field) { addFields(l.zl.Debug(), fields).Msg(msg) }
func (l *logger) Info(msg string, fields ...Field)  { addFields(l.zl.Info(), fields).Msg(msg) }
func (l *logger) Warn(msg string, fields ...Field)  { addFields(l.zl.Warn(), fields).Msg(msg) }
func (l *logger) Error(msg string, fields ...Field) { addFields(l.zl.Error(), fields).Msg(msg) }

func (l *logger) With(fields ...Field) Logger {
	ctx := l.zl.With()
	for _, f := range fields {
		switch v := f.Value.(type) {
		case string:
			ctx = ctx.Str(f.Key, v)
		case error:
			ctx = ctx.AnErr(f.Key, v)
		case fmt.Stringer:
			ctx = ctx.Stringer(f.Key, v)
		default:
			ctx = ctx.Interface(f.Key, v)
		}
	}
	return &logger{zl: ctx.Logger()}
}

func (l *logger) WithContext(ctx context.Context) Logger {
	rid := middleware.GetReqID(ctx)
	if rid == "" {
		return l
	}
	return &logger{zl: l.zl.With().Str("request_id", rid).Logger()}
}

func addFields(event *zerolog.Event, fields []Field) *zerolog.Event {
	for _, f := range fields {
		switch v := f.Value.(type) {
		case string:
			event = event.Str(f.Key, v)
		case int:
			event = event.Int(f.Key, v)
		case int64:
			event = event.Int64(f.Key, v)
		case bool:
			event = event.Bool(f.Key, v)
		case error:
			event = event.AnErr(f.Key, v)
		case time.Duration:
			event = event.Dur(f.Key, v)
		case time.Time:
			event = event.Time(f.Key, v)
		case fmt.Stringer:
			event = event.Stringer(f.Key, v)
		default:
			event = event.Interface(f.Key, v)
		}
	}
	return event
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...Field)               {}
func (nopLogger) Info(string, ...Field)                {}
func (nopLogger) Warn(string, ...Field)                {}
func (nopLogger) Error(string, ...Field)               {}
func (n nopLogger) With(...Field) Logger               { return n }
func (n nopLogger) WithContext(context.Context) Logger { return n }

// Nop returns a Logger that discards everything.
func Nop() Logger { return nopLogger{} }
