// Package logx is the process-wide logger. It wraps a zap logger behind a
// small leveled API so packages do not thread a logger through every call.
package logx

import (
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level int8

const (
	LevelDebug Level = iota - 1
	LevelInfo
	LevelWarn
	LevelError
)

// Fields are structured key/values attached to an entry.
type Fields map[string]any

var (
	mu    sync.RWMutex
	level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	base  = newLogger("console")
)

func newLogger(format string) *zap.Logger {
	encoderCfg := zapcore.EncoderConfig{
		MessageKey:     "msg",
		LevelKey:       "level",
		TimeKey:        "time",
		CallerKey:      "caller",
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}

	var encoder zapcore.Encoder
	if format == "json" {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	} else {
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level)
	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
}

// Configure rebuilds the logger with the given encoding ("json" or "console").
func Configure(format string, service string) {
	logger := newLogger(format)
	if service != "" {
		logger = logger.With(zap.String("service", service))
	}

	mu.Lock()
	base = logger
	mu.Unlock()
}

// ParseLevel maps debug, warn and error to their levels. Anything else is info.
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

// SetLevel changes the minimum enabled level.
func SetLevel(l Level) {
	level.SetLevel(zapcore.Level(l))
}

// Use replaces the underlying logger and returns a func restoring the previous one.
// Intended for tests that observe log output.
func Use(logger *zap.Logger) (restore func()) {
	mu.Lock()
	prev := base
	base = logger.WithOptions(zap.AddCallerSkip(1))
	mu.Unlock()

	return func() {
		mu.Lock()
		base = prev
		mu.Unlock()
	}
}

// Sync flushes buffered entries.
func Sync() {
	_ = sugar().Sync()
}

func sugar() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return base.Sugar()
}

func Debug(msg string)                  { sugar().Debug(msg) }
func Debugf(format string, args ...any) { sugar().Debugf(format, args...) }
func Info(msg string)                   { sugar().Info(msg) }
func Infof(format string, args ...any)  { sugar().Infof(format, args...) }
func Warn(msg string)                   { sugar().Warn(msg) }
func Warnf(format string, args ...any)  { sugar().Warnf(format, args...) }
func Error(msg string)                  { sugar().Error(msg) }
func Errorf(format string, args ...any) { sugar().Errorf(format, args...) }
func Fatalf(format string, args ...any) { sugar().Fatalf(format, args...) }

// Entry is a logger carrying structured fields.
type Entry struct {
	logger *zap.SugaredLogger
}

// WithFields returns an entry that attaches fields to every message.
func WithFields(fields Fields) *Entry {
	kv := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		kv = append(kv, k, v)
	}
	return &Entry{logger: sugar().With(kv...)}
}

// WithError is shorthand for WithFields(Fields{"error": err}).
func WithError(err error) *Entry {
	return WithFields(Fields{"error": err})
}

func (e *Entry) WithFields(fields Fields) *Entry {
	kv := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		kv = append(kv, k, v)
	}
	return &Entry{logger: e.logger.With(kv...)}
}

func (e *Entry) Debugf(format string, args ...any) { e.logger.Debugf(format, args...) }
func (e *Entry) Info(msg string)                   { e.logger.Info(msg) }
func (e *Entry) Infof(format string, args ...any)  { e.logger.Infof(format, args...) }
func (e *Entry) Warn(msg string)                   { e.logger.Warn(msg) }
func (e *Entry) Warnf(format string, args ...any)  { e.logger.Warnf(format, args...) }
func (e *Entry) Error(msg string)                  { e.logger.Error(msg) }
func (e *Entry) Errorf(format string, args ...any) { e.logger.Errorf(format, args...) }
