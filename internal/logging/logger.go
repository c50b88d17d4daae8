// Package logging provides structured logging for the object store engine
// and the tooling around it, as a thin wrapper over go.uber.org/zap.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the logger configuration.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // "json" or "text"
	Output string // "stdout", "stderr", or a file path
}

// Logger wraps a *zap.SugaredLogger, adding the request-ID and persistent-
// field idioms the rest of this module builds on.
type Logger struct {
	sugar     *zap.SugaredLogger
	requestID string
}

// New creates a Logger from cfg.
func New(cfg Config) Logger {
	level := parseLevel(cfg.Level)
	encoder := zapcore.EncoderConfig{
		TimeKey:    "ts",
		LevelKey:   "level",
		MessageKey: "msg",
		EncodeTime: zapcore.RFC3339TimeEncoder,
		EncodeLevel: zapcore.LowercaseLevelEncoder,
	}

	var enc zapcore.Encoder
	if cfg.Format == "json" {
		enc = zapcore.NewJSONEncoder(encoder)
	} else {
		enc = zapcore.NewConsoleEncoder(encoder)
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(openOutput(cfg.Output)), level)
	return Logger{sugar: zap.New(core).Sugar()}
}

// Default returns an Info-level, text-format logger writing to stdout,
// mirroring the teacher's package-level convenience constructor.
func Default() Logger {
	return New(Config{Level: "info", Format: "text", Output: "stdout"})
}

// Nop returns a Logger that discards everything, for tests.
func Nop() Logger {
	return Logger{sugar: zap.NewNop().Sugar()}
}

func openOutput(output string) *os.File {
	switch output {
	case "", "stdout":
		return os.Stdout
	case "stderr":
		return os.Stderr
	default:
		f, err := os.OpenFile(output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return os.Stdout
		}
		return f
	}
}

func parseLevel(s string) zapcore.Level {
	switch s {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func (l Logger) withRequestIDField(keysAndValues []any) []any {
	if l.requestID == "" {
		return keysAndValues
	}
	return append([]any{"request_id", l.requestID}, keysAndValues...)
}

// Debug logs a debug message with optional key-value pairs.
func (l Logger) Debug(msg string, keysAndValues ...any) {
	l.sugar.Debugw(msg, l.withRequestIDField(keysAndValues)...)
}

// Info logs an info message with optional key-value pairs.
func (l Logger) Info(msg string, keysAndValues ...any) {
	l.sugar.Infow(msg, l.withRequestIDField(keysAndValues)...)
}

// Warn logs a warning message with optional key-value pairs.
func (l Logger) Warn(msg string, keysAndValues ...any) {
	l.sugar.Warnw(msg, l.withRequestIDField(keysAndValues)...)
}

// Error logs an error message with optional key-value pairs.
func (l Logger) Error(msg string, keysAndValues ...any) {
	l.sugar.Errorw(msg, l.withRequestIDField(keysAndValues)...)
}

// WithRequestID returns a child logger stamping every entry with requestID
// (a scoped save block ID or a rebuild run ID, typically).
func (l Logger) WithRequestID(requestID string) Logger {
	return Logger{sugar: l.sugar, requestID: requestID}
}

// With returns a child logger carrying the given persistent key-value pairs.
func (l Logger) With(keysAndValues ...any) Logger {
	return Logger{sugar: l.sugar.With(keysAndValues...), requestID: l.requestID}
}

// Sync flushes any buffered log entries.
func (l Logger) Sync() error { return l.sugar.Sync() }
