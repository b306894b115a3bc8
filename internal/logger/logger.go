// Package logger wraps zap behind package-level functions so the rest of
// the code logs without carrying a logger around.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var global = zap.NewNop()

// Init builds the global logger. Dev mode uses the console encoder.
func Init(level string, dev bool) error {
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}

	cfg := zap.NewProductionConfig()
	if dev {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(parsed)

	built, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	global = built
	return nil
}

// SetNop silences the global logger; used by tests.
func SetNop() {
	global = zap.NewNop()
}

func Debug(msg string, fields ...Field) { global.Debug(msg, fields...) }
func Info(msg string, fields ...Field)  { global.Info(msg, fields...) }
func Warn(msg string, fields ...Field)  { global.Warn(msg, fields...) }
func Error(msg string, fields ...Field) { global.Error(msg, fields...) }
func Fatal(msg string, fields ...Field) { global.Fatal(msg, fields...) }

// Sync flushes buffered log entries.
func Sync() {
	_ = global.Sync()
}
