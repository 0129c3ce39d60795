// Package logger holds the process-wide zap logger.
package logger

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.RWMutex
	global *zap.Logger
)

// Init builds the global logger. environment "development" switches to a
// colored console encoder; anything else logs JSON.
func Init(level string, environment string) error {
	lvl, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if environment == "development" {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	l, err := cfg.Build(zap.AddCaller(), zap.AddCallerSkip(1), zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	Set(l)
	return nil
}

// Set replaces the global logger. Tests use it with zaptest or observer.
func Set(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	global = l
}

// Get returns the global logger, or a no-op logger before Init.
func Get() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if global == nil {
		return zap.NewNop()
	}
	return global
}

// Sync flushes buffered entries.
func Sync() error {
	return Get().Sync()
}

func Debug(msg string, fields ...zap.Field) { Get().Debug(msg, fields...) }
func Info(msg string, fields ...zap.Field)  { Get().Info(msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { Get().Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { Get().Error(msg, fields...) }

// Field helpers.

func String(key, value string) zap.Field                 { return zap.String(key, value) }
func Int(key string, value int) zap.Field                { return zap.Int(key, value) }
func Float64(key string, value float64) zap.Field        { return zap.Float64(key, value) }
func Bool(key string, value bool) zap.Field              { return zap.Bool(key, value) }
func Duration(key string, value time.Duration) zap.Field { return zap.Duration(key, value) }
func Any(key string, value interface{}) zap.Field        { return zap.Any(key, value) }
func ErrorField(err error) zap.Field                     { return zap.Error(err) }
