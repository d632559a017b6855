package logger

import (
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	globalLogger *zap.Logger
	once         sync.Once
)

// Initialize sets up the process-wide logger. env selects the encoder:
// "prod" emits JSON, anything else a console encoder.
func Initialize(env string) error {
	var err error
	once.Do(func() {
		var config zap.Config
		if env == "prod" {
			config = zap.NewProductionConfig()
			config.EncoderConfig.TimeKey = "timestamp"
			config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		} else {
			config = zap.NewDevelopmentConfig()
			config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}

		if level := os.Getenv("LOG_LEVEL"); level != "" {
			var l zapcore.Level
			if parseErr := l.Set(level); parseErr == nil {
				config.Level = zap.NewAtomicLevelAt(l)
			}
		}

		globalLogger, err = config.Build(zap.AddCallerSkip(1))
		if err != nil {
			err = fmt.Errorf("failed to build logger: %w", err)
			return
		}
		zap.ReplaceGlobals(globalLogger)
	})
	return err
}

// Get returns the global logger, falling back to a no-op logger when
// Initialize was never called (mostly in tests).
func Get() *zap.Logger {
	if globalLogger == nil {
		return zap.NewNop()
	}
	return globalLogger
}

// Sync flushes buffered log entries. Call on shutdown.
func Sync() error {
	if globalLogger == nil {
		return nil
	}
	return globalLogger.Sync()
}
