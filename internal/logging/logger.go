package logging

import (
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.Logger

// Init initializes the structured logger
func Init(level string) error {
	config := zap.NewProductionConfig()
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	// Set log level
	switch level {
	case "debug":
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		config.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		config.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	// Development mode for better readability during development
	if os.Getenv("JANUS_ENV") == "development" {
		config.Development = true
		config.Encoding = "console"
		config.EncoderConfig = zapcore.EncoderConfig{
			TimeKey:        "time",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalColorLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		}
	}

	var err error
	logger, err = config.Build()
	if err != nil {
		return err
	}

	return nil
}

// GetLogger returns the global logger instance
func GetLogger() *zap.Logger {
	if logger == nil {
		// Fallback to default production logger
		logger, _ = zap.NewProduction()
	}
	return logger
}

// LogHTTPRequest logs a completed HTTP request with structured fields
func LogHTTPRequest(method, path, requestID string, status int, latency, size int64) {
	GetLogger().Info("http_request",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
		zap.Int("status", status),
		zap.Int64("latency_ms", latency),
		zap.Int64("size_bytes", size),
	)
}

// LogChaosEnabled logs a chaos-mode activation
func LogChaosEnabled(pool, mode string) {
	GetLogger().Info("chaos_enabled",
		zap.String("pool", pool),
		zap.String("mode", mode),
	)
}

// LogChaosDisabled logs a chaos-mode deactivation
func LogChaosDisabled(pool string, wasEnabled bool) {
	GetLogger().Info("chaos_disabled",
		zap.String("pool", pool),
		zap.Bool("was_enabled", wasEnabled),
	)
}

// LogChaosReject logs a request short-circuited with a simulated error
func LogChaosReject(pool, path string) {
	GetLogger().Info("chaos_reject",
		zap.String("pool", pool),
		zap.String("path", path),
	)
}

// LogChaosHangStart logs the start of a deliberate non-response
func LogChaosHangStart(pool, path string) {
	GetLogger().Info("chaos_hang_start",
		zap.String("pool", pool),
		zap.String("path", path),
	)
}

// LogChaosHangRelease logs the end of a deliberate non-response and why it ended
func LogChaosHangRelease(pool, path, reason string, held time.Duration) {
	GetLogger().Info("chaos_hang_release",
		zap.String("pool", pool),
		zap.String("path", path),
		zap.String("reason", reason),
		zap.Duration("held", held),
	)
}

// LogPanicRecovered logs an unexpected handler panic caught at the boundary
func LogPanicRecovered(pool, path string, val interface{}) {
	GetLogger().Error("panic_recovered",
		zap.String("pool", pool),
		zap.String("path", path),
		zap.Any("error", val),
	)
}

// LogHTTPServerStart logs HTTP server startup
func LogHTTPServerStart(addr, pool, releaseID string) {
	GetLogger().Info("http_server_start",
		zap.String("listen_addr", addr),
		zap.String("pool", pool),
		zap.String("release_id", releaseID),
	)
}

// LogInfo logs general info messages with structured fields
func LogInfo(message string, fields map[string]interface{}) {
	GetLogger().Info(message, toZapFields(fields)...)
}

// LogError logs error messages with structured fields
func LogError(message string, fields map[string]interface{}) {
	GetLogger().Error(message, toZapFields(fields)...)
}

func toZapFields(fields map[string]interface{}) []zap.Field {
	zapFields := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		switch val := v.(type) {
		case string:
			zapFields = append(zapFields, zap.String(k, val))
		case int:
			zapFields = append(zapFields, zap.Int(k, val))
		case bool:
			zapFields = append(zapFields, zap.Bool(k, val))
		case float64:
			zapFields = append(zapFields, zap.Float64(k, val))
		default:
			zapFields = append(zapFields, zap.Any(k, v))
		}
	}
	return zapFields
}

// Sync flushes any buffered log entries
func Sync() {
	if logger != nil {
		logger.Sync()
	}
}
