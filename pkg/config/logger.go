package config

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the process-wide zap logger. The level comes from
// LOG_LEVEL (debug, info, warn, error), defaulting to info. Output is
// production JSON with ISO8601 timestamps so log entries line up with the
// trade dates they describe.
func NewLogger() (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if levelStr := os.Getenv("LOG_LEVEL"); levelStr != "" {
		parsed, err := zapcore.ParseLevel(levelStr)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", levelStr, err)
		}
		level = parsed
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	return logger, nil
}
