// Package logging builds the zap loggers the harvester runs on: a process
// logger plus the per-run child every harvest log line hangs off.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RunIDKey is the field carrying the run identifier on every log line of
// one harvest. The control surface and the run report use the same value.
const RunIDKey = "run_id"

// New returns the process logger. Development gets a colored console
// encoder with wall-clock times for watching a run interactively;
// production gets unsampled JSON. Sampling stays off in both profiles
// because run milestones are low-volume and every one matters when
// reconstructing a session.
func New(development bool) (*zap.Logger, error) {
	var cfg zap.Config
	if development {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Sampling = nil
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

// ForRun returns the child logger for one harvest, tagged with its run
// identifier.
func ForRun(logger *zap.Logger, runID string) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger.With(zap.String(RunIDKey, runID))
}
