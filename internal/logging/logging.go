package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// wraps a sugared zap logger for CLI use
type Logger struct {
	*zap.SugaredLogger
}

// NewLogger creates a console logger writing to stderr.
// Verbose enables debug level output.
func NewLogger(verbose bool) *Logger {
	level := zap.InfoLevel
	if verbose {
		level = zap.DebugLevel
	}

	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encoderCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")

	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    encoderCfg,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := cfg.Build()
	if err != nil {
		// fall back to a no-op logger rather than failing the CLI
		logger = zap.NewNop()
	}

	return &Logger{logger.Sugar()}
}

func (l *Logger) Close() {
	_ = l.Sync()
}
