package cmd

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// setupLogger creates a logger with the specified configuration
func setupLogger(logLevel string) zerolog.Logger {
	// Parse log level
	level := zerolog.InfoLevel
	switch logLevel {
	case "debug":
		level = zerolog.DebugLevel
	case "info":
		level = zerolog.InfoLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	// Create logger with pretty console output
	logger := zerolog.New(os.Stderr).
		Level(level).
		With().
		Timestamp().
		Logger().
		Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	return logger
}

// sdkLogger adapts a zerolog logger to the SDK's Logger interface.
type sdkLogger struct {
	logger zerolog.Logger
}

// Debugf implements gpodder.Logger.
func (l sdkLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug().Msgf(format, args...)
}
