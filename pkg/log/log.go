// Package log configures the process-wide structured logger.
package log

import (
	"log/slog"
	"os"
)

func Setup(logLevel string) {
	var level slog.Level

	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}

func WithModule(module string) *slog.Logger {
	return slog.With("module", module)
}

// WithWave binds a wave number to an existing logger so every record
// emitted while the wave runs carries it.
func WithWave(logger *slog.Logger, wave int) *slog.Logger {
	return logger.With("wave", wave)
}

// WithBrand binds the brand and scenario of a launch run.
func WithBrand(logger *slog.Logger, brand, scenario string) *slog.Logger {
	return logger.With("brand", brand, "scenario", scenario)
}
