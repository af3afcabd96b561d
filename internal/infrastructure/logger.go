// Package infrastructure provides process-level wiring for the report
// pipeline, currently the slog logger setup.
package infrastructure

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"

	"travelpac/internal/config"
)

// InitializeLogger builds the run-scoped logger from the logging
// configuration and installs it as the slog default. Every record carries a
// run_id attribute so artifacts and log lines from one pass can be matched.
func InitializeLogger(cfg config.LoggingConfig) *slog.Logger {
	logger := createLogger(cfg, os.Stdout)
	slog.SetDefault(logger)
	return logger
}

// createLogger creates a logger writing to w. Split out for testing.
func createLogger(cfg config.LoggingConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Level),
	}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler).With(slog.String("run_id", uuid.NewString()))
}

// parseLogLevel converts a level string to a slog level, defaulting to info.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
