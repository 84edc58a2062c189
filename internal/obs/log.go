// Package obs holds the observability plumbing: the shared structured
// logger and the prometheus metrics for authentication operations.
package obs

import (
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	loggerOnce sync.Once
	logger     *slog.Logger
)

// Init configures the shared logger with the given level. Safe to call
// once at startup; Logger falls back to info-level JSON output if Init
// was never called.
func Init(level string) {
	loggerOnce.Do(func() {
		logger = newLogger(level)
	})
}

// Logger returns the shared structured logger used across the service.
func Logger() *slog.Logger {
	loggerOnce.Do(func() {
		logger = newLogger("info")
	})
	return logger
}

func newLogger(level string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(level),
	}))
}

func parseLevel(level string) slog.Level {
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
