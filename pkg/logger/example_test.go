package logger_test

import (
	"log/slog"

	"github.com/sixhops/sixhops/pkg/logger"
)

func ExampleNewDefaultLogger() {
	// Create a logger with default settings
	log := logger.NewDefaultLogger(slog.LevelDebug)

	// Log different levels
	log.Debug("This is a debug message")
	log.Info("This is an info message")
	log.Info("Persisting depth ledger") // Will be green in terminal
	log.Warn("This is a warning message")
	log.Error("This is an error message")
}

func ExampleNewLogger() {
	// Create a logger with custom configuration
	log := logger.NewLogger(slog.LevelInfo, "text")

	// Log with attributes
	log.Info("expanding node", "id", "Person(31)", "budget", 2)
	log.Info("Persisting explored depths", "count", 42) // Green
	log.Warn("rate limit approaching", "interval", "1s")
	log.Error("provider fetch failed", "error", "timeout")
}
