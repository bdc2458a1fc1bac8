package logger_test

import (
	"log/slog"

	"github.com/soundprediction/medgraph/pkg/logger"
)

func ExampleNewDefaultLogger() {
	// Create a logger with default settings
	log := logger.NewDefaultLogger(slog.LevelDebug)

	// Log different levels
	log.Debug("This is a debug message")
	log.Info("This is an info message")
	log.Info("Edge admitted into graph") // Will be green in terminal
	log.Warn("This is a warning message") // Will be yellow in terminal
	log.Error("This is an error message") // Will be red in terminal
}

func ExampleNewColorHandler() {
	log := logger.NewDefaultLogger(slog.LevelInfo)

	// Log with attributes
	log.Info("Processing request", "session_id", "12345", "cycle", 2)
	log.Info("Candidates admitted", "count", 4, "skipped", 1) // Green
	log.Warn("Rate limit approaching", "current", 95, "limit", 100)
	log.Error("Literature index unavailable", "error", "timeout", "retry_count", 3)
}
