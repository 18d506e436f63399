package logger

import (
	"log/slog"
	"os"
)

var defaultLogger *slog.Logger

// Init configures the process-wide logger. Format "json" is meant for
// deployed environments; anything else gets the text handler.
func Init(format string) {
	InitWithLevel(format, "info")
}

// InitWithLevel configures the process-wide logger with an explicit level.
func InitWithLevel(format, level string) {
	var handler slog.Handler

	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)
}

func parseLevel(level string) slog.Level {
	switch level {
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

func L() *slog.Logger {
	if defaultLogger == nil {
		Init("text")
	}
	return defaultLogger
}
