package logger

import (
	"log/slog"
	"os"
)

// New returns a JSON slog logger writing to stdout. Log level comes from
// EASEL_LOG_LEVEL (debug, info, warn, error); anything else means info.
func New() *slog.Logger {
	level := slog.LevelInfo
	switch os.Getenv("EASEL_LOG_LEVEL") {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
