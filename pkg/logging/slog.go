package logging

import (
	"log/slog"
	"os"
)

// New builds the process-wide JSON logger. LOG_LEVEL=debug lowers the level;
// everything else logs at info.
func New(service string) *slog.Logger {
	level := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(h).With("service", service)
}
