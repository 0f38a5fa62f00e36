package logger

import (
	"log/slog"
	"os"
)

var Log = slog.Default()

func Init(production bool) {
	level := slog.LevelDebug
	if production {
		level = slog.LevelInfo
	}
	// JSON handler for production-ready logging
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	Log = slog.New(handler)
}
