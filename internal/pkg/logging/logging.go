package logging

import (
	"io"
	"log/slog"
	"os"
)

// Setup installs the process-wide slog logger. Production emits JSON at info level,
// development emits text at debug level.
func Setup(isProduction bool) *slog.Logger {
	logger := New(os.Stdout, isProduction)
	slog.SetDefault(logger)
	return logger
}

// New builds a logger writing to w.
func New(w io.Writer, isProduction bool) *slog.Logger {
	if isProduction {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
