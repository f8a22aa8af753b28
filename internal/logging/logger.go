package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Init configures the global slog logger.
// In production (ENVIRONMENT=production) it uses JSON output for log aggregation.
// Otherwise it uses the human-readable text handler.
func Init(environment, level string) {
	slog.SetDefault(New(os.Stdout, environment, level))
}

// New builds a logger writing to w. level is one of debug, info, warn, error;
// anything else falls back to the environment default.
func New(w io.Writer, environment, level string) *slog.Logger {
	env := strings.ToLower(environment)

	opts := &slog.HandlerOptions{Level: parseLevel(level, env)}

	var handler slog.Handler
	if env == "production" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

func parseLevel(level, env string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	if env == "production" {
		return slog.LevelInfo
	}
	return slog.LevelDebug
}

// WithRequest returns a logger with request context fields attached.
// Use this for all logging while handling a request.
func WithRequest(requestID, method, path string) *slog.Logger {
	return slog.With(
		"request_id", requestID,
		"method", method,
		"path", path,
	)
}
