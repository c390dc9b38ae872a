// Package log configures structured logging for all services.
package log

import (
	"log/slog"
	"os"
)

// Setup installs the default slog logger. Level is one of debug, info, warn,
// error; format is "text" or "json". Unknown values fall back to info/text.
func Setup(logLevel, format string) {
	opts := &slog.HandlerOptions{Level: parseLevel(logLevel)}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}

func parseLevel(logLevel string) slog.Level {
	switch logLevel {
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

// WithModule returns a logger tagged with the subsystem it belongs to.
func WithModule(module string) *slog.Logger {
	return slog.With("module", module)
}
