// Package observability provides structured logging construction.
package observability

import (
	"io"
	"log/slog"

	"github.com/couchcryptid/skewt/internal/config"
)

// NewLogger builds a slog.Logger from the runtime settings. verbose forces
// debug level regardless of LOG_LEVEL. LOG_FORMAT selects text (default) or
// json output.
func NewLogger(w io.Writer, rt config.Runtime, verbose bool) *slog.Logger {
	level := parseLevel(rt.LogLevel)
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if rt.LogFormat == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

func parseLevel(s string) slog.Level {
	switch s {
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
