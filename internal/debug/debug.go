// Package debug carries the --debug switch in a context and configures the
// slog logger the API client writes to.
package debug

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

type contextKey string

const debugKey contextKey = "debug_enabled"

// redacted replaces the value of credential attributes in log output.
const redacted = "********"

// WithDebug returns a context with debug mode enabled/disabled.
func WithDebug(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, debugKey, enabled)
}

// IsEnabled returns true if debug mode is enabled in the context.
func IsEnabled(ctx context.Context) bool {
	enabled, _ := ctx.Value(debugKey).(bool)
	return enabled
}

// SetupLoggerTo installs a text logger writing to w as the slog default.
// Debug records are only emitted when debugEnabled is set. Attributes named
// authorization, password or token are masked.
func SetupLoggerTo(w io.Writer, debugEnabled bool) *slog.Logger {
	level := slog.LevelWarn
	if debugEnabled {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: redactCredentials,
	}))
	slog.SetDefault(logger)
	return logger
}

func redactCredentials(_ []string, a slog.Attr) slog.Attr {
	switch strings.ToLower(a.Key) {
	case "authorization", "password", "token":
		return slog.String(a.Key, redacted)
	}
	return a
}
