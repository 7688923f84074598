// Package logging builds the structured logger shared by every component.
//
// Lines are slog text records written to stdout with a fixed logger name
// attribute. slog has no level above ERROR, so LevelCritical is defined here
// and rendered as "CRITICAL" for fatal configuration failures.
package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

// LoggerName is attached to every record as the "logger" attribute.
const LoggerName = "homework_bot"

// LevelCritical sits above slog.LevelError.
const LevelCritical = slog.Level(12)

// ParseLevel converts a LOG_LEVEL value into a slog level.
// Unknown values fall back to DEBUG, the level routine bot events use.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "critical":
		return LevelCritical
	default:
		return slog.LevelDebug
	}
}

// New returns a text logger writing to w at the given minimum level.
func New(w io.Writer, level string) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:       ParseLevel(level),
		ReplaceAttr: replaceLevel,
	})
	return slog.New(handler).With("logger", LoggerName)
}

// replaceLevel renders LevelCritical by name instead of "ERROR+4".
func replaceLevel(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey {
		return a
	}
	if lvl, ok := a.Value.Any().(slog.Level); ok && lvl >= LevelCritical {
		return slog.String(slog.LevelKey, "CRITICAL")
	}
	return a
}

// Critical logs msg at LevelCritical.
func Critical(ctx context.Context, logger *slog.Logger, msg string, args ...any) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Log(ctx, LevelCritical, msg, args...)
}
