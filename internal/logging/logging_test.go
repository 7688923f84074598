package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":         slog.LevelDebug,
		"debug":    slog.LevelDebug,
		"INFO":     slog.LevelInfo,
		"warning":  slog.LevelWarn,
		"error":    slog.LevelError,
		"critical": LevelCritical,
		"verbose":  slog.LevelDebug,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "ParseLevel(%q)", in)
	}
}

func TestNewWritesLoggerNameAndLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "debug")

	logger.Debug("Статус не обновился.")

	out := buf.String()
	assert.Contains(t, out, "level=DEBUG")
	assert.Contains(t, out, "logger="+LoggerName)
	assert.Contains(t, out, "Статус не обновился.")
	assert.Contains(t, out, "time=")
}

func TestCriticalRenderedByName(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "debug")

	Critical(context.Background(), logger, "missing token")

	assert.Contains(t, buf.String(), "level=CRITICAL")
	assert.NotContains(t, buf.String(), "ERROR+4")
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "error")

	logger.Debug("hidden")
	logger.Error("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
