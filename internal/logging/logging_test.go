package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelFromString(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelFromString(tt.in), tt.in)
	}
}

func TestLevelFromVerbosity(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, LevelFromVerbosity(slog.LevelWarn, 0, false))
	assert.Equal(t, slog.LevelInfo, LevelFromVerbosity(slog.LevelWarn, 1, false))
	assert.Equal(t, slog.LevelDebug, LevelFromVerbosity(slog.LevelError, 3, false))
	assert.Greater(t, LevelFromVerbosity(slog.LevelDebug, 2, true), slog.LevelError)
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelInfo, JSONFormat)
	logger.Debug("hidden")
	logger.Info("visible", "records", 3)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.True(t, strings.HasPrefix(out, "{"), "json handler output: %s", out)
	assert.Contains(t, out, `"records":3`)
}

func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, slog.LevelDebug, ParseFormat("text")).Debug("scan", "group", 7)
	assert.Contains(t, buf.String(), "group=7")
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	assert.False(t, logger.Enabled(context.Background(), slog.LevelError))
}
