package logging

import (
	"io"
	"log/slog"
	"strings"
)

// Format selects the handler used by New.
type Format string

const (
	// TextFormat writes key=value lines.
	TextFormat Format = "text"
	// JSONFormat writes one JSON object per line.
	JSONFormat Format = "json"
)

// levelSilent sits above every standard level.
const levelSilent = slog.Level(100)

// New creates a logger writing to w.
func New(w io.Writer, level slog.Level, format Format) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == JSONFormat {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: levelSilent}))
}

// LevelFromString converts debug, info, warn or error (case-insensitive).
// Unrecognized strings map to info.
func LevelFromString(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseFormat converts "json" or "text"; anything else is text.
func ParseFormat(s string) Format {
	if strings.EqualFold(strings.TrimSpace(s), string(JSONFormat)) {
		return JSONFormat
	}
	return TextFormat
}

// LevelFromVerbosity converts CLI verbosity flags to a level.
//   - quiet: nothing is logged
//   - 0: the configured base level
//   - 1: info
//   - 2 or more: debug
func LevelFromVerbosity(base slog.Level, verbosity int, quiet bool) slog.Level {
	if quiet {
		return levelSilent
	}
	switch {
	case verbosity <= 0:
		return base
	case verbosity == 1:
		return min(base, slog.LevelInfo)
	default:
		return slog.LevelDebug
	}
}
