package slogutil

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// silentLevel sits above every standard slog level, so a handler
// configured with it drops all records.
const silentLevel = slog.Level(100)

// NewLogger wraps w in a line-format logger at the given level.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(NewLineHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewFileLogger opens path in append mode and logs to it. The returned
// file handle belongs to the caller, who must close it.
func NewFileLogger(path string, level slog.Level) (*slog.Logger, *os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}
	return NewLogger(f, level), f, nil
}

// NewDiscardLogger returns a logger whose output goes nowhere. Library
// code substitutes it when the caller passes a nil logger.
func NewDiscardLogger() *slog.Logger {
	return NewLogger(io.Discard, silentLevel)
}

// LevelFromString maps a config level name to a slog.Level. Unknown
// names fall back to info.
func LevelFromString(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// LevelFromVerbosity maps repeated verbosity flags to a console level:
// warn by default, info at one, debug from two up. quiet silences the
// console entirely and wins over any verbosity.
func LevelFromVerbosity(verbosity int, quiet bool) slog.Level {
	switch {
	case quiet:
		return silentLevel
	case verbosity >= 2:
		return slog.LevelDebug
	case verbosity == 1:
		return slog.LevelInfo
	}
	return slog.LevelWarn
}
