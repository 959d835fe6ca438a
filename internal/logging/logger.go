// Package logging builds the leveled slog loggers used across pulsenet.
//
// Three levels are recognized: info (the default), debug (per-press and
// per-subgraph progress) and trace (every pulse delivery).
package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

// LevelTrace sits below Debug. Pulse-by-pulse output is logged here.
const LevelTrace = slog.LevelDebug - 4

// Levels lists the accepted level names in increasing verbosity.
var Levels = []string{"info", "debug", "trace"}

// ParseLevel maps a level name to a slog.Level, case-insensitively.
// Unknown values default to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "trace":
		return LevelTrace
	default:
		return slog.LevelInfo
	}
}

// ValidLevel reports whether s names one of Levels.
func ValidLevel(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, l := range Levels {
		if s == l {
			return true
		}
	}
	return false
}

// NewLogger creates a text slog.Logger writing to w at the named level.
func NewLogger(level string, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(level),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelTrace {
					a.Value = slog.StringValue("TRACE")
				}
			}
			return a
		},
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 4}))
}

// TraceEnabled reports whether l would emit a trace record.
func TraceEnabled(l *slog.Logger) bool {
	return l.Enabled(context.Background(), LevelTrace)
}

// Trace logs msg at LevelTrace.
func Trace(l *slog.Logger, msg string, args ...any) {
	l.Log(context.Background(), LevelTrace, msg, args...)
}
