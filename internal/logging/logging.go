// Package logging builds the slog loggers used by the services and the
// returns sweep.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ParseLevel maps debug/info/warn(ing)/error to a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
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

// New returns a text logger writing to w. A nil writer discards output.
func New(w io.Writer, level string) *slog.Logger {
	if w == nil {
		w = io.Discard
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)}))
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return New(io.Discard, "error")
}

// Open returns a logger appending to path, creating parent directories.
// If path is empty or the file cannot be opened the logger discards output.
// The returned closer is always non-nil.
func Open(path, level string) (*slog.Logger, io.Closer) {
	if path == "" {
		return Discard(), io.NopCloser(nil)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return Discard(), io.NopCloser(nil)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return Discard(), io.NopCloser(nil)
	}
	return New(f, level), f
}
