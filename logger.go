package largeview

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// NewLogger returns a structured JSON slog.Logger writing to w at the given
// level.
func NewLogger(w io.Writer, level slog.Leveler) *slog.Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(h).With("component", "largeview")
}

// ParseLogLevel maps "debug", "info", "warn" or "error" to a slog.Level.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
