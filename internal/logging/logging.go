// Package logging provides the structured logger shared across the
// front-end subsystems, replacing the source's fprintf(stderr,
// "[LLE_*] ...") debug side channels with runtime-configurable levels.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// FromEnv builds a logger gated by the LLE_DEBUG / LLE_INTEGRATION_DEBUG
// environment variables (spec §6). Either variable set to a truthy
// value enables debug-level logging; otherwise the logger runs at info.
func FromEnv() *slog.Logger {
	level := slog.LevelInfo
	if truthy(os.Getenv("LLE_DEBUG")) || truthy(os.Getenv("LLE_INTEGRATION_DEBUG")) {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(h)
}

func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "0", "false", "no", "off":
		return false
	default:
		return true
	}
}

// Component returns a child logger tagged with the owning subsystem,
// e.g. Component(nil, "screen") for use before FromEnv has run anywhere
// else (falls back to slog.Default()).
func Component(base *slog.Logger, name string) *slog.Logger {
	if base == nil {
		base = slog.Default()
	}
	return base.With("component", name)
}
