// Package util provides environment variable parsing helpers shared across components.
package util

import (
	"log/slog"
	"os"
	"strings"
)

// ParseLogLevelEnv parses a slog level from an environment variable with a
// default value. Accepts debug/info/warn/error (case-insensitive). Invalid
// values return the default.
func ParseLogLevelEnv(key string, defaultLevel slog.Level) slog.Level {
	val := os.Getenv(key)
	if val == "" {
		return defaultLevel
	}
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		slog.Warn("ParseLogLevelEnv: invalid level, using default", "key", key, "value", val, "default", defaultLevel)
		return defaultLevel
	}
}
