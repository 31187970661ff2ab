// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ManuGH/ipcams/internal/log"
	"github.com/rs/zerolog"
)

// sensitiveMarkers mark keys whose values never reach the log.
var sensitiveMarkers = []string{"PASS", "TOKEN", "SECRET", "USER"}

func isSensitive(key string) bool {
	upper := strings.ToUpper(key)
	for _, m := range sensitiveMarkers {
		if strings.Contains(upper, m) {
			return true
		}
	}
	return false
}

// lookupEnv resolves key through parse and logs where the value came from.
// Unset, empty and unparsable values all yield def; only the last warns.
func lookupEnv[T any](logger zerolog.Logger, key string, def T, parse func(string) (T, error)) T {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		logger.Debug().
			Str("key", key).
			Str("default", display(key, def)).
			Str("source", "default").
			Msg("using default value")
		return def
	}

	v, err := parse(raw)
	if err != nil {
		ev := logger.Warn().Str("key", key).Err(err).Str("default", display(key, def))
		if !isSensitive(key) {
			ev = ev.Str("value", raw)
		}
		ev.Msg("invalid environment variable, using default")
		return def
	}

	logger.Debug().
		Str("key", key).
		Str("value", display(key, v)).
		Str("source", "environment").
		Msg("using environment variable")
	return v
}

func display[T any](key string, v T) string {
	if isSensitive(key) {
		return "***"
	}
	return fmt.Sprint(v)
}

// ParseString reads a string from the environment; empty means default.
func ParseString(key, defaultValue string) string {
	return lookupEnv(log.WithComponent("config"), key, defaultValue, func(s string) (string, error) {
		return s, nil
	})
}

// ParseInt reads an integer, falling back to defaultValue on parse errors.
func ParseInt(key string, defaultValue int) int {
	return lookupEnv(log.WithComponent("config"), key, defaultValue, func(s string) (int, error) {
		return strconv.Atoi(strings.TrimSpace(s))
	})
}

// ParseDuration reads a Go duration ("5s", "150ms").
func ParseDuration(key string, defaultValue time.Duration) time.Duration {
	return lookupEnv(log.WithComponent("config"), key, defaultValue, func(s string) (time.Duration, error) {
		return time.ParseDuration(strings.TrimSpace(s))
	})
}

// ParseBool accepts true/false, 1/0 and yes/no in any case.
func ParseBool(key string, defaultValue bool) bool {
	return lookupEnv(log.WithComponent("config"), key, defaultValue, parseBool)
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes":
		return true, nil
	case "false", "0", "no":
		return false, nil
	}
	return false, fmt.Errorf("%w: %q is not a boolean", ErrInvalidValue, s)
}

// ParseStringSlice reads a comma separated list. Blank entries are dropped;
// an unset or blank variable yields defaultValue.
func ParseStringSlice(key string, defaultValue []string) []string {
	raw := ParseString(key, "")
	if raw == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
