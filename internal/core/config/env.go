package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Pattern: TOKENLINT_[SECTION]_[KEY] (e.g., TOKENLINT_SCAN_REFERENCE_LIBRARY).
func ApplyEnvOverrides(cfg *Config) {
	// Scan
	setEnvString(&cfg.Scan.ReferenceLibrary, "TOKENLINT_SCAN_REFERENCE_LIBRARY")
	setEnvBool(&cfg.Scan.ExcludeLocked, "TOKENLINT_SCAN_EXCLUDE_LOCKED")
	setEnvBool(&cfg.Scan.ExcludeHidden, "TOKENLINT_SCAN_EXCLUDE_HIDDEN")
	setEnvList(&cfg.Scan.Exceptions, "TOKENLINT_SCAN_EXCEPTIONS")

	// Limits
	setEnvInt(&cfg.Limits.MaxNodes, "TOKENLINT_LIMITS_MAX_NODES")
	setEnvInt(&cfg.Limits.MaxSelection, "TOKENLINT_LIMITS_MAX_SELECTION")

	// Inputs
	setEnvString(&cfg.Inputs.Snapshot, "TOKENLINT_INPUTS_SNAPSHOT")
	setEnvString(&cfg.Inputs.Libraries, "TOKENLINT_INPUTS_LIBRARIES")

	// Database
	setEnvBool(&cfg.DB.Enabled, "TOKENLINT_DB_ENABLED")
	setEnvString(&cfg.DB.Path, "TOKENLINT_DB_PATH")

	// Watch
	setEnvDuration(&cfg.Watch.Debounce, "TOKENLINT_WATCH_DEBOUNCE")

	// Resolver
	setEnvFloat64(&cfg.Resolver.RateLimit, "TOKENLINT_RESOLVER_RATE_LIMIT")
	setEnvInt(&cfg.Resolver.Burst, "TOKENLINT_RESOLVER_BURST")

	// Observability
	setEnvBool(&cfg.Observability.Enabled, "TOKENLINT_OBSERVABILITY_ENABLED")
	setEnvInt(&cfg.Observability.Port, "TOKENLINT_OBSERVABILITY_PORT")
	setEnvString(&cfg.Observability.OTLPEndpoint, "TOKENLINT_OBSERVABILITY_OTLP_ENDPOINT")
	setEnvBool(&cfg.Observability.EnableTracing, "TOKENLINT_OBSERVABILITY_ENABLE_TRACING")
	setEnvBool(&cfg.Observability.EnableMetrics, "TOKENLINT_OBSERVABILITY_ENABLE_METRICS")
}

func setEnvString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		*target = val
	}
}

func setEnvList(target *[]string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		parts := strings.Split(val, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		*target = out
	}
}

func setEnvInt(target *int, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = i
		}
	}
}

func setEnvBool(target *bool, key string) {
	if val, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(strings.ToLower(val))
		if err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = b
		}
	}
}

func setEnvFloat64(target *float64, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = f
		}
	}
}

func setEnvDuration(target *time.Duration, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = d
		}
	}
}
