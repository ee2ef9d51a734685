package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate returns every problem found in cfg, in section order.
func Validate(cfg *Config) []error {
	var errs []error
	for _, check := range []func(*Config) error{
		validateVersion,
		validateScan,
		validateLimits,
		validateOutput,
		validateDatabase,
		validateWatch,
		validateResolver,
		validateObservability,
	} {
		if err := check(cfg); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func validateVersion(cfg *Config) error {
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported config version %d; supported version is 1", cfg.Version)
	}
	return nil
}

func validateScan(cfg *Config) error {
	for i, p := range cfg.Scan.Exceptions {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("scan.exceptions[%d] must not be empty", i)
		}
	}
	return nil
}

func validateLimits(cfg *Config) error {
	if cfg.Limits.MaxNodes < 1 {
		return fmt.Errorf("limits.max_nodes must be >= 1")
	}
	if cfg.Limits.MaxSelection < 1 {
		return fmt.Errorf("limits.max_selection must be >= 1")
	}
	return nil
}

func validateOutput(cfg *Config) error {
	switch cfg.Output.Format {
	case "text", "sarif":
	default:
		return fmt.Errorf("output.format must be one of: text, sarif")
	}
	report := strings.TrimSpace(cfg.Output.Report)
	if report != "" && report == strings.TrimSpace(cfg.Output.SARIF) {
		return fmt.Errorf("output conflict: output.report and output.sarif share the same path %q", report)
	}
	return nil
}

func validateDatabase(cfg *Config) error {
	if cfg.DB.Driver != "sqlite" {
		return fmt.Errorf("db.driver must be sqlite, got %q", cfg.DB.Driver)
	}
	if cfg.DB.Enabled && cfg.DB.Path == "" {
		return fmt.Errorf("db.path must not be empty when db.enabled=true")
	}
	return nil
}

func validateWatch(cfg *Config) error {
	if cfg.Watch.Debounce < 10*time.Millisecond {
		return fmt.Errorf("watch.debounce must be >= 10ms")
	}
	return nil
}

func validateResolver(cfg *Config) error {
	if cfg.Resolver.RateLimit < 0 {
		return fmt.Errorf("resolver.rate_limit must be >= 0")
	}
	if cfg.Resolver.Burst < 1 {
		return fmt.Errorf("resolver.burst must be >= 1")
	}
	return nil
}

func validateObservability(cfg *Config) error {
	if !cfg.Observability.Enabled {
		return nil
	}
	if cfg.Observability.Port < 1 || cfg.Observability.Port > 65535 {
		return fmt.Errorf("observability.port must be between 1 and 65535")
	}
	if cfg.Observability.EnableTracing && strings.TrimSpace(cfg.Observability.OTLPEndpoint) == "" {
		return fmt.Errorf("observability.otlp_endpoint is required when observability.enable_tracing=true")
	}
	return nil
}
