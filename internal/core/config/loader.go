package config

import (
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"tokenlint/internal/core/errors"
)

// Load decodes, defaults, normalizes and validates the TOML file at path. Environment
// overrides are applied before validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.AddContext(errors.Wrap(err, errors.CodeNotFound, "config not found"), errors.CtxPath, path)
		}
		return nil, err
	}
	return Parse(string(data))
}

func Parse(data string) (*Config, error) {
	var cfg Config
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeValidationError, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.CodeValidationError, "unknown config key "+undecoded[0].String())
	}

	applyDefaults(&cfg)
	ApplyEnvOverrides(&cfg)
	normalize(&cfg)

	if errs := Validate(&cfg); len(errs) > 0 {
		return nil, errors.Wrap(errs[0], errors.CodeValidationError, "invalid config")
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}
	if cfg.Limits.MaxNodes == 0 {
		cfg.Limits.MaxNodes = DefaultMaxNodes
	}
	if cfg.Limits.MaxSelection == 0 {
		cfg.Limits.MaxSelection = DefaultMaxSelection
	}
	if cfg.Limits.ScanPageWhenEmpty == nil {
		enabled := true
		cfg.Limits.ScanPageWhenEmpty = &enabled
	}
	if strings.TrimSpace(cfg.Output.Format) == "" {
		cfg.Output.Format = "text"
	}
	if strings.TrimSpace(cfg.DB.Driver) == "" {
		cfg.DB.Driver = "sqlite"
	}
	if strings.TrimSpace(cfg.DB.Path) == "" {
		cfg.DB.Path = "tokenlint-history.db"
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if cfg.Resolver.Burst == 0 {
		cfg.Resolver.Burst = 1
	}
	if cfg.Observability.Port == 0 {
		cfg.Observability.Port = 9464
	}
}

func normalize(cfg *Config) {
	cfg.Scan.ReferenceLibrary = strings.TrimSpace(cfg.Scan.ReferenceLibrary)
	cfg.Inputs.Snapshot = strings.TrimSpace(cfg.Inputs.Snapshot)
	cfg.Inputs.Libraries = strings.TrimSpace(cfg.Inputs.Libraries)
	cfg.Output.Format = strings.ToLower(strings.TrimSpace(cfg.Output.Format))
	cfg.DB.Driver = strings.ToLower(strings.TrimSpace(cfg.DB.Driver))
	cfg.DB.Path = strings.TrimSpace(cfg.DB.Path)
}
