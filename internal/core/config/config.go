package config

import (
	"time"

	"tokenlint/internal/engine/lint"
)

type Config struct {
	Version       int           `toml:"version"`
	Scan          Scan          `toml:"scan"`
	Limits        Limits        `toml:"limits"`
	Inputs        Inputs        `toml:"inputs"`
	Output        Output        `toml:"output"`
	DB            Database      `toml:"db"`
	Watch         Watch         `toml:"watch"`
	Resolver      Resolver      `toml:"resolver"`
	Observability Observability `toml:"observability"`
}

// Scan holds the persisted lint settings.
type Scan struct {
	ReferenceLibrary string     `toml:"reference_library"`
	ExcludeLocked    bool       `toml:"exclude_locked"`
	ExcludeHidden    bool       `toml:"exclude_hidden"`
	Exceptions       []string   `toml:"exceptions"`
	Categories       Categories `toml:"categories"`
}

// Categories toggles rule categories. Unset entries default to enabled.
type Categories struct {
	Fill    *bool `toml:"fill"`
	Stroke  *bool `toml:"stroke"`
	Text    *bool `toml:"text"`
	Radius  *bool `toml:"radius"`
	Gap     *bool `toml:"gap"`
	Padding *bool `toml:"padding"`
}

type Limits struct {
	MaxNodes          int   `toml:"max_nodes"`
	MaxSelection      int   `toml:"max_selection"`
	ScanPageWhenEmpty *bool `toml:"scan_page_when_empty"`
}

type Inputs struct {
	Snapshot  string `toml:"snapshot"`
	Libraries string `toml:"libraries"`
}

type Output struct {
	Report string `toml:"report"`
	SARIF  string `toml:"sarif"`
	Format string `toml:"format"`
}

type Database struct {
	Enabled bool   `toml:"enabled"`
	Driver  string `toml:"driver"`
	Path    string `toml:"path"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
}

// Resolver throttles binding lookups against the host.
type Resolver struct {
	RateLimit float64 `toml:"rate_limit"`
	Burst     int     `toml:"burst"`
	Cache     *bool   `toml:"cache"`
}

type Observability struct {
	Enabled       bool   `toml:"enabled"`
	Port          int    `toml:"port"`
	OTLPEndpoint  string `toml:"otlp_endpoint"`
	EnableTracing bool   `toml:"enable_tracing"`
	EnableMetrics bool   `toml:"enable_metrics"`
}

const (
	DefaultMaxNodes     = 5000
	DefaultMaxSelection = 50
	DefaultConfigFile   = "tokenlint.toml"
)

func (c Categories) byCategory() map[lint.Category]*bool {
	return map[lint.Category]*bool{
		lint.CategoryFill:    c.Fill,
		lint.CategoryStroke:  c.Stroke,
		lint.CategoryText:    c.Text,
		lint.CategoryRadius:  c.Radius,
		lint.CategoryGap:     c.Gap,
		lint.CategoryPadding: c.Padding,
	}
}

// ToSettings maps the scan section onto engine settings.
func (c *Config) ToSettings() lint.Settings {
	s := lint.DefaultSettings().WithExceptions(c.Scan.Exceptions)
	s.ReferenceLibraryID = c.Scan.ReferenceLibrary
	s.ExcludeLocked = c.Scan.ExcludeLocked
	s.ExcludeHidden = c.Scan.ExcludeHidden
	for cat, enabled := range c.Scan.Categories.byCategory() {
		if enabled != nil {
			s.Categories[cat] = *enabled
		}
	}
	return s
}

func (l Limits) PageFallback() bool {
	if l.ScanPageWhenEmpty == nil {
		return false
	}
	return *l.ScanPageWhenEmpty
}

func (r Resolver) CacheEnabled() bool {
	if r.Cache == nil {
		return true
	}
	return *r.Cache
}

// Default returns a validated configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}
