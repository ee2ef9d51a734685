package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ResolvedPaths holds the file locations of one session, made absolute against the
// directory of the config file.
type ResolvedPaths struct {
	BaseDir   string
	Snapshot  string
	Libraries string
	DBPath    string
	Report    string
	SARIF     string
}

func ResolvePaths(cfg *Config, baseDir string) (ResolvedPaths, error) {
	if strings.TrimSpace(baseDir) == "" {
		return ResolvedPaths{}, fmt.Errorf("base directory must not be empty")
	}
	base, err := filepath.Abs(baseDir)
	if err != nil {
		return ResolvedPaths{}, err
	}

	resolved := ResolvedPaths{BaseDir: filepath.Clean(base)}
	resolved.Snapshot = resolveOptional(base, cfg.Inputs.Snapshot)
	resolved.Libraries = resolveOptional(base, cfg.Inputs.Libraries)
	resolved.Report = resolveOptional(base, cfg.Output.Report)
	resolved.SARIF = resolveOptional(base, cfg.Output.SARIF)
	if cfg.DB.Enabled {
		resolved.DBPath = ResolveRelative(base, cfg.DB.Path)
	}
	return resolved, nil
}

func resolveOptional(base, value string) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}
	return ResolveRelative(base, value)
}

func ResolveRelative(base, value string) string {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return filepath.Clean(base)
	}
	if filepath.IsAbs(raw) {
		return filepath.Clean(raw)
	}
	return filepath.Clean(filepath.Join(base, raw))
}

// FindConfig walks up from start looking for tokenlint.toml. It returns "" when none exists.
func FindConfig(start string) string {
	abs, err := filepath.Abs(start)
	if err != nil {
		return ""
	}
	dir := abs
	if info, err := os.Stat(abs); err == nil && !info.IsDir() {
		dir = filepath.Dir(abs)
	}
	for {
		candidate := filepath.Join(dir, DefaultConfigFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
