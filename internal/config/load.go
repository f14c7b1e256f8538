package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Environment overrides, named after the variables FNA games already set.
const (
	EnvCaseFallback  = "FNA_CASE_SENSITIVITY_HACK"
	EnvThreadCheck   = "FNA_THREAD_CHECK"
	EnvTitleLocation = "FNA_TITLE_LOCATION"
)

// Load loads configuration with priority: defaults < file < environment < flags.
func Load() (*Config, error) {
	cfg := Default()

	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	applyEnv(cfg)
	applyFlags(cfg)

	return cfg, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	var candidates []string
	for _, dir := range []string{".", ConfigDir()} {
		for _, name := range []string{"config.yaml", "config.yml", "config.toml"} {
			candidates = append(candidates, filepath.Join(dir, name))
		}
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "FNA")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "FNA")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "fna")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "fna")
	}
}

// loadFromFile merges a YAML or TOML file into cfg, picked by extension.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return toml.Unmarshal(data, cfg)
	}
	return yaml.Unmarshal(data, cfg)
}

// applyEnv applies the FNA_* environment overrides. Only "1" enables a
// switch; any other value leaves the file setting alone.
func applyEnv(cfg *Config) {
	if os.Getenv(EnvCaseFallback) == "1" {
		cfg.Title.CaseFallback = true
	}
	if os.Getenv(EnvThreadCheck) == "1" {
		cfg.Debug.ThreadCheck = true
	}
	if dir := os.Getenv(EnvTitleLocation); dir != "" {
		cfg.Title.Root = dir
	}
}
