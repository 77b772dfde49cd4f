package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the flat prodline configuration
type Config struct {
	Version  string `json:"version"`
	Operator string `json:"operator,omitempty"` // stamped into <stage>_done_by on completions
	Line     string `json:"line,omitempty"`     // production line label, informational
}

// LoadConfig reads .prodline/config.json from the specified directory.
// Resolution order: cwd only (no home fallback).
// Returns error if no config found - caller should handle accordingly.
func LoadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, ".prodline", "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

// SaveConfig writes config.json to directory
func SaveConfig(dir string, cfg *Config) error {
	cfgDir := filepath.Join(dir, ".prodline")
	if err := os.MkdirAll(cfgDir, 0755); err != nil {
		return fmt.Errorf("failed to create .prodline dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(cfgDir, "config.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Operator resolves the acting operator: the PRODLINE_OPERATOR environment
// variable wins, then the config file, then the OS user name.
func Operator(cfg *Config) string {
	if op := os.Getenv("PRODLINE_OPERATOR"); op != "" {
		return op
	}
	if cfg != nil && cfg.Operator != "" {
		return cfg.Operator
	}
	return os.Getenv("USER")
}
