// Package config loads tool configuration from files and environment.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	// Global settings
	Format  string `mapstructure:"format"`
	Quiet   bool   `mapstructure:"quiet"`
	Verbose bool   `mapstructure:"verbose"`

	// Analysis defaults
	Analysis AnalysisConfig `mapstructure:"analysis"`
}

// AnalysisConfig holds default values for the analysis commands
type AnalysisConfig struct {
	Window      string   `mapstructure:"window"`
	Threshold   int      `mapstructure:"threshold"`
	ErrorLevels []string `mapstructure:"error_levels"`
	Order       string   `mapstructure:"order"`

	MinCount int `mapstructure:"min_count"`

	Bucket      string  `mapstructure:"bucket"`
	Sensitivity float64 `mapstructure:"sensitivity"`
	MaxGap      string  `mapstructure:"max_gap"`

	// Input format: standard, apache, nginx, json, auto
	InputFormat string `mapstructure:"input_format"`

	// Normalization rule toggles
	NormalizeIPs     bool `mapstructure:"normalize_ips"`
	NormalizeUUIDs   bool `mapstructure:"normalize_uuids"`
	NormalizeHexIDs  bool `mapstructure:"normalize_hex_ids"`
	NormalizeNumbers bool `mapstructure:"normalize_numbers"`
}

// Default returns a Config with default values
func Default() *Config {
	return &Config{
		Format: "text",
		Analysis: AnalysisConfig{
			Window:           "5m",
			Threshold:        3,
			ErrorLevels:      []string{"ERROR", "FATAL"},
			Order:            "strict",
			MinCount:         1,
			Bucket:           "1m",
			Sensitivity:      2.0,
			MaxGap:           "5m",
			InputFormat:      "standard",
			NormalizeIPs:     true,
			NormalizeUUIDs:   true,
			NormalizeHexIDs:  true,
			NormalizeNumbers: true,
		},
	}
}

// Load loads configuration from files and environment.
// Config file search order (highest precedence first):
// 1. ./.logtriage.yaml or ./.logtriage.yml
// 2. ~/.logtriage.yaml or ~/.logtriage.yml
// 3. $XDG_CONFIG_HOME/logtriage/config.yaml
// 4. /etc/logtriage/config.yaml
func Load() (*Config, error) {
	cfg := Default()

	configFile := findConfigFile()
	if configFile != "" {
		v := viper.New()
		v.SetConfigFile(configFile)

		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
		if err := v.Unmarshal(cfg); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// findConfigFile searches for a config file in standard locations
func findConfigFile() string {
	names := []string{".logtriage.yaml", ".logtriage.yml", "logtriage.yaml", "logtriage.yml"}

	home, homeErr := os.UserHomeDir()
	configDir, configDirErr := os.UserConfigDir()

	var searchPaths []string
	if cwd, err := os.Getwd(); err == nil {
		searchPaths = append(searchPaths, cwd)
	}
	if homeErr == nil {
		searchPaths = append(searchPaths, home)
	}
	if configDirErr == nil {
		searchPaths = append(searchPaths, filepath.Join(configDir, "logtriage"))
	}
	searchPaths = append(searchPaths, "/etc/logtriage")

	for _, dir := range searchPaths {
		for _, name := range names {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
		path := filepath.Join(dir, "config.yaml")
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOGTRIAGE_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("LOGTRIAGE_QUIET"); v == "true" || v == "1" {
		cfg.Quiet = true
	}
	if v := os.Getenv("LOGTRIAGE_VERBOSE"); v == "true" || v == "1" {
		cfg.Verbose = true
	}
	if v := os.Getenv("LOGTRIAGE_INPUT_FORMAT"); v != "" {
		cfg.Analysis.InputFormat = v
	}
	if v := os.Getenv("LOGTRIAGE_WINDOW"); v != "" {
		cfg.Analysis.Window = v
	}
}
