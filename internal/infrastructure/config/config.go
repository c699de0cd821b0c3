// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigDir is the directory name for carshop configuration.
	DefaultConfigDir = ".carshop"
	// DefaultConfigFile is the default config file name.
	DefaultConfigFile = "config.yaml"
	// DefaultDBFile is the default ledger database file name.
	DefaultDBFile = "ledger.db"
)

// Config holds static infrastructure configuration (read-only after init).
type Config struct {
	Admin  string       `yaml:"admin,omitempty" env:"CARSHOP_ADMIN"`
	SQLite SQLiteConfig `yaml:"sqlite,omitempty"`
	HTTP   HTTPConfig   `yaml:"http,omitempty"`
}

// SQLiteConfig holds configuration for the SQLite ledger store.
type SQLiteConfig struct {
	// Path is the file path to the SQLite database.
	Path string `yaml:"path,omitempty" env:"CARSHOP_DB_PATH"`
}

// HTTPConfig holds configuration for the HTTP API server.
type HTTPConfig struct {
	Addr string `yaml:"addr,omitempty" env:"CARSHOP_HTTP_ADDR"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Addr: ":8080",
		},
	}
}

// Load loads configuration from the .carshop directory in the given path,
// starting from defaults and finishing with environment overrides.
func Load(basePath string) (*Config, error) {
	configFile := ConfigFilePath(basePath)

	data, err := os.ReadFile(configFile)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s (run 'carshop init' first)", configFile)
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Start with defaults
	cfg := Default()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Environment variables win over the file
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment overrides: %w", err)
	}

	if cfg.SQLite.Path == "" {
		cfg.SQLite.Path = filepath.Join(ConfigDir(basePath), DefaultDBFile)
	}

	return cfg, nil
}

// ConfigDir returns the path to the .carshop config directory.
func ConfigDir(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir)
}

// ConfigFilePath returns the path to the config file.
func ConfigFilePath(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)
}

// Exists checks if a carshop config exists in the given path.
func Exists(basePath string) bool {
	_, err := os.Stat(ConfigFilePath(basePath))
	return err == nil
}
