package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the server configuration. Values come from an optional YAML
// file (CONFIG_PATH) with environment variables taking precedence.
type Config struct {
	Addr          string `yaml:"addr"`
	DatabaseURL   string `yaml:"database_url"`
	EnableMetrics bool   `yaml:"enable_metrics"`
}

func defaults() *Config {
	return &Config{
		Addr: ":8080",
	}
}

// Load builds the configuration from defaults, the optional YAML file and
// the environment, in that order.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if v := os.Getenv("ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("DB_DSN"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("ENABLE_METRICS"); v != "" {
		cfg.EnableMetrics = strings.EqualFold(v, "true")
	}

	return cfg, nil
}

// LoadAndValidate loads the configuration and rejects incomplete setups.
func LoadAndValidate() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that required settings are present.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("addr must not be empty")
	}
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("database_url is required (set DB_DSN or database_url in the config file)")
	}
	return nil
}
