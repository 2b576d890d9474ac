package session

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultHistoryLimit is the number of composed payloads kept when the config
// does not say otherwise.
const DefaultHistoryLimit = 16

// Config tunes a Session.
type Config struct {
	// HistoryLimit bounds how many composed payloads are kept for unnamed
	// references. Zero or less keeps DefaultHistoryLimit.
	HistoryLimit     int    `yaml:"history_limit"`
	StrictReferences bool   `yaml:"strict_references"`
	FixturesDir      string `yaml:"fixtures_dir,omitempty"`
}

func defaultConfig() *Config {
	return &Config{HistoryLimit: DefaultHistoryLimit}
}

// LoadConfig reads a YAML config file. A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = DefaultHistoryLimit
	}
	return cfg, nil
}
