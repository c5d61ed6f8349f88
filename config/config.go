package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds application configuration
type Config struct {
	API struct {
		BaseURL    string `yaml:"base_url"`
		Token      string `yaml:"token"`
		UploadedBy string `yaml:"uploaded_by"`
	} `yaml:"api"`
	Upload struct {
		PollIntervalSeconds int `yaml:"poll_interval_seconds"`
		MaxRetries          int `yaml:"max_retries"`
	} `yaml:"upload"`
}

// Load loads configuration from file or returns defaults
func Load() (*Config, error) {
	cfg := Default()

	configPath := filepath.Join(os.Getenv("HOME"), ".qadesk", "config.yaml")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to file
func (c *Config) Save() error {
	configDir := filepath.Join(os.Getenv("HOME"), ".qadesk")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configPath := filepath.Join(configDir, "config.yaml")
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(configPath, data, 0644)
}

// Default returns default configuration
func Default() *Config {
	cfg := &Config{}

	cfg.API.BaseURL = "http://localhost:5123"
	cfg.API.Token = ""
	cfg.API.UploadedBy = "Current User"
	cfg.Upload.PollIntervalSeconds = 2
	cfg.Upload.MaxRetries = 3

	return cfg
}
