package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Loader handles configuration loading
type Loader struct {
	configPath string
}

// NewLoader creates a new config loader
func NewLoader(configPath string) *Loader {
	return &Loader{
		configPath: configPath,
	}
}

// Load loads the configuration from file and environment. A missing
// config file yields the defaults; SIDEKICK_* environment variables
// override file values, and GEMINI_API_KEY fills the API key when the
// config does not set one.
func (l *Loader) Load() (*Config, error) {
	configPath := l.configPath
	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configPath = filepath.Join(home, ".sidekick", "sidekick.json")
	}

	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); err == nil {
		v := viper.New()
		v.SetConfigFile(configPath)
		v.SetConfigType("json")

		v.SetEnvPrefix("SIDEKICK")
		v.AutomaticEnv()

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := v.Unmarshal(cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	applyEnv(cfg)

	return cfg, nil
}

// applyEnv fills config fields from the process environment. The Gemini
// key env var matches what the editor plugin docs tell users to export.
func applyEnv(cfg *Config) {
	if cfg.Upstream.APIKey == "" {
		cfg.Upstream.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if key := os.Getenv("SIDEKICK_API_KEY"); key != "" {
		cfg.Upstream.APIKey = key
	}
	if provider := os.Getenv("SIDEKICK_PROVIDER"); provider != "" {
		cfg.Upstream.Provider = provider
	}
	if model := os.Getenv("SIDEKICK_MODEL"); model != "" {
		cfg.Upstream.Model = model
	}
}

// GetConfigPath returns the config file path
func (l *Loader) GetConfigPath() string {
	if l.configPath != "" {
		return l.configPath
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".sidekick", "sidekick.json")
}

// Load is a convenience function that creates a loader and loads the config
func Load(configPath string) (*Config, error) {
	loader := NewLoader(configPath)
	return loader.Load()
}
