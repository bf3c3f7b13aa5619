// Package config defines and loads the service configuration.
package config

import (
	"encoding/json"
	"fmt"
	"time"
)

// Config represents the main Sidekick configuration
type Config struct {
	// HTTP server
	Server ServerConfig `json:"server" mapstructure:"server"`

	// Upstream model provider
	Upstream UpstreamConfig `json:"upstream" mapstructure:"upstream"`

	// Session store
	Sessions SessionsConfig `json:"sessions" mapstructure:"sessions"`

	// Logging
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `json:"host" mapstructure:"host"`
	Port int    `json:"port" mapstructure:"port"`
}

// UpstreamConfig holds upstream model provider configuration
type UpstreamConfig struct {
	Provider           string `json:"provider" mapstructure:"provider"` // gemini, anthropic, openai
	APIKey             string `json:"api_key" mapstructure:"api_key"`
	Model              string `json:"model" mapstructure:"model"`
	Endpoint           string `json:"endpoint" mapstructure:"endpoint"`                       // base URL override, gemini only
	TimeoutSeconds     int    `json:"timeout_seconds" mapstructure:"timeout_seconds"`         // explain and transcript ops
	LongTimeoutSeconds int    `json:"long_timeout_seconds" mapstructure:"long_timeout_seconds"` // fix and completion ops
}

// SessionsConfig holds session store configuration
type SessionsConfig struct {
	TTLHours               int `json:"ttl_hours" mapstructure:"ttl_hours"` // negative disables eviction
	MaxTurns               int `json:"max_turns" mapstructure:"max_turns"` // negative disables pruning
	CleanupIntervalMinutes int `json:"cleanup_interval_minutes" mapstructure:"cleanup_interval_minutes"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `json:"level" mapstructure:"level"`
	File   string `json:"file" mapstructure:"file"`
	Pretty bool   `json:"pretty" mapstructure:"pretty"`
}

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8000,
		},
		Upstream: UpstreamConfig{
			Provider:           "gemini",
			Model:              "gemini-2.5-flash",
			TimeoutSeconds:     40,
			LongTimeoutSeconds: 60,
		},
		Sessions: SessionsConfig{
			TTLHours:               24,
			MaxTurns:               500,
			CleanupIntervalMinutes: 15,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Pretty: true,
		},
	}
}

// Timeout returns the upstream timeout for explain-style operations.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Upstream.TimeoutSeconds) * time.Second
}

// LongTimeout returns the upstream timeout for fix and completion
// operations.
func (c *Config) LongTimeout() time.Duration {
	return time.Duration(c.Upstream.LongTimeoutSeconds) * time.Second
}

// String returns a JSON representation of the config with the API key
// masked.
func (c *Config) String() string {
	cp := *c
	if cp.Upstream.APIKey != "" {
		cp.Upstream.APIKey = "[REDACTED]"
	}
	data, _ := json.MarshalIndent(&cp, "", "  ")
	return string(data)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Upstream.APIKey == "" {
		return fmt.Errorf("upstream api_key is required (set it in the config file or via GEMINI_API_KEY)")
	}

	switch c.Upstream.Provider {
	case "gemini", "anthropic", "openai":
	default:
		return fmt.Errorf("invalid upstream provider %s (must be: gemini, anthropic, openai)", c.Upstream.Provider)
	}

	if c.Upstream.TimeoutSeconds <= 0 {
		return fmt.Errorf("upstream timeout_seconds must be positive")
	}
	if c.Upstream.LongTimeoutSeconds <= 0 {
		return fmt.Errorf("upstream long_timeout_seconds must be positive")
	}

	if c.Sessions.CleanupIntervalMinutes <= 0 {
		return fmt.Errorf("sessions cleanup_interval_minutes must be positive")
	}

	return nil
}
