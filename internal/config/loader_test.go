package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sidekick.json")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Server, cfg.Server)
	assert.Equal(t, "gemini", cfg.Upstream.Provider)
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sidekick.json")
	content := `{
		"server": {"host": "0.0.0.0", "port": 9000},
		"upstream": {"provider": "gemini", "api_key": "file-key", "model": "gemini-2.0-pro"},
		"sessions": {"ttl_hours": 12}
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "file-key", cfg.Upstream.APIKey)
	assert.Equal(t, "gemini-2.0-pro", cfg.Upstream.Model)
	assert.Equal(t, 12, cfg.Sessions.TTLHours)

	// Unset fields keep their defaults
	assert.Equal(t, 40, cfg.Upstream.TimeoutSeconds)
	assert.Equal(t, 500, cfg.Sessions.MaxTurns)
}

func TestLoad_GeminiKeyFromEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")

	path := filepath.Join(t.TempDir(), "sidekick.json")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.Upstream.APIKey)
}

func TestLoad_SidekickKeyWinsOverGemini(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "gemini-key")
	t.Setenv("SIDEKICK_API_KEY", "sidekick-key")

	path := filepath.Join(t.TempDir(), "sidekick.json")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sidekick-key", cfg.Upstream.APIKey)
}

func TestLoad_FileKeyWinsOverGeminiEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")

	path := filepath.Join(t.TempDir(), "sidekick.json")
	content := `{"upstream": {"api_key": "file-key"}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "file-key", cfg.Upstream.APIKey)
}

func TestLoad_ProviderFromEnv(t *testing.T) {
	t.Setenv("SIDEKICK_PROVIDER", "anthropic")
	t.Setenv("SIDEKICK_MODEL", "claude-sonnet-4-0")

	path := filepath.Join(t.TempDir(), "sidekick.json")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "anthropic", cfg.Upstream.Provider)
	assert.Equal(t, "claude-sonnet-4-0", cfg.Upstream.Model)
}

func TestGetConfigPath(t *testing.T) {
	loader := NewLoader("/tmp/custom.json")
	assert.Equal(t, "/tmp/custom.json", loader.GetConfigPath())

	defaultLoader := NewLoader("")
	assert.Contains(t, defaultLoader.GetConfigPath(), ".sidekick")
}

func TestLoad_BadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sidekick.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}
