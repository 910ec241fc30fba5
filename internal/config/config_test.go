package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "https://api.tvmaze.com", cfg.API.BaseURL)
	assert.Equal(t, BackendBolt, cfg.Storage.Backend)
	assert.Equal(t, "shows", cfg.UI.DefaultSearch)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
api:
  base_url: http://localhost:9999
  timeout: 5s
storage:
  backend: sqlite
  path: /tmp/boxoffice-test.sqlite
  session_ttl: 1h
ui:
  default_search: people
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9999", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, "/tmp/boxoffice-test.sqlite", cfg.Storage.Path)
	assert.Equal(t, time.Hour, cfg.Storage.SessionTTL)
	assert.Equal(t, "people", cfg.UI.DefaultSearch)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Unset keys keep their defaults
	assert.Equal(t, DefaultConfig().Logging.File, cfg.Logging.File)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("BOXOFFICE_STORAGE_BACKEND", "memory")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  backend: bolt\n"), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.Storage.Backend)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig_InvalidBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  backend: redis\n"), 0644))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown storage backend")
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Storage.Backend = BackendSQLite
	cfg.API.Timeout = 7 * time.Second

	written, err := SaveConfig(cfg, path)
	require.NoError(t, err)
	assert.Equal(t, path, written)

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, loaded.Storage.Backend)
	assert.Equal(t, 7*time.Second, loaded.API.Timeout)
	assert.Equal(t, cfg.Storage.Path, loaded.Storage.Path)
}
