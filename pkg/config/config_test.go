package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "/nonexistent/config.yaml")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "127.0.0.1", cfg.ServerHost)
	assert.Equal(t, 4280, cfg.ServerPort)
	assert.Equal(t, "http://localhost:5117", cfg.BackendBaseURL)
	assert.Equal(t, 7, cfg.DefaultPageSize)
	assert.Equal(t, int64(5242880), cfg.MaxUploadBytes)
	assert.NotEmpty(t, cfg.Hostname)
}

func TestNew_WithEnvVar(t *testing.T) {
	t.Setenv("CONFIG_FILE", "/nonexistent/config.yaml")
	t.Setenv("BORROWDESK_SERVER_PORT", "9090")
	t.Setenv("BORROWDESK_BACKEND_BASE_URL", "http://backend.internal:8080")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, "http://backend.internal:8080", cfg.BackendBaseURL)
}

func TestNew_WithConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
server_port: 8080
backend_base_url: http://backend.local:5000
default_page_size: 10
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	t.Setenv("CONFIG_FILE", configPath)

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "http://backend.local:5000", cfg.BackendBaseURL)
	assert.Equal(t, 10, cfg.DefaultPageSize)
}

func TestNew_EnvVarOverridesConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
server_port: 8080
backend_base_url: http://from-file:5000
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	t.Setenv("CONFIG_FILE", configPath)
	t.Setenv("BORROWDESK_BACKEND_BASE_URL", "http://from-env:5000")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, "http://from-env:5000", cfg.BackendBaseURL)
	assert.Equal(t, 8080, cfg.ServerPort)
}

func TestNew_InvalidBackendURL(t *testing.T) {
	t.Setenv("CONFIG_FILE", "/nonexistent/config.yaml")
	t.Setenv("BORROWDESK_BACKEND_BASE_URL", "not a url")

	cfg, err := New()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend_base_url")
}

func TestNew_InvalidPageSize(t *testing.T) {
	t.Setenv("CONFIG_FILE", "/nonexistent/config.yaml")
	t.Setenv("BORROWDESK_DEFAULT_PAGE_SIZE", "0")

	cfg, err := New()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "default_page_size")
}
