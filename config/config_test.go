package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("VENUE_API_BASE_URL", "")
	os.Unsetenv("VENUE_API_BASE_URL")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000", cfg.APIBaseURL)
	assert.Equal(t, ":3000", cfg.Web.Addr)
	assert.Equal(t, 15*time.Second, cfg.Timeout())
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("VENUE_API_BASE_URL", "https://api.example.com")
	t.Setenv("VENUE_REQUEST_TIMEOUT_SECONDS", "3")
	t.Setenv("VENUE_WEB_SECURE_COOKIE", "true")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", cfg.APIBaseURL)
	assert.Equal(t, 3*time.Second, cfg.Timeout())
	assert.True(t, cfg.Web.SecureCookie)
}

func TestLoadFromDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("GO_ENV", "development")
	t.Setenv("VENUE_API_BASE_URL", "")
	os.Unsetenv("VENUE_API_BASE_URL")
	t.Cleanup(func() { os.Unsetenv("VENUE_API_BASE_URL") })
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("VENUE_API_BASE_URL=https://dotenv.example.com\n"), 0o600))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "https://dotenv.example.com", cfg.APIBaseURL)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("VENUE_API_BASE_URL", "")
	os.Unsetenv("VENUE_API_BASE_URL")
	path := filepath.Join(dir, "venue.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_base_url: https://file.example.com\nweb:\n  addr: \":8081\"\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://file.example.com", cfg.APIBaseURL)
	assert.Equal(t, ":8081", cfg.Web.Addr)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("production", "info", &buf)
	logger.Debug("hidden")
	logger.Info("shown", "k", "v")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	assert.Equal(t, slog.LevelWarn, parseLevel("nonsense"))
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
}
