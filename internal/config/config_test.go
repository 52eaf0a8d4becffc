package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(EnvHome, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultAPIURL, cfg.APIURL)
	assert.Equal(t, DefaultTimeout, cfg.Timeout())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoad_FromFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv(EnvHome, home)

	content := "api_url: https://desk.example.com\ntimeout_seconds: 30\nlog_level: debug\n"
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"), []byte(content), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://desk.example.com", cfg.APIURL)
	assert.Equal(t, 30*time.Second, cfg.Timeout())
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat, "unset fields keep defaults")
}

func TestLoad_MalformedFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv(EnvHome, home)

	require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"), []byte("{{{not yaml"), 0644))

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv(EnvHome, home)

	content := "api_url: https://from-file.example.com\ntimeout_seconds: 30\n"
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"), []byte(content), 0644))

	t.Setenv(EnvAPIURL, "https://from-env.example.com")
	t.Setenv(EnvTimeout, "45")
	t.Setenv(EnvLogLevel, "warn")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://from-env.example.com", cfg.APIURL)
	assert.Equal(t, 45*time.Second, cfg.Timeout())
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_InvalidTimeoutEnvIgnored(t *testing.T) {
	t.Setenv(EnvHome, t.TempDir())
	t.Setenv(EnvTimeout, "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultTimeout, cfg.Timeout())
}

func TestTimeout_NonPositiveFallsBack(t *testing.T) {
	cfg := Config{TimeoutSeconds: 0}
	assert.Equal(t, DefaultTimeout, cfg.Timeout())

	cfg.TimeoutSeconds = -5
	assert.Equal(t, DefaultTimeout, cfg.Timeout())
}

func TestSaveThenLoad(t *testing.T) {
	t.Setenv(EnvHome, t.TempDir())

	cfg := Default()
	cfg.APIURL = "https://desk.internal:8443"
	cfg.TimeoutSeconds = 20
	require.NoError(t, Save(cfg))

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestHome_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvHome, dir)

	assert.Equal(t, dir, Home())
	assert.Equal(t, filepath.Join(dir, "config.yaml"), Path())
}
