package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateXDG(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(home, ".local", "share"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(home, ".local", "state"))
	t.Setenv("ENV", "")

	// Keep viper's cwd lookup away from any real config file.
	cwd := t.TempDir()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(cwd))
	t.Cleanup(func() { _ = os.Chdir(old) })
	return home
}

func TestLoadCreatesDefaultConfigFile(t *testing.T) {
	home := isolateXDG(t)

	m, err := NewManager()
	require.NoError(t, err)
	require.NoError(t, m.Load())

	cfg := m.Get()
	assert.EqualValues(t, defaultStorageQuota, cfg.Storage.QuotaBytes)
	assert.Equal(t, 5*time.Second, cfg.Favicon.FetchTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, filepath.Join(home, ".local", "share", "nexus", "nexus.sqlite"), cfg.Storage.Path)

	_, err = os.Stat(filepath.Join(home, ".config", "nexus", "config.toml"))
	assert.NoError(t, err, "first load writes a default config file")
}

func TestLoadReadsConfigFile(t *testing.T) {
	home := isolateXDG(t)

	configDir := filepath.Join(home, ".config", "nexus")
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(`
[storage]
quota_bytes = 1024

[favicon]
fetch_timeout = "2s"

[logging]
level = "debug"
`), 0o644))

	m, err := NewManager()
	require.NoError(t, err)
	require.NoError(t, m.Load())

	cfg := m.Get()
	assert.EqualValues(t, 1024, cfg.Storage.QuotaBytes)
	assert.Equal(t, 2*time.Second, cfg.Favicon.FetchTimeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestEnvironmentOverrides(t *testing.T) {
	isolateXDG(t)
	t.Setenv("NEXUS_LOG_LEVEL", "trace")
	t.Setenv("NEXUS_CURRENCY_API_KEY", "secret")

	m, err := NewManager()
	require.NoError(t, err)
	require.NoError(t, m.Load())

	cfg := m.Get()
	assert.Equal(t, "trace", cfg.Logging.Level)
	assert.Equal(t, "secret", cfg.Currency.APIKey)
}

func TestUnmarshalClampsInvalidValues(t *testing.T) {
	home := isolateXDG(t)

	configDir := filepath.Join(home, ".config", "nexus")
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(`
[storage]
quota_bytes = -5

[favicon]
fetch_timeout = "0s"
`), 0o644))

	m, err := NewManager()
	require.NoError(t, err)
	require.NoError(t, m.Load())

	cfg := m.Get()
	assert.EqualValues(t, 0, cfg.Storage.QuotaBytes, "negative quota means unlimited")
	assert.Equal(t, 5*time.Second, cfg.Favicon.FetchTimeout)
}
