package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile_MissingReturnsDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.StorageDriver)
	assert.Equal(t, 30*time.Minute, cfg.SessionTimeout)
	assert.Equal(t, 50, cfg.DynamicCacheSize)
}

func TestSaveAndLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "config.yaml")

	cfg := DefaultConfig()
	cfg.SessionTimeout = 10 * time.Minute
	cfg.LogLevel = "DEBUG"
	cfg.ImageQuality = 0.5
	require.NoError(t, cfg.SaveFile(path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, loaded.SessionTimeout)
	assert.Equal(t, "DEBUG", loaded.LogLevel)
	assert.InDelta(t, 0.5, loaded.ImageQuality, 1e-9)
}

func TestLoadFile_RejectsUnknownDriver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage_driver: mongo\n"), 0644))

	_, err := LoadFile(path)
	assert.ErrorContains(t, err, "storage_driver")
}

func TestDefaultConfig_EnvOverrides(t *testing.T) {
	t.Setenv("LIFELIST_SESSION_TIMEOUT", "5m")
	t.Setenv("LIFELIST_STORAGE_DRIVER", "postgres")

	cfg := DefaultConfig()
	assert.Equal(t, 5*time.Minute, cfg.SessionTimeout)
	assert.Equal(t, "postgres", cfg.StorageDriver)
}

func TestLoadEnv_FillsUnsetVariables(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("LIFELIST_LOG_LEVEL=DEBUG\nLIFELIST_ADDR=:9999\n"), 0600))

	t.Setenv("LIFELIST_ADDR", ":7000")
	t.Setenv("LIFELIST_LOG_LEVEL", "")
	os.Unsetenv("LIFELIST_LOG_LEVEL")

	require.NoError(t, LoadEnv(filepath.Join(dir, "missing.env"), envFile))

	cfg := DefaultConfig()
	assert.Equal(t, "DEBUG", cfg.LogLevel)
	assert.Equal(t, ":7000", cfg.ServerAddr)
}
