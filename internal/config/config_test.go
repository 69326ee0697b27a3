package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	cfg, err := Load("", "")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", cfg.APIAddr)
	assert.Equal(t, "kg", cfg.WeightUnit)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Empty(t, cfg.ConfigFile)
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	file := filepath.Join(dir, "warzish.yml")
	require.NoError(t, os.WriteFile(file, []byte("db:\n  path: /tmp/w.db\ntimezone: UTC\nunits:\n  weight: lb\nlog:\n  level: debug\n"), 0o644))
	t.Setenv("WARZISH_LOG_LEVEL", "info")

	cfg, err := Load(file, "")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/w.db", cfg.DBPath)
	assert.Equal(t, "lb", cfg.WeightUnit)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, file, cfg.ConfigFile)
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())
}

func TestLoadRejectsBadValues(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("WARZISH_TIMEZONE", "Mars/Olympus")
	_, err := Load("", "")
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yml"), "")
	assert.Error(t, err)
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
