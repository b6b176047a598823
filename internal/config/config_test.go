package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.True(t, cfg.ConservativeGuard)
	assert.Equal(t, 2, cfg.MinDepth)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 120*time.Second, cfg.CommandTimeout.Std())
	assert.False(t, cfg.Shred)
	assert.NotEmpty(t, cfg.CleanersDir)
	assert.NotEmpty(t, cfg.AuditLog)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
workers: 8
shred: true
whitelist:
  - /home/me/keep
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Workers)
	assert.True(t, cfg.Shred)
	assert.Equal(t, []string{"/home/me/keep"}, cfg.Whitelist)
	// Untouched fields keep their defaults.
	assert.Equal(t, 2, cfg.MinDepth)
	assert.True(t, cfg.ConservativeGuard)
}

func TestLoadDurationSyntax(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("command_timeout: 90s\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, cfg.CommandTimeout.Std())
}

func TestLoadBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("command_timeout: ninety\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid duration")
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("wrokers: 8\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadExplicitMissingFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadValidation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: 0\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workers")
}
