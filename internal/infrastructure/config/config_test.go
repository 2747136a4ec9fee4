package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 0.0, cfg.Shell.GridQuantum)
	assert.Equal(t, "./sessions", cfg.Session.Dir)
	assert.Equal(t, 10, cfg.Suggestions.MaxResults)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.RateLimit.Enabled)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("SHELL_GRID_QUANTUM", "8")
	t.Setenv("SESSION_DIR", "/tmp/shell-sessions")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, 8.0, cfg.Shell.GridQuantum)
	assert.Equal(t, "/tmp/shell-sessions", cfg.Session.Dir)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFileOverlay(t *testing.T) {
	t.Setenv("PORT", "9000")

	path := filepath.Join(t.TempDir(), "shell.toml")
	data := []byte(`
[server]
port = "7777"

[shell]
grid_quantum = 4.0

[ratelimit]
enabled = false
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	// File values win, untouched keys keep env/default values.
	assert.Equal(t, "7777", cfg.Server.Port)
	assert.Equal(t, 4.0, cfg.Shell.GridQuantum)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "./sessions", cfg.Session.Dir)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestLoadOrDefault(t *testing.T) {
	cfg := LoadOrDefault()
	assert.NotNil(t, cfg)
	assert.NotEmpty(t, cfg.Server.Port)
}
