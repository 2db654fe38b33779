package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(NewViper(), filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{"path": "/srv", "theme": "LIGHT", "workers": 3, "show_access_hint": false}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := LoadConfig(NewViper(), path)
	require.NoError(t, err)
	assert.Equal(t, "/srv", cfg.Path)
	assert.Equal(t, "light", cfg.Theme)
	assert.Equal(t, 3, cfg.Workers)
	assert.False(t, cfg.ShowAccessHint)
}

func TestLoadConfigInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	cfg, err := LoadConfig(NewViper(), path)
	require.Error(t, err)
	assert.Equal(t, "dark", cfg.Theme)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"theme": "light"}`), 0o600))
	t.Setenv("CAPACITY_THEME", "dark")
	t.Setenv("CAPACITY_LOG_FILE", "/tmp/capacity.log")

	cfg, err := LoadConfig(NewViper(), path)
	require.NoError(t, err)
	assert.Equal(t, "dark", cfg.Theme)
	assert.Equal(t, "/tmp/capacity.log", cfg.LogFile)
}

func TestFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"workers": 2, "theme": "light"}`), 0o600))

	v := NewViper()
	cmd := &cobra.Command{Use: "test"}
	require.NoError(t, RegisterFlags(cmd, v))
	require.NoError(t, cmd.Flags().Parse([]string{"--workers", "9", "--debug"}))

	cfg, err := LoadConfig(v, path)
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Workers)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "light", cfg.Theme)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		in      Config
		theme   string
		workers int
	}{
		{"unknown theme", Config{Theme: "neon", Workers: 4}, "dark", 4},
		{"zero workers", Config{Theme: "light"}, "light", runtime.NumCPU()},
		{"negative workers", Config{Theme: "Dark", Workers: -1}, "dark", runtime.NumCPU()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalize(tt.in)
			assert.Equal(t, tt.theme, got.Theme)
			assert.Equal(t, tt.workers, got.Workers)
		})
	}
}

func TestSaveConfigPersistsPreferences(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	saved := DefaultConfig()
	saved.Path = "/home/someone"
	saved.Theme = "light"
	saved.ShowAccessHint = false
	saved.Workers = 12
	saved.Debug = true

	require.NoError(t, SaveConfig(saved, path))

	cfg, err := LoadConfig(NewViper(), path)
	require.NoError(t, err)
	assert.Equal(t, "/home/someone", cfg.Path)
	assert.Equal(t, "light", cfg.Theme)
	assert.False(t, cfg.ShowAccessHint)
	assert.Equal(t, DefaultConfig().Workers, cfg.Workers)
	assert.False(t, cfg.Debug)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "workers")
	assert.NotContains(t, string(raw), "debug")
}
