package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Game.Height)
	assert.Equal(t, 3, cfg.Game.Width)
	assert.Equal(t, 2*time.Second, cfg.IdleTimeout())
	assert.Equal(t, '◯', cfg.Theme.Symbols.Noughts)
	assert.Equal(t, StorageFile, cfg.Storage.Backend)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `{
		"game": {"default_height": 4, "default_width": 6},
		"storage": {"save_dir": "/tmp/noughts-saves"},
		"log_level": "debug"
	}`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Game.Height)
	assert.Equal(t, 6, cfg.Game.Width)
	assert.Equal(t, 2000, cfg.Game.IdleTimeoutMs, "unset keys keep defaults")
	assert.Equal(t, "/tmp/noughts-saves", cfg.SaveDir())
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("NOUGHTS_WIDTH", "5")
	t.Setenv("NOUGHTS_STORAGE", "redis")
	t.Setenv("NOUGHTS_REDIS_ADDR", "localhost:6379")

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Game.Width)
	assert.Equal(t, StorageRedis, cfg.Storage.Backend)
	assert.Equal(t, "localhost:6379", cfg.Storage.RedisAddr)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"control symbol", `{"theme": {"symbols": {"noughts": 7, "crosses": 88, "empty": 32}}}`},
		{"same symbols", `{"theme": {"symbols": {"noughts": 88, "crosses": 88, "empty": 32}}}`},
		{"zero width", `{"game": {"default_width": -1}}`},
		{"unknown backend", `{"storage": {"backend": "floppy"}}`},
		{"redis without addr", `{"storage": {"backend": "redis"}}`},
		{"bad log level", `{"log_level": "loud"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))

			var invalid *InvalidConfig
			require.ErrorAs(t, err, &invalid)
		})
	}
}

func TestLoad_BrokenFile(t *testing.T) {
	_, err := Load(writeConfig(t, `{"game": `))
	require.Error(t, err)
}

func TestSaveDir_Default(t *testing.T) {
	cfg := DefaultConfig
	assert.Equal(t, "saves", filepath.Base(cfg.SaveDir()))
	assert.Equal(t, appDir, filepath.Base(filepath.Dir(cfg.SaveDir())))
}
