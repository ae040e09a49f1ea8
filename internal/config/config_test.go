package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "edge", cfg.Engine)
	assert.Equal(t, "en-US-AriaNeural", cfg.DefaultVoice)
	assert.Equal(t, 5, cfg.CleanupAttempts)
	assert.Equal(t, 100*time.Millisecond, cfg.CleanupDelay)
	assert.Equal(t, int64(1<<20), cfg.MaxBodyBytes)
	assert.Equal(t, "0.0.0.0:8000", cfg.Addr())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9123")
	t.Setenv("ENGINE", "openai")
	t.Setenv("CLEANUP_DELAY", "250ms")
	t.Setenv("XUNFEI_APPID", "app-1")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "9123", cfg.Port)
	assert.Equal(t, "openai", cfg.Engine)
	assert.Equal(t, 250*time.Millisecond, cfg.CleanupDelay)
	assert.Equal(t, "app-1", cfg.XunfeiAppID)
}

func TestLoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	body := `{"port": "8081", "openai_api_key": "sk-test", "probe_audio": true}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(body), 0644))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, "sk-test", cfg.OpenAIAPIKey)
	assert.True(t, cfg.ProbeAudio)
}

func TestLoadConfig_EnvBeatsFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{"port": "8081"}`), 0644))
	t.Setenv("PORT", "8082")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "8082", cfg.Port)
}

func TestLoadConfig_InvalidPort(t *testing.T) {
	t.Setenv("PORT", "http")

	_, err := LoadConfig(t.TempDir())
	assert.ErrorContains(t, err, "invalid port")
}

func TestLoadConfigWithFlags(t *testing.T) {
	t.Setenv("PORT", "8082")
	t.Setenv("ENGINE", "google")

	fs := Flags()
	require.NoError(t, fs.Parse([]string{"--port=9000", "--log-format=console"}))

	cfg, err := LoadConfigWithFlags(t.TempDir(), fs)
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "console", cfg.LogFormat)
	// Unset flags leave the environment in charge.
	assert.Equal(t, "google", cfg.Engine)
}

func TestFlags_Defaults(t *testing.T) {
	fs := Flags()
	require.NoError(t, fs.Parse(nil))

	dir, err := fs.GetString("config-dir")
	require.NoError(t, err)
	assert.Equal(t, ".", dir)

	port, err := fs.GetString("port")
	require.NoError(t, err)
	assert.Equal(t, "8000", port)
}

func TestValidate(t *testing.T) {
	base := Config{Port: "8000", CleanupAttempts: 5, MaxBodyBytes: 10, LogFormat: "json"}
	require.NoError(t, base.Validate())

	c := base
	c.CleanupAttempts = 0
	assert.Error(t, c.Validate())

	c = base
	c.LogFormat = "xml"
	assert.Error(t, c.Validate())

	c = base
	c.MaxBodyBytes = 0
	assert.Error(t, c.Validate())
}
