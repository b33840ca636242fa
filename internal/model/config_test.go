package model

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultAPIBaseURL, cfg.API.BaseURL)
	assert.Equal(t, DefaultAppBaseURL, cfg.App.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Poll.Interval())
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Empty(t, cfg.Metrics.Addr)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "api:\n  base_url: https://api.eventify.test/\npoll:\n  interval_sec: 30\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	t.Setenv("EVENTIFY_BELL_METRICS_ADDR", ":9102")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://api.eventify.test", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Poll.Interval())
	assert.Equal(t, ":9102", cfg.Metrics.Addr)
}

func TestLoadConfig_NonPositiveInterval(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("poll:\n  interval_sec: -4\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultPollIntervalSec, cfg.Poll.IntervalSec)
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	cfg.API.BaseURL = "https://api.example.com"

	require.NoError(t, SaveConfig(path, cfg))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", loaded.API.BaseURL)
}
