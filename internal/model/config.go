package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Default values used when the config file or a key is missing.
const (
	DefaultAPIBaseURL      = "http://localhost:5000"
	DefaultAppBaseURL      = "http://localhost:3000"
	DefaultPollIntervalSec = 15
	DefaultLogLevel        = "info"
)

// EnvPrefix is prepended to environment overrides, e.g.
// EVENTIFY_BELL_API_BASE_URL.
const EnvPrefix = "EVENTIFY_BELL"

// APIConfig locates the notification API.
type APIConfig struct {
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
}

// AppConfig locates the web app that navigation destinations point into.
type AppConfig struct {
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
}

// PollConfig controls the notification poller.
type PollConfig struct {
	// IntervalSec is how often (in seconds) to fetch notifications.
	IntervalSec int `mapstructure:"interval_sec" yaml:"interval_sec"`
}

// Interval returns the poll interval, falling back to the default for
// non-positive values.
func (p PollConfig) Interval() time.Duration {
	if p.IntervalSec <= 0 {
		return DefaultPollIntervalSec * time.Second
	}
	return time.Duration(p.IntervalSec) * time.Second
}

// JournalConfig locates the read-state journal database.
type JournalConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// LogConfig controls the zerolog output.
type LogConfig struct {
	Path  string `mapstructure:"path" yaml:"path"`
	Level string `mapstructure:"level" yaml:"level"`
}

// MetricsConfig controls the optional Prometheus endpoint. An empty Addr
// disables it.
type MetricsConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

// Config is the top-level application configuration.
type Config struct {
	API     APIConfig     `mapstructure:"api" yaml:"api"`
	App     AppConfig     `mapstructure:"app" yaml:"app"`
	Poll    PollConfig    `mapstructure:"poll" yaml:"poll"`
	Journal JournalConfig `mapstructure:"journal" yaml:"journal"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
}

// ConfigDir returns ~/.config/eventify-bell, or the working directory when
// the home directory cannot be resolved.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "eventify-bell")
}

// DefaultConfigPath returns the default path for the configuration file.
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// defaultConfig returns a sensible default configuration.
func defaultConfig() *Config {
	dir := ConfigDir()
	return &Config{
		API:     APIConfig{BaseURL: DefaultAPIBaseURL},
		App:     AppConfig{BaseURL: DefaultAppBaseURL},
		Poll:    PollConfig{IntervalSec: DefaultPollIntervalSec},
		Journal: JournalConfig{Path: filepath.Join(dir, "journal.db")},
		Log: LogConfig{
			Path:  filepath.Join(dir, "eventify-bell.log"),
			Level: DefaultLogLevel,
		},
	}
}

// newViper returns a viper instance with defaults and environment
// overrides registered.
func newViper(path string) *viper.Viper {
	def := defaultConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("api.base_url", def.API.BaseURL)
	v.SetDefault("app.base_url", def.App.BaseURL)
	v.SetDefault("poll.interval_sec", def.Poll.IntervalSec)
	v.SetDefault("journal.path", def.Journal.Path)
	v.SetDefault("log.path", def.Log.Path)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("metrics.addr", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// A missing file is not an error; defaults and environment overrides apply.
func LoadConfig(path string) (*Config, error) {
	v := newViper(path)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, os.ErrNotExist) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := defaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Poll.IntervalSec <= 0 {
		cfg.Poll.IntervalSec = DefaultPollIntervalSec
	}
	cfg.API.BaseURL = strings.TrimRight(cfg.API.BaseURL, "/")
	cfg.App.BaseURL = strings.TrimRight(cfg.App.BaseURL, "/")

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("api", cfg.API)
	v.Set("app", cfg.App)
	v.Set("poll", cfg.Poll)
	v.Set("journal", cfg.Journal)
	v.Set("log", cfg.Log)
	v.Set("metrics", cfg.Metrics)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
