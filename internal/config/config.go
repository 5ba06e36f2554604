// Package config loads the client configuration from ~/.contestctl.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	configDirName  = ".contestctl"
	configFileName = "config"
	configFileType = "toml"
	sessionsDir    = "sessions"

	configFileMode = 0o600
	configDirMode  = 0o700
)

type PlatformConfig struct {
	BaseURL string `mapstructure:"base_url" toml:"base_url"`
}

type Config struct {
	Satori     PlatformConfig `mapstructure:"satori" toml:"satori"`
	Codeforces PlatformConfig `mapstructure:"codeforces" toml:"codeforces"`

	PollIntervalSeconds    int `mapstructure:"poll_interval_seconds" toml:"poll_interval_seconds"`
	PollFailureBudget      int `mapstructure:"poll_failure_budget" toml:"poll_failure_budget"`
	RefreshWorkers         int `mapstructure:"refresh_workers" toml:"refresh_workers"`
	RefreshDeadlineMinutes int `mapstructure:"refresh_deadline_minutes" toml:"refresh_deadline_minutes"`

	BrowserBinary string `mapstructure:"browser_binary" toml:"browser_binary"`
}

func Default() Config {
	return Config{
		Satori:                 PlatformConfig{BaseURL: "https://satori.tcs.uj.edu.pl"},
		Codeforces:             PlatformConfig{BaseURL: "https://codeforces.com/api"},
		PollIntervalSeconds:    3,
		PollFailureBudget:      5,
		RefreshWorkers:         8,
		RefreshDeadlineMinutes: 5,
		BrowserBinary:          "google-chrome",
	}
}

func (c Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

func (c Config) RefreshDeadline() time.Duration {
	return time.Duration(c.RefreshDeadlineMinutes) * time.Minute
}

// Dir resolves the per-user configuration directory, ~/.contestctl.
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(homeDir, configDirName), nil
}

// SessionsDir is where the per-platform session token files live.
func SessionsDir() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, sessionsDir), nil
}

// Load reads config.toml from the configuration directory, falling back to
// defaults when the file is absent.
func Load(cfg *viper.Viper) (Config, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	dir, err := Dir()
	if err != nil {
		return Config{}, err
	}

	defaults := Default()
	cfg.SetConfigName(configFileName)
	cfg.SetConfigType(configFileType)
	cfg.AddConfigPath(dir)
	cfg.SetDefault("satori.base_url", defaults.Satori.BaseURL)
	cfg.SetDefault("codeforces.base_url", defaults.Codeforces.BaseURL)
	cfg.SetDefault("poll_interval_seconds", defaults.PollIntervalSeconds)
	cfg.SetDefault("poll_failure_budget", defaults.PollFailureBudget)
	cfg.SetDefault("refresh_workers", defaults.RefreshWorkers)
	cfg.SetDefault("refresh_deadline_minutes", defaults.RefreshDeadlineMinutes)
	cfg.SetDefault("browser_binary", defaults.BrowserBinary)

	if err := cfg.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var loaded Config
	if err := cfg.Unmarshal(&loaded); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return loaded, nil
}

// WriteDefault writes a fresh config.toml with the default settings. It
// refuses to overwrite an existing file.
func WriteDefault() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, configDirMode); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}

	path := filepath.Join(dir, configFileName+"."+configFileType)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("config file %s already exists", path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("stat config file: %w", err)
	}

	encoded, err := toml.Marshal(Default())
	if err != nil {
		return "", fmt.Errorf("marshal default config: %w", err)
	}
	if err := os.WriteFile(path, encoded, configFileMode); err != nil {
		return "", fmt.Errorf("write config file: %w", err)
	}
	return path, nil
}
