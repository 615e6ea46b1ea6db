package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all application configuration
type Config struct {
	Version int           `toml:"version"`
	API     APIConfig     `toml:"api"`
	Feed    FeedConfig    `toml:"feed"`
	Session SessionConfig `toml:"session"`
	Daemon  DaemonConfig  `toml:"daemon"`
}

type APIConfig struct {
	BaseURL         string `toml:"base_url"`
	CredentialsPath string `toml:"credentials_path"`
	MaxRetries      int    `toml:"max_retries"`
	RetryDelaySecs  int    `toml:"retry_delay_seconds"`
}

type FeedConfig struct {
	Limit int `toml:"limit"`
}

type SessionConfig struct {
	// UseSearch also queries the search API during partner checks.
	// Off by default: that endpoint is slow and fails often.
	UseSearch bool `toml:"use_search"`
	// Archive records every briefed post in the local SQLite archive.
	Archive bool `toml:"archive"`
}

type DaemonConfig struct {
	Schedule string `toml:"schedule"`
	Timezone string `toml:"timezone"`
}

// Default returns a Config with sensible defaults
func Default() *Config {
	return &Config{
		Version: 1,
		API: APIConfig{
			MaxRetries:     3,
			RetryDelaySecs: 10,
		},
		Feed: FeedConfig{
			Limit: 25,
		},
		Session: SessionConfig{
			UseSearch: false,
			Archive:   true,
		},
		Daemon: DaemonConfig{
			Schedule: "0 */2 * * *",
			Timezone: "UTC",
		},
	}
}

// ConfigDir returns the platform-appropriate config directory
func ConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "moltbook"), nil
}

// ConfigPath returns the full path to the config file
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads config from disk
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadOrDefault reads config from disk, falling back to defaults when
// no config file exists yet
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Save writes config to disk
func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(c)
}
