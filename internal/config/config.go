package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ResourcesEnv overrides ResourcesDir when set.
const ResourcesEnv = "FETCHDROID_RESOURCES"

// Destination represents an rclone backup destination for the history database.
type Destination struct {
	Name         string `yaml:"name"`
	RcloneRemote string `yaml:"rclone_remote"`
}

// DeviceConfig stores per-device settings.
type DeviceConfig struct {
	Nickname string `yaml:"nickname,omitempty"`
	WiFiIP   string `yaml:"wifi_ip,omitempty"`
}

// Config is the top-level configuration.
type Config struct {
	ResourcesDir    string                  `yaml:"resources_dir"`
	CommandTimeout  time.Duration           `yaml:"command_timeout"`
	TransferTimeout time.Duration           `yaml:"transfer_timeout"`
	RefreshInterval time.Duration           `yaml:"refresh_interval"`
	MaxParallel     int                     `yaml:"max_parallel"`
	History         bool                    `yaml:"history"`
	LogLevel        string                  `yaml:"log_level"`
	Destinations    []Destination           `yaml:"destinations"`
	Devices         map[string]DeviceConfig `yaml:"devices,omitempty"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ResourcesDir:    filepath.Join(ConfigDir(), "resources"),
		CommandTimeout:  30 * time.Second,
		TransferTimeout: 10 * time.Minute,
		RefreshInterval: 5 * time.Minute,
		MaxParallel:     4,
		History:         true,
		LogLevel:        "info",
		Devices:         make(map[string]DeviceConfig),
	}
}

// ConfigDir returns the config directory path.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "fetchdroid")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "fetchdroid")
}

// ConfigPath returns the config file path.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (*Config, error) {
	path := ConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Devices == nil {
		cfg.Devices = make(map[string]DeviceConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg *Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	path := ConfigPath()
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Validate rejects values no command can run with.
func (c *Config) Validate() error {
	if c.CommandTimeout <= 0 {
		return fmt.Errorf("command_timeout must be positive, got %s", c.CommandTimeout)
	}
	if c.TransferTimeout <= 0 {
		return fmt.Errorf("transfer_timeout must be positive, got %s", c.TransferTimeout)
	}
	if c.RefreshInterval <= 0 {
		return fmt.Errorf("refresh_interval must be positive, got %s", c.RefreshInterval)
	}
	if c.MaxParallel < 1 {
		return fmt.Errorf("max_parallel must be at least 1, got %d", c.MaxParallel)
	}
	return nil
}

// Resources returns the directory searched for bundled platform tools.
// The environment override wins, and ~ is expanded.
func (c *Config) Resources() string {
	dir := c.ResourcesDir
	if env := os.Getenv(ResourcesEnv); env != "" {
		dir = env
	}
	if len(dir) > 0 && dir[0] == '~' {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, dir[1:])
	}
	return dir
}

// Nickname returns the configured nickname for serial, or "".
func (c *Config) Nickname(serial string) string {
	return c.Devices[serial].Nickname
}
