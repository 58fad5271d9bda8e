package config

import (
	"fmt"
	"net/url"
	"time"
)

// Config is the top-level readerctl configuration.
type Config struct {
	API      APIConfig      `mapstructure:"api" yaml:"api"`
	App      AppConfig      `mapstructure:"app" yaml:"app"`
	Defaults DefaultsConfig `mapstructure:"defaults" yaml:"defaults"`
}

// APIConfig holds backend connection settings.
type APIConfig struct {
	BaseURL        string `mapstructure:"base_url" yaml:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	Debug          bool   `mapstructure:"debug" yaml:"debug"`
}

// AppConfig identifies this client to the backend.
type AppConfig struct {
	Name    string `mapstructure:"name" yaml:"name"`
	Version string `mapstructure:"version" yaml:"version"`
}

// DefaultsConfig holds local defaults for commands.
type DefaultsConfig struct {
	DataDir  string `mapstructure:"data_dir" yaml:"data_dir"`
	CacheDir string `mapstructure:"cache_dir" yaml:"cache_dir"`
	PageSize int    `mapstructure:"page_size" yaml:"page_size"`
}

// Timeout returns the per-request timeout as a duration.
func (c *APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Validate checks the settings a client cannot run without.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api.base_url %q is not a valid URL", c.API.BaseURL)
	}
	if c.API.TimeoutSeconds < 0 {
		return fmt.Errorf("api.timeout_seconds must not be negative")
	}
	if c.Defaults.PageSize <= 0 {
		return fmt.Errorf("defaults.page_size must be positive")
	}
	return nil
}
