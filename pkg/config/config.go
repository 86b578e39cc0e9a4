// Package config loads the optional cfkit configuration file.
//
// The file lives at $XDG_CONFIG_HOME/cfkit/config.toml (or
// ~/.config/cfkit/config.toml) and is entirely optional: every field
// has a default and CLOUDFLARE_BASE_URL overrides the configured base
// URL. Environment variables referenced as ${VAR} are expanded before
// parsing, so tokens and addresses can stay out of the file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Default Cloudflare endpoints.
const (
	DefaultBaseURL   = "https://api.cloudflare.com/client/v4"
	DefaultSchemaURL = "https://raw.githubusercontent.com/cloudflare/api-schemas/refs/heads/main/openapi.json"
)

// Config holds all cfkit configuration.
type Config struct {
	BaseURL   string      `toml:"base_url"`
	SchemaURL string      `toml:"schema_url"`
	Cache     CacheConfig `toml:"cache"`
	API       APIConfig   `toml:"api"`
}

// CacheConfig controls the schema/response cache.
type CacheConfig struct {
	Backend   string `toml:"backend"` // "file" (default) or "redis"
	Dir       string `toml:"dir"`     // empty means the XDG cache dir
	TTLHours  int    `toml:"ttl_hours"`
	RedisAddr string `toml:"redis_addr"`
}

// APIConfig controls authenticated API calls.
type APIConfig struct {
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		BaseURL:   DefaultBaseURL,
		SchemaURL: DefaultSchemaURL,
		Cache: CacheConfig{
			Backend:   "file",
			TTLHours:  24,
			RedisAddr: "localhost:6379",
		},
		API: APIConfig{
			TimeoutSeconds: 30,
		},
	}
}

// Load reads a TOML config file, expanding ${VAR} references from the
// environment. A missing file returns defaults without error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := toml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Path returns the config file location following the XDG convention.
func Path() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "cfkit", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "cfkit", "config.toml"), nil
}
