// Package config provides server configuration loaded from an optional TOML
// file, with defaults and environment variable overrides applied on top.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/stevemurr/simple-blog-server/logging"
)

// BaseConfigFile is read when present and no explicit path is given.
const BaseConfigFile = "config.toml"

// Environment variables that override file values.
const (
	EnvHost            = "HOST"
	EnvPort            = "PORT"
	EnvMaxBodySize     = "MAX_BODY_SIZE"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
	EnvStoreBackend    = "STORE_BACKEND"
	EnvEndpoint        = "RESOURCE_ENDPOINT"
	EnvLabel           = "RESOURCE_LABEL"
	EnvGreeting        = "GREETING"
	EnvRequiredFields  = "REQUIRED_FIELDS"
	EnvLogLevel        = "LOG_LEVEL"
	EnvLogFormat       = "LOG_FORMAT"
	EnvAllowedOrigins  = "ALLOWED_ORIGINS"
)

// Config represents the root server configuration.
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Store      StoreConfig      `toml:"store"`
	Resource   ResourceConfig   `toml:"resource"`
	Validation ValidationConfig `toml:"validation"`
	Logging    logging.Config   `toml:"logging"`
	CORS       CORSConfig       `toml:"cors"`
}

// Load reads and parses the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadOptional behaves like Load but returns an empty Config when the
// file does not exist.
func LoadOptional(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{}, nil
	}
	return cfg, err
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *Config) Finalize() error {
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Store.Finalize(); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	if err := c.Resource.Finalize(); err != nil {
		return fmt.Errorf("resource: %w", err)
	}
	c.Validation.Finalize()
	if err := c.finalizeLogging(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	c.CORS.Finalize()
	return nil
}

func (c *Config) finalizeLogging() error {
	if c.Logging.Level == "" {
		c.Logging.Level = logging.LevelInfo
	}
	if c.Logging.Format == "" {
		c.Logging.Format = logging.FormatText
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = logging.Level(strings.ToLower(v))
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Logging.Format = logging.Format(strings.ToLower(v))
	}
	if err := c.Logging.Level.Validate(); err != nil {
		return err
	}
	return c.Logging.Format.Validate()
}

// splitList parses a comma-separated environment value.
func splitList(v string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
