// Package config loads the eegmon configuration from YAML with struct
// defaults and environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-eeg/internal/logging"
	"github.com/cwbudde/algo-eeg/internal/server"
	"github.com/cwbudde/algo-eeg/monitor"
)

// Environment variables that override file settings.
const (
	EnvTransport = "EEGMON_TRANSPORT"
	EnvListen    = "EEGMON_LISTEN"
	EnvLogLevel  = "EEGMON_LOG_LEVEL"
)

// Config is the complete eegmon configuration.
type Config struct {
	Monitor monitor.Config `yaml:"monitor"`
	Server  server.Config  `yaml:"server"`
	Log     logging.Config `yaml:"log"`
}

var validate = validator.New()

// Default returns the configuration used when no file is given.
func Default() (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("set defaults: %w", err)
	}
	return &c, nil
}

// Load reads and validates a YAML configuration file. Keys missing from
// the file keep their defaults; an empty path yields the defaults.
func Load(path string) (*Config, error) {
	c, err := read(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// LoadWithEnv loads config from YAML and overrides it with environment
// variables before validating.
func LoadWithEnv(path string) (*Config, error) {
	c, err := read(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv(EnvTransport); v != "" {
		c.Monitor.Source.Transport = v
	}
	if v := os.Getenv(EnvListen); v != "" {
		c.Server.Listen = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func read(path string) (*Config, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return c, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return c, nil
}

// Validate checks the server and logging sections and the pipeline
// configuration.
func (c *Config) Validate() error {
	if err := validate.Struct(c.Server); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := validate.Struct(c.Log); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	if err := c.Monitor.Validate(); err != nil {
		return err
	}
	return nil
}

// IsValidation reports whether err came from Validate.
func IsValidation(err error) bool {
	var verrs validator.ValidationErrors
	return errors.As(err, &verrs) || errors.Is(err, monitor.ErrConfiguration)
}
