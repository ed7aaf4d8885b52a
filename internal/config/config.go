// Package config loads the licensewatch settings file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the process settings. All fields come from a single YAML
// file; there is no ambient or per-request configuration state.
type Config struct {
	// Database is the path to the SQLite database file.
	Database string `yaml:"database"`

	// SMTP configures the email channel. Optional: with an empty Host the
	// email channel is disabled and only owner alerts are delivered.
	SMTP SMTPConfig `yaml:"smtp"`
}

// SMTPConfig holds the mail server settings.
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

// Enabled reports whether the email channel is configured.
func (c SMTPConfig) Enabled() bool {
	return c.Host != ""
}

// Load reads and validates a config file.
// Unknown fields are rejected so typos fail fast instead of being ignored.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks cross-field invariants.
func (c Config) Validate() error {
	if c.Database == "" {
		return errors.New("database path is required")
	}
	if c.SMTP.Enabled() {
		if c.SMTP.Port == 0 {
			return errors.New("smtp.port is required when smtp.host is set")
		}
		if c.SMTP.From == "" {
			return errors.New("smtp.from is required when smtp.host is set")
		}
	}
	return nil
}
