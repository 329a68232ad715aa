package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/JaimeStill/filevault/internal/client"
	"github.com/JaimeStill/filevault/internal/workflow"
	"github.com/JaimeStill/filevault/pkg/envvar"
	"github.com/pelletier/go-toml/v2"
)

const defaultConfigFile = "vault.toml"

const (
	EnvClientBaseURL         = "VAULT_CLIENT_BASE_URL"
	EnvClientUserID          = "VAULT_CLIENT_USER_ID"
	EnvClientApproveAttempts = "VAULT_CLIENT_APPROVE_ATTEMPTS"
	EnvClientApproveBackoff  = "VAULT_CLIENT_APPROVE_BACKOFF"
	EnvClientDiscardOnReject = "VAULT_CLIENT_DISCARD_ON_REJECT"
	EnvClientLogLevel        = "VAULT_CLIENT_LOG_LEVEL"
	EnvClientTimeout         = "VAULT_CLIENT_TIMEOUT"
)

// Config is the client configuration read from vault.toml and
// VAULT_CLIENT_* variables.
type Config struct {
	BaseURL         string `toml:"base_url"`
	UserID          string `toml:"user_id"`
	ApproveAttempts int    `toml:"approve_attempts"`
	ApproveBackoff  string `toml:"approve_backoff"`
	DiscardOnReject bool   `toml:"discard_on_reject"`
	LogLevel        string `toml:"log_level"`
	// Timeout bounds a single HTTP call when set. Empty means no limit.
	// Approval extracts inline, so a limit should exceed the server's
	// extraction timeout.
	Timeout string `toml:"timeout"`
}

// ApproveBackoffDuration returns ApproveBackoff as a time.Duration.
func (c *Config) ApproveBackoffDuration() time.Duration {
	d, _ := time.ParseDuration(c.ApproveBackoff)
	return d
}

// TimeoutDuration returns Timeout as a time.Duration, zero when unset.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Workflow returns the coordinator settings carried by the config.
func (c *Config) Workflow() workflow.Config {
	return workflow.Config{
		ApproveAttempts: c.ApproveAttempts,
		ApproveBackoff:  c.ApproveBackoffDuration(),
		DiscardOnReject: c.DiscardOnReject,
	}
}

func (c *Config) level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelWarn
	}
	return l
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

func (c *Config) loadDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = client.DefaultBaseURL
	}
	if c.ApproveAttempts == 0 {
		c.ApproveAttempts = 1
	}
	if c.ApproveBackoff == "" {
		c.ApproveBackoff = "2s"
	}
	if c.LogLevel == "" {
		c.LogLevel = "warn"
	}
}

func (c *Config) loadEnv() {
	envvar.String(&c.BaseURL, EnvClientBaseURL)
	envvar.String(&c.UserID, EnvClientUserID)
	envvar.Int(&c.ApproveAttempts, EnvClientApproveAttempts)
	envvar.String(&c.ApproveBackoff, EnvClientApproveBackoff)
	envvar.Bool(&c.DiscardOnReject, EnvClientDiscardOnReject)
	envvar.String(&c.LogLevel, EnvClientLogLevel)
	envvar.String(&c.Timeout, EnvClientTimeout)
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.UserID) == "" {
		return fmt.Errorf("user_id required (set it in %s or %s)", defaultConfigFile, EnvClientUserID)
	}
	if c.ApproveAttempts < 1 {
		return fmt.Errorf("approve_attempts must be at least 1")
	}
	if d, err := time.ParseDuration(c.ApproveBackoff); err != nil || d < 0 {
		return fmt.Errorf("invalid approve_backoff: %q", c.ApproveBackoff)
	}
	if c.Timeout != "" {
		if d, err := time.ParseDuration(c.Timeout); err != nil || d < 0 {
			return fmt.Errorf("invalid timeout: %q", c.Timeout)
		}
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return fmt.Errorf("invalid log_level: %q", c.LogLevel)
	}
	return nil
}

// loadConfig reads path, or vault.toml in the working directory when path is
// empty. Only an explicit path must exist.
func loadConfig(path string) (*Config, error) {
	cfg := &Config{}

	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := cfg.Finalize(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
