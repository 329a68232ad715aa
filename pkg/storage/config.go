package storage

import (
	"fmt"
	"time"

	"github.com/JaimeStill/filevault/pkg/envvar"
)

// Provider names accepted in Config.Provider.
const (
	ProviderAzure = "azure"
	ProviderGCS   = "gcs"
)

// Config selects a blob provider and the container (Azure) or bucket (GCS)
// a System operates on.
type Config struct {
	Provider         string `toml:"provider"`
	Container        string `toml:"container"`
	ConnectionString string `toml:"connection_string"`
	SignedURLTTL     string `toml:"signed_url_ttl"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Provider         string
	Container        string
	ConnectionString string
	SignedURLTTL     string
}

// SignedURLTTLDuration returns SignedURLTTL as a time.Duration.
func (c *Config) SignedURLTTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.SignedURLTTL)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Provider != "" {
		c.Provider = overlay.Provider
	}
	if overlay.Container != "" {
		c.Container = overlay.Container
	}
	if overlay.ConnectionString != "" {
		c.ConnectionString = overlay.ConnectionString
	}
	if overlay.SignedURLTTL != "" {
		c.SignedURLTTL = overlay.SignedURLTTL
	}
}

func (c *Config) loadDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderAzure
	}
	if c.SignedURLTTL == "" {
		c.SignedURLTTL = "15m"
	}
}

func (c *Config) loadEnv(env *Env) {
	envvar.String(&c.Provider, env.Provider)
	envvar.String(&c.Container, env.Container)
	envvar.String(&c.ConnectionString, env.ConnectionString)
	envvar.String(&c.SignedURLTTL, env.SignedURLTTL)
}

func (c *Config) validate() error {
	if c.Container == "" {
		return fmt.Errorf("container required")
	}

	switch c.Provider {
	case ProviderAzure:
		if c.ConnectionString == "" {
			return fmt.Errorf("connection_string required for provider %s", c.Provider)
		}
	case ProviderGCS:
	default:
		return fmt.Errorf("unknown provider %q", c.Provider)
	}

	ttl, err := time.ParseDuration(c.SignedURLTTL)
	if err != nil {
		return fmt.Errorf("invalid signed_url_ttl: %w", err)
	}
	if ttl <= 0 {
		return fmt.Errorf("signed_url_ttl must be positive")
	}
	return nil
}
