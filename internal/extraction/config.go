package extraction

import (
	"fmt"
	"time"

	"github.com/JaimeStill/filevault/pkg/envvar"
)

// Provider names accepted in Config.Provider.
const (
	ProviderVertex = "vertex"
	// ProviderStatic returns a fixed record without calling a model.
	ProviderStatic = "static"
)

// Config selects and tunes the extraction model.
type Config struct {
	Provider string `toml:"provider"`
	Project  string `toml:"project"`
	Location string `toml:"location"`
	Model    string `toml:"model"`
	Timeout  string `toml:"timeout"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Provider string
	Project  string
	Location string
	Model    string
	Timeout  string
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
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
	if overlay.Project != "" {
		c.Project = overlay.Project
	}
	if overlay.Location != "" {
		c.Location = overlay.Location
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
}

func (c *Config) loadDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderVertex
	}
	if c.Location == "" {
		c.Location = "us-central1"
	}
	if c.Model == "" {
		c.Model = "gemini-2.0-flash"
	}
	if c.Timeout == "" {
		c.Timeout = "2m"
	}
}

func (c *Config) loadEnv(env *Env) {
	envvar.String(&c.Provider, env.Provider)
	envvar.String(&c.Project, env.Project)
	envvar.String(&c.Location, env.Location)
	envvar.String(&c.Model, env.Model)
	envvar.String(&c.Timeout, env.Timeout)
}

func (c *Config) validate() error {
	switch c.Provider {
	case ProviderVertex:
		if c.Project == "" {
			return fmt.Errorf("project required for provider %s", c.Provider)
		}
	case ProviderStatic:
	default:
		return fmt.Errorf("unknown provider %q", c.Provider)
	}

	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}
