package redaction

import (
	"fmt"
	"slices"
	"time"

	"cloud.google.com/go/dlp/apiv2/dlppb"

	"github.com/JaimeStill/filevault/pkg/envvar"
)

// Provider names accepted in Config.Provider.
const (
	ProviderDLP = "dlp"
	// ProviderStatic masks SSN and EIN patterns and blacks out a fixed box
	// on every image without calling a service.
	ProviderStatic = "static"
)

var defaultInfoTypes = []string{
	"US_SOCIAL_SECURITY_NUMBER",
	"PERSON_NAME",
	"STREET_ADDRESS",
}

// Config selects and tunes the PII redaction provider.
type Config struct {
	Provider      string   `toml:"provider"`
	Project       string   `toml:"project"`
	Location      string   `toml:"location"`
	InfoTypes     []string `toml:"info_types"`
	MinLikelihood string   `toml:"min_likelihood"`
	Timeout       string   `toml:"timeout"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Provider      string
	Project       string
	Location      string
	InfoTypes     string
	MinLikelihood string
	Timeout       string
}

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
	if len(overlay.InfoTypes) > 0 {
		c.InfoTypes = overlay.InfoTypes
	}
	if overlay.MinLikelihood != "" {
		c.MinLikelihood = overlay.MinLikelihood
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
}

func (c *Config) loadDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderDLP
	}
	if c.Location == "" {
		c.Location = "global"
	}
	if len(c.InfoTypes) == 0 {
		c.InfoTypes = slices.Clone(defaultInfoTypes)
	}
	if c.MinLikelihood == "" {
		c.MinLikelihood = dlppb.Likelihood_POSSIBLE.String()
	}
	if c.Timeout == "" {
		c.Timeout = "1m"
	}
}

func (c *Config) loadEnv(env *Env) {
	envvar.String(&c.Provider, env.Provider)
	envvar.String(&c.Project, env.Project)
	envvar.String(&c.Location, env.Location)
	envvar.List(&c.InfoTypes, env.InfoTypes)
	envvar.String(&c.MinLikelihood, env.MinLikelihood)
	envvar.String(&c.Timeout, env.Timeout)
}

func (c *Config) validate() error {
	switch c.Provider {
	case ProviderDLP:
		if c.Project == "" {
			return fmt.Errorf("project required for provider %s", c.Provider)
		}
	case ProviderStatic:
	default:
		return fmt.Errorf("unknown provider %q", c.Provider)
	}

	if len(c.InfoTypes) == 0 {
		return fmt.Errorf("info_types must not be empty")
	}
	if v, ok := dlppb.Likelihood_value[c.MinLikelihood]; !ok || v == int32(dlppb.Likelihood_LIKELIHOOD_UNSPECIFIED) {
		return fmt.Errorf("invalid min_likelihood %q", c.MinLikelihood)
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
