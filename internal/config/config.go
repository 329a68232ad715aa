package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/JaimeStill/filevault/internal/extraction"
	"github.com/JaimeStill/filevault/internal/redaction"
	"github.com/JaimeStill/filevault/pkg/database"
	"github.com/JaimeStill/filevault/pkg/envvar"
	"github.com/JaimeStill/filevault/pkg/storage"
	"github.com/pelletier/go-toml/v2"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvVaultEnv             = "VAULT_ENV"
	EnvVaultLogLevel        = "VAULT_LOG_LEVEL"
	EnvVaultShutdownTimeout = "VAULT_SHUTDOWN_TIMEOUT"
	EnvVaultVersion         = "VAULT_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "VAULT_DB_HOST",
	Port:            "VAULT_DB_PORT",
	Name:            "VAULT_DB_NAME",
	User:            "VAULT_DB_USER",
	Password:        "VAULT_DB_PASSWORD",
	SSLMode:         "VAULT_DB_SSL_MODE",
	MaxOpenConns:    "VAULT_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "VAULT_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "VAULT_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "VAULT_DB_CONN_TIMEOUT",
}

var quarantineEnv = &storage.Env{
	Provider:         "VAULT_QUARANTINE_PROVIDER",
	Container:        "VAULT_QUARANTINE_CONTAINER",
	ConnectionString: "VAULT_QUARANTINE_CONNECTION_STRING",
	SignedURLTTL:     "VAULT_QUARANTINE_SIGNED_URL_TTL",
}

var vaultEnv = &storage.Env{
	Provider:         "VAULT_STORE_PROVIDER",
	Container:        "VAULT_STORE_CONTAINER",
	ConnectionString: "VAULT_STORE_CONNECTION_STRING",
	SignedURLTTL:     "VAULT_STORE_SIGNED_URL_TTL",
}

var extractionEnv = &extraction.Env{
	Provider: "VAULT_EXTRACTION_PROVIDER",
	Project:  "VAULT_EXTRACTION_PROJECT",
	Location: "VAULT_EXTRACTION_LOCATION",
	Model:    "VAULT_EXTRACTION_MODEL",
	Timeout:  "VAULT_EXTRACTION_TIMEOUT",
}

var redactionEnv = &redaction.Env{
	Provider:      "VAULT_REDACTION_PROVIDER",
	Project:       "VAULT_REDACTION_PROJECT",
	Location:      "VAULT_REDACTION_LOCATION",
	InfoTypes:     "VAULT_REDACTION_INFO_TYPES",
	MinLikelihood: "VAULT_REDACTION_MIN_LIKELIHOOD",
	Timeout:       "VAULT_REDACTION_TIMEOUT",
}

// Config is the root configuration for the vault service.
//
// Quarantine holds uploads awaiting review; Vault holds approved documents.
// They may point at different providers.
type Config struct {
	Server          ServerConfig      `toml:"server"`
	Database        database.Config   `toml:"database"`
	Quarantine      storage.Config    `toml:"quarantine"`
	Vault           storage.Config    `toml:"vault"`
	Extraction      extraction.Config `toml:"extraction"`
	Redaction       redaction.Config  `toml:"redaction"`
	API             APIConfig         `toml:"api"`
	LogLevel        string            `toml:"log_level"`
	ShutdownTimeout string            `toml:"shutdown_timeout"`
	Version         string            `toml:"version"`
}

// Env returns the VAULT_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvVaultEnv); env != "" {
		return env
	}
	return "local"
}

// Level returns LogLevel as a slog.Level. Finalize guarantees it parses.
func (c *Config) Level() slog.Level {
	var lvl slog.Level
	lvl.UnmarshalText([]byte(c.LogLevel))
	return lvl
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}

	if err := cfg.Finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// LoadDatabase resolves only the database section from the same files and
// VAULT_DB_* variables as Load. The migration runner uses it so that it does
// not require storage or extraction settings.
func LoadDatabase() (*database.Config, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}

	if err := cfg.Database.Finalize(databaseEnv); err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	return &cfg.Database, nil
}

func read() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.LogLevel != "" {
		c.LogLevel = overlay.LogLevel
	}
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Quarantine.Merge(&overlay.Quarantine)
	c.Vault.Merge(&overlay.Vault)
	c.Extraction.Merge(&overlay.Extraction)
	c.Redaction.Merge(&overlay.Redaction)
	c.API.Merge(&overlay.API)
}

// Finalize applies defaults, environment overrides, and validation to the
// root config and every section.
func (c *Config) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Quarantine.Finalize(quarantineEnv); err != nil {
		return fmt.Errorf("quarantine: %w", err)
	}
	if err := c.Vault.Finalize(vaultEnv); err != nil {
		return fmt.Errorf("vault: %w", err)
	}
	if err := c.Extraction.Finalize(extractionEnv); err != nil {
		return fmt.Errorf("extraction: %w", err)
	}
	// Redaction runs in the extraction project unless told otherwise.
	if c.Redaction.Project == "" {
		c.Redaction.Project = c.Extraction.Project
	}
	if err := c.Redaction.Finalize(redactionEnv); err != nil {
		return fmt.Errorf("redaction: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
	if c.Quarantine.Container == "" {
		c.Quarantine.Container = "quarantine"
	}
	if c.Vault.Container == "" {
		c.Vault.Container = "vault"
	}
}

func (c *Config) loadEnv() {
	envvar.String(&c.LogLevel, EnvVaultLogLevel)
	envvar.String(&c.ShutdownTimeout, EnvVaultShutdownTimeout)
	envvar.String(&c.Version, EnvVaultVersion)
}

func (c *Config) validate() error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvVaultEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
