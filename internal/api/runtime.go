package api

import (
	"time"

	"github.com/JaimeStill/filevault/internal/config"
	"github.com/JaimeStill/filevault/internal/infrastructure"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	PreviewTTL time.Duration
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle:  infra.Lifecycle,
			Logger:     infra.Logger.With("module", "api"),
			Database:   infra.Database,
			Quarantine: infra.Quarantine,
			Vault:      infra.Vault,
			Extractor:  infra.Extractor,
			Redactor:   infra.Redactor,
		},
		PreviewTTL: cfg.Quarantine.SignedURLTTLDuration(),
	}
}
