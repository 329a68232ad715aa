// Package infrastructure provides core service initialization for application startup.
// It assembles common dependencies (logging, database, blob stores, extraction, redaction)
// that domain systems require.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/JaimeStill/filevault/internal/config"
	"github.com/JaimeStill/filevault/internal/extraction"
	"github.com/JaimeStill/filevault/internal/redaction"
	"github.com/JaimeStill/filevault/pkg/database"
	"github.com/JaimeStill/filevault/pkg/lifecycle"
	"github.com/JaimeStill/filevault/pkg/storage"
)

// Infrastructure holds the core systems required by all domain modules.
type Infrastructure struct {
	Lifecycle  *lifecycle.Coordinator
	Logger     *slog.Logger
	Database   database.System
	Quarantine storage.System
	Vault      storage.System
	Extractor  extraction.System
	Redactor   redaction.System
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))
	ctx := lc.Context()

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	quarantine, err := storage.New(ctx, "quarantine", &cfg.Quarantine, logger)
	if err != nil {
		return nil, fmt.Errorf("quarantine storage init failed: %w", err)
	}

	vault, err := storage.New(ctx, "vault", &cfg.Vault, logger)
	if err != nil {
		return nil, fmt.Errorf("vault storage init failed: %w", err)
	}

	extractor, err := extraction.New(ctx, &cfg.Extraction, logger)
	if err != nil {
		return nil, fmt.Errorf("extraction init failed: %w", err)
	}

	redactor, err := redaction.New(ctx, &cfg.Redaction, logger)
	if err != nil {
		return nil, fmt.Errorf("redaction init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle:  lc,
		Logger:     logger,
		Database:   db,
		Quarantine: quarantine,
		Vault:      vault,
		Extractor:  extractor,
		Redactor:   redactor,
	}, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if err := i.Quarantine.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("quarantine start failed: %w", err)
	}
	if err := i.Vault.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("vault start failed: %w", err)
	}
	if err := i.Extractor.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("extraction start failed: %w", err)
	}
	if err := i.Redactor.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("redaction start failed: %w", err)
	}
	return nil
}
