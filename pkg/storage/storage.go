// Package storage provides blob storage with Azure Blob Storage and Google
// Cloud Storage providers.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/JaimeStill/filevault/pkg/lifecycle"
)

// System manages blob storage operations and lifecycle coordination.
type System interface {
	// Start registers a startup hook that verifies the container or bucket.
	Start(lc *lifecycle.Coordinator) error
	// Upload streams data to a blob at the given key with the specified content type.
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) error
	// Download returns a stream for the blob at the given key. The caller must close the reader.
	// Returns ErrNotFound if the blob does not exist.
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes the blob at the given key. Returns ErrNotFound if the blob does not exist.
	Delete(ctx context.Context, key string) error
	// Exists reports whether a blob exists at the given key.
	Exists(ctx context.Context, key string) (bool, error)
	// SignedURL returns a read-only URL for the blob that expires after ttl.
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// New creates a storage system for the configured provider. The logger is
// scoped with name so that quarantine and vault systems are distinguishable.
func New(ctx context.Context, name string, cfg *Config, logger *slog.Logger) (System, error) {
	logger = logger.With("system", name, "provider", cfg.Provider)

	switch cfg.Provider {
	case ProviderAzure:
		return newAzure(name, cfg, logger)
	case ProviderGCS:
		return newGCS(ctx, name, cfg, logger)
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Provider)
	}
}

// Copy streams the blob at srcKey in src into dst at dstKey.
// The source is left in place.
func Copy(ctx context.Context, src System, srcKey string, dst System, dstKey, contentType string) error {
	r, err := src.Download(ctx, srcKey)
	if err != nil {
		return err
	}
	defer r.Close()

	if err := dst.Upload(ctx, dstKey, r, contentType); err != nil {
		return fmt.Errorf("copy %s to %s: %w", srcKey, dstKey, err)
	}
	return nil
}

func validateKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if strings.Contains(key, "..") {
		return ErrInvalidKey
	}
	return nil
}
