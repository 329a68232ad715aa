package documents

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/filevault/internal/extraction"
	"github.com/JaimeStill/filevault/internal/records"
	"github.com/JaimeStill/filevault/internal/redaction"
	"github.com/JaimeStill/filevault/pkg/storage"
)

type service struct {
	quarantine storage.System
	vault      storage.System
	extractor  extraction.System
	redactor   redaction.System
	records    records.System
	previewTTL time.Duration
	logger     *slog.Logger
}

// New creates the document intake system. Uploads land in quarantine next to
// a copy redacted by redactor; approved documents are copied to vault and
// their extracted data stored via recs.
func New(
	quarantine storage.System,
	vault storage.System,
	extractor extraction.System,
	redactor redaction.System,
	recs records.System,
	previewTTL time.Duration,
	logger *slog.Logger,
) System {
	return &service{
		quarantine: quarantine,
		vault:      vault,
		extractor:  extractor,
		redactor:   redactor,
		records:    recs,
		previewTTL: previewTTL,
		logger:     logger.With("system", "documents"),
	}
}

func (s *service) Handler(maxUploadSize int64) *Handler {
	return NewHandler(s, s.logger, maxUploadSize)
}

func (s *service) Upload(ctx context.Context, cmd UploadCommand) (*Descriptor, error) {
	pages, err := inspect(cmd.Data)
	if err != nil {
		return nil, err
	}

	res, err := s.redactor.Redact(ctx, cmd.Data)
	if err != nil {
		if errors.Is(err, redaction.ErrUnredactable) {
			return nil, fmt.Errorf("%w: %v", ErrUnredactable, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrRedactionFailed, err)
	}

	cid := uuid.New()
	raw := rawKey(cmd.UserID, cid)
	redacted := redactedKey(cmd.UserID, cid)

	if err := s.quarantine.Upload(ctx, raw, bytes.NewReader(cmd.Data), pdfContentType); err != nil {
		return nil, fmt.Errorf("quarantine raw upload: %w", err)
	}
	if err := s.quarantine.Upload(ctx, redacted, bytes.NewReader(res.PDF), pdfContentType); err != nil {
		s.cleanup(ctx, raw)
		return nil, fmt.Errorf("quarantine redacted upload: %w", err)
	}

	preview, err := s.quarantine.SignedURL(ctx, redacted, s.previewTTL)
	if err != nil {
		s.cleanup(ctx, raw, redacted)
		return nil, fmt.Errorf("sign preview url: %w", err)
	}

	s.logger.Info(
		"document quarantined",
		"user", cmd.UserID,
		"correlation_id", cid,
		"filename", cmd.Filename,
		"pages", pages,
		"size", len(cmd.Data),
		"redacted_size", len(res.PDF),
		"findings", res.Findings(),
	)

	return &Descriptor{
		Status:        StatusPendingApproval,
		CorrelationID: cid,
		PreviewURL:    preview,
	}, nil
}

// Approve extracts before anything leaves quarantine, so a failed extraction
// can be approved again.
func (s *service) Approve(ctx context.Context, userID string, cid uuid.UUID) (*Approval, error) {
	redacted := redactedKey(userID, cid)

	data, err := s.read(ctx, redacted)
	if err != nil {
		return nil, err
	}

	result, err := s.extractor.Extract(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	key := vaultKey(userID, uuid.New())
	if err := storage.Copy(ctx, s.quarantine, redacted, s.vault, key, pdfContentType); err != nil {
		return nil, fmt.Errorf("move to vault: %w", err)
	}

	rec, err := s.records.Create(ctx, records.CreateCommand{
		UserID:           userID,
		CorrelationID:    cid,
		DocumentKey:      key,
		FilingStatus:     result.Fields.FilingStatus,
		W2Wages:          result.Fields.W2Wages,
		TotalDeductions:  result.Fields.TotalDeductions,
		IRADistributions: result.Fields.IRADistributions,
		CapitalGainLoss:  result.Fields.CapitalGainLoss,
	})
	if err != nil {
		if delErr := s.vault.Delete(ctx, key); delErr != nil {
			s.logger.Warn("compensating vault delete failed", "key", key, "error", delErr)
		}
		return nil, fmt.Errorf("create record: %w", err)
	}

	if err := s.purge(ctx, userID, cid); err != nil {
		s.logger.Warn("quarantine cleanup after approval failed", "correlation_id", cid, "error", err)
	}

	s.logger.Info("document approved", "user", userID, "correlation_id", cid, "record_id", rec.ID, "key", key)

	return &Approval{
		Status:   StatusApproved,
		Data:     result.Data,
		RecordID: rec.ID,
	}, nil
}

func (s *service) Discard(ctx context.Context, userID string, cid uuid.UUID) error {
	ok, err := s.quarantine.Exists(ctx, redactedKey(userID, cid))
	if err != nil {
		return fmt.Errorf("check quarantine: %w", err)
	}
	if !ok {
		return ErrNotFound
	}

	if err := s.purge(ctx, userID, cid); err != nil {
		return err
	}

	s.logger.Info("document discarded", "user", userID, "correlation_id", cid)
	return nil
}

func (s *service) read(ctx context.Context, key string) ([]byte, error) {
	r, err := s.quarantine.Download(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("quarantine download: %w", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read quarantined document: %w", err)
	}
	return data, nil
}

// purge deletes both quarantine blobs concurrently. Blobs already gone are
// not an error.
func (s *service) purge(ctx context.Context, userID string, cid uuid.UUID) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, key := range []string{rawKey(userID, cid), redactedKey(userID, cid)} {
		g.Go(func() error {
			if err := s.quarantine.Delete(gctx, key); err != nil && !errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("delete %s: %w", key, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// cleanup removes blobs written by a failed upload.
func (s *service) cleanup(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if err := s.quarantine.Delete(ctx, key); err != nil {
			s.logger.Warn("compensating quarantine delete failed", "key", key, "error", err)
		}
	}
}
