// Package redaction removes personal data from uploaded PDFs before anyone
// previews or approves them.
//
// Text is masked inside the page content streams and images are replaced
// with redacted copies, so the output never carries the original values in
// any form. Pages whose images cannot be decoded are refused rather than
// passed through.
package redaction

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/JaimeStill/filevault/pkg/lifecycle"
)

var (
	ErrEmptyDocument = errors.New("document is empty")
	// ErrUnredactable marks documents holding content the redactor cannot
	// inspect, such as images in an unsupported encoding.
	ErrUnredactable = errors.New("document cannot be redacted")
)

// Result is the redacted document with counts of what was masked.
type Result struct {
	PDF           []byte
	Pages         int
	TextFindings  int
	ImageFindings int
}

// Findings returns the total number of masked findings.
func (r *Result) Findings() int {
	return r.TextFindings + r.ImageFindings
}

// System redacts PDF documents.
type System interface {
	Start(lc *lifecycle.Coordinator) error
	Redact(ctx context.Context, pdf []byte) (*Result, error)
}

// span is a half-open byte range of sensitive text.
type span struct {
	start, end int
}

// detector finds personal data. Text arrives as printable ASCII with one
// line per string operand; spans index into it.
type detector interface {
	findText(ctx context.Context, text string) ([]span, error)
	redactImage(ctx context.Context, img image.Image) (image.Image, int, error)
}

// New creates the redactor for the configured provider.
func New(ctx context.Context, cfg *Config, logger *slog.Logger) (System, error) {
	logger = logger.With("system", "redaction", "provider", cfg.Provider)

	switch cfg.Provider {
	case ProviderDLP:
		d, err := newDLP(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return &redactor{det: d, timeout: cfg.TimeoutDuration(), closer: d.close, logger: logger}, nil
	case ProviderStatic:
		return &redactor{det: staticDetector{}, timeout: cfg.TimeoutDuration(), logger: logger}, nil
	default:
		return nil, fmt.Errorf("unknown redaction provider %q", cfg.Provider)
	}
}

type redactor struct {
	det     detector
	timeout time.Duration
	closer  func() error
	logger  *slog.Logger
}

func (r *redactor) Start(lc *lifecycle.Coordinator) error {
	if r.closer == nil {
		r.logger.Warn("redaction is static; only SSN and EIN patterns and a fixed image box are masked")
		return nil
	}

	r.logger.Info("starting redaction system")
	lc.OnShutdown(func() {
		<-lc.Context().Done()
		if err := r.closer(); err != nil {
			r.logger.Error("dlp client close failed", "error", err)
		}
	})
	return nil
}

func (r *redactor) Redact(ctx context.Context, pdf []byte) (*Result, error) {
	if len(pdf) == 0 {
		return nil, ErrEmptyDocument
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	res, err := redactDocument(ctx, pdf, r.det)
	if err != nil {
		return nil, err
	}

	r.logger.Info(
		"document redacted",
		"pages", res.Pages,
		"text_findings", res.TextFindings,
		"image_findings", res.ImageFindings,
		"duration", time.Since(start),
	)
	return res, nil
}
