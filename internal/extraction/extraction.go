// Package extraction turns an approved tax document into structured fields.
package extraction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/filevault/pkg/formatting"
	"github.com/JaimeStill/filevault/pkg/lifecycle"
)

var (
	ErrEmptyDocument = errors.New("document is empty")
	ErrNoContent     = errors.New("model returned no content")
	ErrRefused       = errors.New("model refused the document")
)

// Fields are the values read from a tax document. A nil field was missing or
// redacted in the source.
type Fields struct {
	FilingStatus     *string  `json:"filing_status"`
	W2Wages          *float64 `json:"w2_wages"`
	TotalDeductions  *float64 `json:"total_deductions"`
	IRADistributions *float64 `json:"ira_distributions"`
	CapitalGainLoss  *float64 `json:"capital_gain_loss"`
}

// Result pairs the typed fields with the raw object the model returned.
type Result struct {
	Fields Fields
	Data   map[string]any
}

// System extracts fields from PDF documents.
type System interface {
	Start(lc *lifecycle.Coordinator) error
	Extract(ctx context.Context, pdf []byte) (*Result, error)
}

// New creates the extractor for the configured provider.
func New(ctx context.Context, cfg *Config, logger *slog.Logger) (System, error) {
	logger = logger.With("system", "extraction", "provider", cfg.Provider)

	switch cfg.Provider {
	case ProviderVertex:
		return newGemini(ctx, cfg, logger)
	case ProviderStatic:
		return newStatic(logger), nil
	default:
		return nil, fmt.Errorf("unknown extraction provider %q", cfg.Provider)
	}
}

// Decode parses model output into a Result. Markdown fences and prose around
// the JSON object are tolerated.
func Decode(text string) (*Result, error) {
	fields, err := formatting.Parse[Fields](text)
	if err != nil {
		return nil, err
	}
	data, err := formatting.Parse[map[string]any](text)
	if err != nil {
		return nil, err
	}
	return &Result{Fields: fields, Data: data}, nil
}
