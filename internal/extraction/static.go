package extraction

import (
	"context"
	"log/slog"

	"github.com/JaimeStill/filevault/pkg/lifecycle"
)

const staticResponse = `{
  "filing_status": "Single",
  "w2_wages": 120000.50,
  "total_deductions": 12000.00,
  "ira_distributions": null,
  "capital_gain_loss": -3000.00
}`

// static stands in for a model in local development.
type static struct {
	logger *slog.Logger
}

func newStatic(logger *slog.Logger) *static {
	return &static{logger: logger}
}

func (s *static) Start(lc *lifecycle.Coordinator) error {
	s.logger.Warn("extraction is static; documents are not read")
	return nil
}

func (s *static) Extract(ctx context.Context, pdf []byte) (*Result, error) {
	if len(pdf) == 0 {
		return nil, ErrEmptyDocument
	}
	s.logger.Debug("returning static extraction", "size", len(pdf))
	return Decode(staticResponse)
}
