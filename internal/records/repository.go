package records

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/filevault/pkg/query"
	"github.com/JaimeStill/filevault/pkg/repository"
)

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a record repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "records"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *repo) List(ctx context.Context, userID string, filter Filter) ([]Record, error) {
	q, args, err := query.NewBuilder(projection, newestFirst).
		WhereEquals("user_id", userID).
		WhereEquals("filing_status", filter.FilingStatus).
		OrderBy(filter.Sort).
		Build()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFilter, err)
	}

	records, err := repository.QueryMany(ctx, r.db, q, args, scanRecord)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	return records, nil
}

func (r *repo) Find(ctx context.Context, userID string, id int64) (*Record, error) {
	q, args, err := query.NewBuilder(projection).
		WhereEquals("user_id", userID).
		WhereEquals("id", id).
		Build()
	if err != nil {
		return nil, err
	}

	rec, err := repository.QueryOne(ctx, r.db, q, args, scanRecord)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &rec, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Record, error) {
	q := `
		INSERT INTO ` + projection.Target() + `(user_id, correlation_id, document_key, filing_status,
			w2_wages, total_deductions, ira_distributions, capital_gain_loss)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + projection.Columns()

	args := []any{
		cmd.UserID,
		cmd.CorrelationID,
		cmd.DocumentKey,
		cmd.FilingStatus,
		cmd.W2Wages,
		cmd.TotalDeductions,
		cmd.IRADistributions,
		cmd.CapitalGainLoss,
	}

	rec, err := repository.QueryOne(ctx, r.db, q, args, scanRecord)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("record created", "id", rec.ID, "user", rec.UserID, "correlation_id", rec.CorrelationID)
	return &rec, nil
}
