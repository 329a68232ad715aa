package records

import (
	"github.com/JaimeStill/filevault/pkg/query"
	"github.com/JaimeStill/filevault/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "tax_records", "r").
	Project("id", "id").
	Project("user_id", "user_id").
	Project("correlation_id", "correlation_id").
	Project("document_key", "document_key").
	Project("filing_status", "filing_status").
	Project("w2_wages", "w2_wages").
	Project("total_deductions", "total_deductions").
	Project("ira_distributions", "ira_distributions").
	Project("capital_gain_loss", "capital_gain_loss").
	Project("created_at", "created_at")

var newestFirst = query.SortField{Field: "id", Descending: true}

func scanRecord(s repository.Scanner) (Record, error) {
	var r Record
	err := s.Scan(
		&r.ID,
		&r.UserID,
		&r.CorrelationID,
		&r.DocumentKey,
		&r.FilingStatus,
		&r.W2Wages,
		&r.TotalDeductions,
		&r.IRADistributions,
		&r.CapitalGainLoss,
		&r.CreatedAt,
	)
	return r, err
}
