// Package records stores and serves the tax data extracted from approved documents.
package records

import (
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/filevault/pkg/query"
)

// Record is a row of the tax_records table. Nil amount and status fields were
// missing or redacted in the source document.
type Record struct {
	ID               int64     `json:"id"`
	UserID           string    `json:"user_id"`
	CorrelationID    uuid.UUID `json:"correlation_id"`
	DocumentKey      string    `json:"document_key"`
	FilingStatus     *string   `json:"filing_status"`
	W2Wages          *float64  `json:"w2_wages"`
	TotalDeductions  *float64  `json:"total_deductions"`
	IRADistributions *float64  `json:"ira_distributions"`
	CapitalGainLoss  *float64  `json:"capital_gain_loss"`
	CreatedAt        time.Time `json:"created_at"`
}

// CreateCommand carries the values for a new record.
type CreateCommand struct {
	UserID           string
	CorrelationID    uuid.UUID
	DocumentKey      string
	FilingStatus     *string
	W2Wages          *float64
	TotalDeductions  *float64
	IRADistributions *float64
	CapitalGainLoss  *float64
}

// Filter narrows a record listing. Zero values apply no filter and keep the
// newest-first order.
type Filter struct {
	FilingStatus *string
	Sort         []query.SortField
}

// FilterFromQuery reads filing_status and sort (e.g. "-w2_wages,id") from
// request query values.
func FilterFromQuery(values url.Values) Filter {
	var f Filter
	if s := strings.TrimSpace(values.Get("filing_status")); s != "" {
		f.FilingStatus = &s
	}
	f.Sort = query.ParseSortFields(values.Get("sort"))
	return f
}
