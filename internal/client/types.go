package client

// Descriptor identifies a document held in quarantine awaiting review.
type Descriptor struct {
	Status        string `json:"status"`
	CorrelationID string `json:"correlation_id"`
	PreviewURL    string `json:"preview_url"`
}

// Record is a set of fields extracted from an approved document. A nil field
// means no value was extracted; JSON null and an absent key both decode to nil.
type Record struct {
	ID               int64    `json:"id"`
	UserID           string   `json:"user_id"`
	FilingStatus     *string  `json:"filing_status"`
	W2Wages          *float64 `json:"w2_wages"`
	TotalDeductions  *float64 `json:"total_deductions"`
	IRADistributions *float64 `json:"ira_distributions"`
	CapitalGainLoss  *float64 `json:"capital_gain_loss"`
}

// Approval is the backend's answer to an approve call. RecordID is zero when
// the backend did not report the stored record.
type Approval struct {
	Status   string         `json:"status"`
	RecordID int64          `json:"record_id,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

// HasRecord reports whether the approval named the stored record.
func (a *Approval) HasRecord() bool {
	return a != nil && a.RecordID > 0
}
