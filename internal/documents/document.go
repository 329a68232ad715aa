// Package documents runs the intake side of the vault: quarantined uploads
// with a redacted preview, and the approval step that moves a document into
// the vault and records its extracted data.
package documents

import "github.com/google/uuid"

// Response statuses.
const (
	StatusPendingApproval = "pending_approval"
	StatusApproved        = "approved"
)

// Descriptor identifies a quarantined upload awaiting review.
type Descriptor struct {
	Status        string    `json:"status"`
	CorrelationID uuid.UUID `json:"correlation_id"`
	PreviewURL    string    `json:"preview_url"`
}

// Approval is the outcome of approving a quarantined document.
type Approval struct {
	Status   string         `json:"status"`
	Data     map[string]any `json:"data"`
	RecordID int64          `json:"record_id"`
}

// UploadCommand carries an uploaded file for the given user.
type UploadCommand struct {
	UserID   string
	Filename string
	Data     []byte
}
