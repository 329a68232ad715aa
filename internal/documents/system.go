package documents

import (
	"context"

	"github.com/google/uuid"
)

// System defines the public contract for document intake operations. Every
// operation is scoped to the calling user.
type System interface {
	Handler(maxUploadSize int64) *Handler

	// Upload quarantines a PDF and returns a descriptor with a preview URL.
	Upload(ctx context.Context, cmd UploadCommand) (*Descriptor, error)
	// Approve moves a quarantined document into the vault and records its
	// extracted data.
	Approve(ctx context.Context, userID string, cid uuid.UUID) (*Approval, error)
	// Discard deletes a quarantined document without approving it.
	Discard(ctx context.Context, userID string, cid uuid.UUID) error
}
