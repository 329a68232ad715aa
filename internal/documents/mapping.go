package documents

import (
	"fmt"

	"github.com/google/uuid"
)

const pdfContentType = "application/pdf"

// Quarantine keys are derived from the correlation id so that approve and
// discard need no lookup table. Vault keys use a fresh id.

func rawKey(userID string, cid uuid.UUID) string {
	return fmt.Sprintf("%s/%s_raw.pdf", userID, cid)
}

func redactedKey(userID string, cid uuid.UUID) string {
	return fmt.Sprintf("%s/%s_redacted.pdf", userID, cid)
}

func vaultKey(userID string, docID uuid.UUID) string {
	return fmt.Sprintf("%s/%s.pdf", userID, docID)
}
