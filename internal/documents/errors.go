package documents

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/filevault/internal/records"
	"github.com/JaimeStill/filevault/pkg/middleware"
)

// Domain errors for document operations.
var (
	ErrNotFound           = errors.New("document not found in quarantine")
	ErrFileTooLarge       = errors.New("file exceeds maximum upload size")
	ErrInvalidFile        = errors.New("invalid file")
	ErrNotPDF             = errors.New("file is not a readable PDF")
	ErrInvalidCorrelation = errors.New("invalid correlation id")
	ErrExtractionFailed   = errors.New("document extraction failed")
	ErrUnredactable       = errors.New("document content cannot be redacted")
	ErrRedactionFailed    = errors.New("document redaction failed")
)

// MapHTTPStatus maps document domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, records.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrInvalidFile),
		errors.Is(err, ErrNotPDF),
		errors.Is(err, ErrInvalidCorrelation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnredactable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrExtractionFailed),
		errors.Is(err, ErrRedactionFailed):
		return http.StatusBadGateway
	case errors.Is(err, middleware.ErrMissingIdentity):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
