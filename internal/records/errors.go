package records

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/filevault/pkg/middleware"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists for this document")
	ErrInvalidID = errors.New("invalid record id")
	// ErrInvalidFilter wraps a sort or filter naming an unknown field.
	ErrInvalidFilter = errors.New("invalid record filter")
)

// MapHTTPStatus maps record domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidID), errors.Is(err, ErrInvalidFilter):
		return http.StatusBadRequest
	case errors.Is(err, middleware.ErrMissingIdentity):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
