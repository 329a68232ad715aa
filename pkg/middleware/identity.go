package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/JaimeStill/filevault/pkg/handlers"
)

// UserHeader carries the caller's static identity on every API request.
const UserHeader = "X-User-ID"

const maxUserIDLength = 128

var (
	// ErrMissingIdentity indicates the request carried no user header.
	ErrMissingIdentity = errors.New("missing " + UserHeader + " header")
	// ErrInvalidIdentity indicates the user header cannot be used as a storage prefix.
	ErrInvalidIdentity = errors.New("invalid " + UserHeader + " header")
)

type userKey struct{}

// WithUserID returns a copy of ctx carrying the given user id.
func WithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userKey{}, id)
}

// UserID returns the user id stored by Identity.
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userKey{}).(string)
	return id, ok && id != ""
}

// Identity requires UserHeader on every request except the exempt paths and
// stores its value in the request context. Missing values are rejected with
// 401, values unusable as a blob prefix with 400.
func Identity(logger *slog.Logger, exempt ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if slices.Contains(exempt, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			id := strings.TrimSpace(r.Header.Get(UserHeader))
			if err := validateUserID(id); err != nil {
				status := http.StatusBadRequest
				if errors.Is(err, ErrMissingIdentity) {
					status = http.StatusUnauthorized
				}
				handlers.RespondError(w, logger, status, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), id)))
		})
	}
}

func validateUserID(id string) error {
	if id == "" {
		return ErrMissingIdentity
	}
	if len(id) > maxUserIDLength || strings.ContainsAny(id, "/\\") || strings.Contains(id, "..") {
		return ErrInvalidIdentity
	}
	return nil
}
