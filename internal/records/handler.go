package records

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/JaimeStill/filevault/pkg/handlers"
	"github.com/JaimeStill/filevault/pkg/middleware"
	"github.com/JaimeStill/filevault/pkg/routes"
)

// Handler provides HTTP endpoints for record operations.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "records"),
	}
}

// Routes returns the route group definition for record endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/records",
		Tag:    "Records",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List, Doc: listDoc},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find, Doc: findDoc},
		},
	}
}

// List returns the caller's records, newest first unless sort is given.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, middleware.ErrMissingIdentity)
		return
	}

	records, err := h.sys.List(r.Context(), userID, FilterFromQuery(r.URL.Query()))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, records)
}

// Find returns one of the caller's records by its numeric id.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, middleware.ErrMissingIdentity)
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidID)
		return
	}

	rec, err := h.sys.Find(r.Context(), userID, id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, rec)
}
