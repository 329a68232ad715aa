package documents

import (
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/filevault/pkg/handlers"
	"github.com/JaimeStill/filevault/pkg/middleware"
	"github.com/JaimeStill/filevault/pkg/routes"
)

// multipartOverhead allows for boundaries and part headers around the file.
const multipartOverhead = 1 << 20

// Handler provides HTTP endpoints for document intake.
type Handler struct {
	sys           System
	logger        *slog.Logger
	maxUploadSize int64
}

// NewHandler creates a Handler with the given system, logger, and upload size limit.
func NewHandler(sys System, logger *slog.Logger, maxUploadSize int64) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "documents"),
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route group definition for intake endpoints. The group
// has no prefix since the paths sit at the API root.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Tag: "Documents",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/upload", Handler: h.Upload, Doc: uploadDoc},
			{Method: "POST", Pattern: "/approve/{correlation_id}", Handler: h.Approve, Doc: approveDoc},
			{Method: "DELETE", Pattern: "/quarantine/{correlation_id}", Handler: h.Discard, Doc: discardDoc},
		},
	}
}

// Upload quarantines the multipart "file" field and returns its descriptor.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, middleware.ErrMissingIdentity)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+multipartOverhead)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrFileTooLarge)
			return
		}
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidFile)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidFile)
		return
	}
	defer file.Close()

	if header.Size > h.maxUploadSize {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrFileTooLarge)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil || len(data) == 0 {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidFile)
		return
	}

	if ct := detectContentType(header.Header.Get("Content-Type"), data); ct != pdfContentType {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNotPDF)
		return
	}

	desc, err := h.sys.Upload(r.Context(), UploadCommand{
		UserID:   userID,
		Filename: header.Filename,
		Data:     data,
	})
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, desc)
}

// Approve releases a quarantined document and returns the extracted data.
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	userID, cid, ok := h.target(w, r)
	if !ok {
		return
	}

	approval, err := h.sys.Approve(r.Context(), userID, cid)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, approval)
}

// Discard deletes a quarantined document.
func (h *Handler) Discard(w http.ResponseWriter, r *http.Request) {
	userID, cid, ok := h.target(w, r)
	if !ok {
		return
	}

	if err := h.sys.Discard(r.Context(), userID, cid); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// target resolves the caller and the correlation id path value, writing the
// error response itself when either is unusable.
func (h *Handler) target(w http.ResponseWriter, r *http.Request) (string, uuid.UUID, bool) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, middleware.ErrMissingIdentity)
		return "", uuid.Nil, false
	}

	cid, err := uuid.Parse(r.PathValue("correlation_id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidCorrelation)
		return "", uuid.Nil, false
	}
	return userID, cid, true
}

// detectContentType prefers the part's declared type and falls back to
// sniffing when it is missing or generic.
func detectContentType(header string, data []byte) string {
	header = strings.TrimSpace(header)
	if header != "" && header != "application/octet-stream" {
		if mt, _, err := mime.ParseMediaType(header); err == nil {
			return mt
		}
	}
	mt, _, _ := mime.ParseMediaType(http.DetectContentType(data))
	return mt
}
