package handler

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/showcase-api/internal/application/media"
)

// UploadsHandler serves stored media back over the public /uploads path.
type UploadsHandler struct {
	svc media.Service
}

func NewUploadsHandler(svc media.Service) *UploadsHandler {
	return &UploadsHandler{svc: svc}
}

func (h *UploadsHandler) Serve(w http.ResponseWriter, r *http.Request) {
	rc, contentType, err := h.svc.Open(r.Context(), chi.URLParam(r, "filename"))
	if err != nil {
		writeError(w, http.StatusNotFound, "file not found", "not_found")
		return
	}
	defer rc.Close()

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	_, _ = io.Copy(w, rc)
}
