package handler

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/showcase-api/internal/application/project"
)

const maxUploadMemory = 32 << 20

// ProjectHandler handles the project CRUD endpoints.
type ProjectHandler struct {
	svc project.Service
}

func NewProjectHandler(svc project.Service) *ProjectHandler {
	return &ProjectHandler{svc: svc}
}

// imageFile pulls the optional "image" file out of the multipart form.
// A request without one is fine — both return values are nil.
func imageFile(r *http.Request) (multipart.File, *multipart.FileHeader, error) {
	f, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	return f, header, nil
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form", "validation_error")
		return
	}
	file, header, err := imageFile(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid image field", "validation_error")
		return
	}
	if file != nil {
		defer file.Close()
	}

	input := project.CreateInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		TechStack:   r.FormValue("techStack"),
		Live:        r.FormValue("live"),
		UserID:      r.FormValue("userId"),
		Email:       r.FormValue("email"),
	}
	if err := h.svc.Create(r.Context(), input, file, header); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Project added"})
}

func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.svc.List(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form", "validation_error")
		return
	}
	file, header, err := imageFile(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid image field", "validation_error")
		return
	}
	if file != nil {
		defer file.Close()
	}

	input := project.UpdateInput{
		Description: r.FormValue("description"),
		TechStack:   r.FormValue("techStack"),
		Live:        r.FormValue("live"),
		UserID:      r.FormValue("userId"),
		Email:       r.FormValue("email"),
	}
	if err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), input, file, header); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Project updated successfully"})
}

func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Project deleted successfully"})
}
