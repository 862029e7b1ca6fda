package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/showcase-api/internal/application/project"
	"github.com/showcase-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mock ---

type mockProjectSvc struct{ mock.Mock }

func (m *mockProjectSvc) Create(ctx context.Context, input project.CreateInput, file multipart.File, header *multipart.FileHeader) error {
	return m.Called(ctx, input, file, header).Error(0)
}

func (m *mockProjectSvc) List(ctx context.Context) ([]domain.Project, error) {
	args := m.Called(ctx)
	if ps, _ := args.Get(0).([]domain.Project); ps != nil {
		return ps, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProjectSvc) Update(ctx context.Context, projectID string, input project.UpdateInput, file multipart.File, header *multipart.FileHeader) error {
	return m.Called(ctx, projectID, input, file, header).Error(0)
}

func (m *mockProjectSvc) Delete(ctx context.Context, projectID string) error {
	return m.Called(ctx, projectID).Error(0)
}

// --- helpers ---

// multipartReq builds a multipart request with the given form fields and,
// when filename is non-empty, an "image" file part.
func multipartReq(t *testing.T, method, target string, fields map[string]string, filename string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("image", filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte("png-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(method, target, &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return r
}

// withChiID injects a chi URL param "id" into the request context.
func withChiID(r *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func createFields() map[string]string {
	return map[string]string{
		"title":       "Showcase",
		"description": "a portfolio site",
		"techStack":   "Go, Rust , C++",
		"live":        "https://example.com",
		"userId":      "u1",
		"email":       "a@b.com",
	}
}

// --- Create ---

func TestCreateProject_HappyPath(t *testing.T) {
	svc := &mockProjectSvc{}
	svc.On("Create", mock.Anything, mock.MatchedBy(func(in project.CreateInput) bool {
		return in.Title == "Showcase" && in.TechStack == "Go, Rust , C++" && in.Email == "a@b.com"
	}), mock.Anything, mock.Anything).Return(nil)
	h := NewProjectHandler(svc)

	rr := httptest.NewRecorder()
	h.Create(rr, multipartReq(t, http.MethodPost, "/projects", createFields(), ""))

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp MessageEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "Project added", resp.Message)
	svc.AssertExpectations(t)
}

func TestCreateProject_WithImage_PassesHeader(t *testing.T) {
	svc := &mockProjectSvc{}
	svc.On("Create", mock.Anything, mock.Anything, mock.Anything,
		mock.MatchedBy(func(h *multipart.FileHeader) bool {
			return h != nil && h.Filename == "shot.png"
		})).Return(nil)
	h := NewProjectHandler(svc)

	rr := httptest.NewRecorder()
	h.Create(rr, multipartReq(t, http.MethodPost, "/projects", createFields(), "shot.png"))

	assert.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}

func TestCreateProject_NoImage_NilHeader(t *testing.T) {
	svc := &mockProjectSvc{}
	svc.On("Create", mock.Anything, mock.Anything, mock.Anything,
		mock.MatchedBy(func(h *multipart.FileHeader) bool { return h == nil })).Return(nil)
	h := NewProjectHandler(svc)

	rr := httptest.NewRecorder()
	h.Create(rr, multipartReq(t, http.MethodPost, "/projects", createFields(), ""))

	assert.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}

func TestCreateProject_ValidationFailure(t *testing.T) {
	svc := &mockProjectSvc{}
	svc.On("Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(fmt.Errorf("title required: %w", domain.ErrValidation))
	h := NewProjectHandler(svc)

	fields := createFields()
	delete(fields, "title")
	rr := httptest.NewRecorder()
	h.Create(rr, multipartReq(t, http.MethodPost, "/projects", fields, ""))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	var resp MessageEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "Missing required fields", resp.Error)
	assert.Equal(t, "validation_error", resp.Code)
}

func TestCreateProject_NotMultipart(t *testing.T) {
	h := NewProjectHandler(&mockProjectSvc{})
	r := httptest.NewRequest(http.MethodPost, "/projects", bytes.NewBufferString(`{"title":"x"}`))
	r.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.Create(rr, r)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

// --- List ---

func TestListProjects_Empty(t *testing.T) {
	svc := &mockProjectSvc{}
	svc.On("List", mock.Anything).Return([]domain.Project{}, nil)
	h := NewProjectHandler(svc)

	rr := httptest.NewRecorder()
	h.List(rr, httptest.NewRequest(http.MethodGet, "/projects", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, "[]", rr.Body.String())
}

func TestListProjects_FullDump(t *testing.T) {
	svc := &mockProjectSvc{}
	svc.On("List", mock.Anything).Return([]domain.Project{
		{ProjectID: "01A", Title: "one", TechStack: []string{"Go"}},
		{ProjectID: "01B", Title: "two", TechStack: []string{"Rust"}},
	}, nil)
	h := NewProjectHandler(svc)

	rr := httptest.NewRecorder()
	h.List(rr, httptest.NewRequest(http.MethodGet, "/projects", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp []domain.Project
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "01A", resp[0].ProjectID)
	assert.Equal(t, []string{"Rust"}, resp[1].TechStack)
}

func TestListProjects_StoreFailure(t *testing.T) {
	svc := &mockProjectSvc{}
	svc.On("List", mock.Anything).
		Return(nil, fmt.Errorf("list projects: dynamo down: %w", domain.ErrStore))
	h := NewProjectHandler(svc)

	rr := httptest.NewRecorder()
	h.List(rr, httptest.NewRequest(http.MethodGet, "/projects", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	var resp MessageEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "store_error", resp.Code)
}

// --- Update ---

func TestUpdateProject_HappyPath(t *testing.T) {
	svc := &mockProjectSvc{}
	svc.On("Update", mock.Anything, "01ARZ3NDEKTSV4RRFFQ69G5FAV",
		mock.MatchedBy(func(in project.UpdateInput) bool {
			return in.Description == "new desc" && in.TechStack == "Go,TypeScript"
		}), mock.Anything, mock.Anything).Return(nil)
	h := NewProjectHandler(svc)

	r := multipartReq(t, http.MethodPut, "/projects/updates/01ARZ3NDEKTSV4RRFFQ69G5FAV",
		map[string]string{"description": "new desc", "techStack": "Go,TypeScript"}, "")
	rr := httptest.NewRecorder()
	h.Update(rr, withChiID(r, "01ARZ3NDEKTSV4RRFFQ69G5FAV"))

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp MessageEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "Project updated successfully", resp.Message)
	svc.AssertExpectations(t)
}

func TestUpdateProject_NotFound(t *testing.T) {
	svc := &mockProjectSvc{}
	svc.On("Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(fmt.Errorf("project gone: %w", domain.ErrNotFound))
	h := NewProjectHandler(svc)

	r := multipartReq(t, http.MethodPut, "/projects/updates/01ARZ3NDEKTSV4RRFFQ69G5FAV",
		map[string]string{"description": "new desc", "techStack": "Go"}, "")
	rr := httptest.NewRecorder()
	h.Update(rr, withChiID(r, "01ARZ3NDEKTSV4RRFFQ69G5FAV"))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	var resp MessageEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "Project not found", resp.Error)
	assert.Equal(t, "not_found", resp.Code)
}

func TestUpdateProject_MalformedID(t *testing.T) {
	svc := &mockProjectSvc{}
	svc.On("Update", mock.Anything, "not-a-ulid", mock.Anything, mock.Anything, mock.Anything).
		Return(fmt.Errorf("malformed project id: %w", domain.ErrValidation))
	h := NewProjectHandler(svc)

	r := multipartReq(t, http.MethodPut, "/projects/updates/not-a-ulid",
		map[string]string{"description": "new desc", "techStack": "Go"}, "")
	rr := httptest.NewRecorder()
	h.Update(rr, withChiID(r, "not-a-ulid"))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

// --- Delete ---

func TestDeleteProject_AlwaysReportsSuccess(t *testing.T) {
	svc := &mockProjectSvc{}
	svc.On("Delete", mock.Anything, "01ARZ3NDEKTSV4RRFFQ69G5FAV").Return(nil)
	h := NewProjectHandler(svc)

	r := httptest.NewRequest(http.MethodDelete, "/projects/01ARZ3NDEKTSV4RRFFQ69G5FAV", nil)
	rr := httptest.NewRecorder()
	h.Delete(rr, withChiID(r, "01ARZ3NDEKTSV4RRFFQ69G5FAV"))

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp MessageEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "Project deleted successfully", resp.Message)
	svc.AssertExpectations(t)
}
