package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/showcase-api/internal/domain"
)

// MessageEnvelope is the generic response wrapper. Error responses carry
// the legacy message string clients already match on plus a stable
// machine-readable code.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

// VerifyEnvelope wraps the OTP verification response.
type VerifyEnvelope struct {
	UserID string `json:"userId"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg, code string) {
	writeJSON(w, status, MessageEnvelope{Error: msg, Code: code})
}

// httpError maps a domain error chain onto the HTTP contract. Client
// errors keep their legacy message texts; server errors are logged with
// full detail before the response goes out.
func httpError(w http.ResponseWriter, err error) {
	code := domain.Code(err)
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, "Missing required fields", code)
	case errors.Is(err, domain.ErrInvalidOTP):
		writeError(w, http.StatusBadRequest, "Invalid OTP", code)
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "Project not found", code)
	default:
		if code == "" {
			code = "store_error"
		}
		slog.Error("request failed", "err", err)
		writeError(w, http.StatusInternalServerError, err.Error(), code)
	}
}
