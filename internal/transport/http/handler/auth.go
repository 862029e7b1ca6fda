package handler

import (
	"encoding/json"
	"net/http"

	"github.com/showcase-api/internal/application/otp"
	"github.com/showcase-api/internal/pkg/validate"
)

// AuthHandler handles the OTP issue/verify endpoints.
type AuthHandler struct {
	svc otp.Service
}

func NewAuthHandler(svc otp.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type sendOTPRequest struct {
	Email string `json:"email" validate:"required"`
}

type verifyOTPRequest struct {
	Email string `json:"email" validate:"required"`
	OTP   string `json:"otp" validate:"required"`
}

func (h *AuthHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req sendOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "validation_error")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Missing required fields", "validation_error")
		return
	}
	if err := h.svc.Issue(r.Context(), req.Email); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "OTP sent to email"})
}

func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "validation_error")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Missing required fields", "validation_error")
		return
	}
	userID, err := h.svc.Verify(r.Context(), req.Email, req.OTP)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, VerifyEnvelope{UserID: userID})
}
