package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrValidation = errors.New("missing required fields")
	ErrInvalidOTP = errors.New("invalid OTP")
	ErrNotFound   = errors.New("not found")
	ErrStore      = errors.New("store error")
	ErrDelivery   = errors.New("delivery error")
)

// Code returns the machine-readable error kind for an error chain, or ""
// when the error does not wrap a domain sentinel. Clients match on this
// field instead of parsing message strings.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return "validation_error"
	case errors.Is(err, ErrInvalidOTP):
		return "invalid_otp"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrDelivery):
		return "delivery_error"
	case errors.Is(err, ErrStore):
		return "store_error"
	default:
		return ""
	}
}
