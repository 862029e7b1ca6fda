package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/showcase-api/internal/domain"
	"github.com/showcase-api/internal/pkg/id"
)

// OTPStore is the persistence surface the service needs.
type OTPStore interface {
	Put(ctx context.Context, o *domain.OTP) error
	FindByEmailAndCode(ctx context.Context, email, code string) (*domain.OTP, error)
	DeleteAllForEmail(ctx context.Context, email string) error
}

// Mailer hands a message to the email transport.
type Mailer interface {
	SendEmail(to, subject, body string) error
}

type Service interface {
	// Issue generates a fresh 6-digit code for email, supersedes any
	// previously issued codes and mails the new one in plain text.
	Issue(ctx context.Context, email string) error
	// Verify checks the code against the stored rows for email. On a
	// match it consumes every row for the address and returns the
	// derived user identifier.
	Verify(ctx context.Context, email, code string) (string, error)
}

type ServiceDeps struct {
	OTPRepo OTPStore
	Mailer  Mailer
}

type service struct {
	otpRepo OTPStore
	mailer  Mailer
}

func NewService(deps ServiceDeps) Service {
	return &service{otpRepo: deps.OTPRepo, mailer: deps.Mailer}
}

func (s *service) Issue(ctx context.Context, email string) error {
	code, err := generateCode()
	if err != nil {
		return err
	}

	// Old rows go first so at most one matchable code exists per address.
	// The two store steps and the send are strictly sequential.
	if err := s.otpRepo.DeleteAllForEmail(ctx, email); err != nil {
		return fmt.Errorf("delete previous otps: %v: %w", err, domain.ErrStore)
	}
	record := &domain.OTP{
		Email:     email,
		OTPID:     id.New(),
		Code:      code,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.otpRepo.Put(ctx, record); err != nil {
		return fmt.Errorf("store otp: %v: %w", err, domain.ErrStore)
	}

	// The record above stays persisted even when the send fails — the
	// mutation and the notification are not atomic.
	if err := s.mailer.SendEmail(email, "Your OTP Code", "Your OTP is "+code); err != nil {
		return fmt.Errorf("send otp email: %v: %w", err, domain.ErrDelivery)
	}
	return nil
}

func (s *service) Verify(ctx context.Context, email, code string) (string, error) {
	_, err := s.otpRepo.FindByEmailAndCode(ctx, email, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", fmt.Errorf("no matching code for %s: %w", email, domain.ErrInvalidOTP)
		}
		return "", fmt.Errorf("lookup otp: %v: %w", err, domain.ErrStore)
	}

	// Codes are single-use: every row for the address is purged, not just
	// the matched one.
	if err := s.otpRepo.DeleteAllForEmail(ctx, email); err != nil {
		return "", fmt.Errorf("consume otp: %v: %w", err, domain.ErrStore)
	}
	return email + domain.UserIDSuffix, nil
}

// generateCode returns a uniformly random 6-digit code in [100000, 999999].
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
