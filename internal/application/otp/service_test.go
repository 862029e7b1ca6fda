package otp

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"

	"github.com/showcase-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockOTPStore struct{ mock.Mock }

func (m *mockOTPStore) Put(ctx context.Context, o *domain.OTP) error {
	return m.Called(ctx, o).Error(0)
}
func (m *mockOTPStore) FindByEmailAndCode(ctx context.Context, email, code string) (*domain.OTP, error) {
	args := m.Called(ctx, email, code)
	if o, _ := args.Get(0).(*domain.OTP); o != nil {
		return o, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockOTPStore) DeleteAllForEmail(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

type mockMailer struct{ mock.Mock }

func (m *mockMailer) SendEmail(to, subject, body string) error {
	return m.Called(to, subject, body).Error(0)
}

var sixDigits = regexp.MustCompile(`^[1-9]\d{5}$`)

// --- Issue ---

func TestIssue_HappyPath(t *testing.T) {
	store := &mockOTPStore{}
	ml := &mockMailer{}

	var issued string
	store.On("DeleteAllForEmail", mock.Anything, "a@b.com").Return(nil)
	store.On("Put", mock.Anything, mock.MatchedBy(func(o *domain.OTP) bool {
		issued = o.Code
		return o.Email == "a@b.com" && sixDigits.MatchString(o.Code) &&
			o.OTPID != "" && !o.CreatedAt.IsZero()
	})).Return(nil)
	ml.On("SendEmail", "a@b.com", "Your OTP Code", mock.MatchedBy(func(body string) bool {
		return body == "Your OTP is "+issued
	})).Return(nil)

	svc := NewService(ServiceDeps{OTPRepo: store, Mailer: ml})
	require.NoError(t, svc.Issue(context.Background(), "a@b.com"))

	store.AssertExpectations(t)
	ml.AssertExpectations(t)
}

func TestIssue_DeleteFails_StoreError(t *testing.T) {
	store := &mockOTPStore{}
	store.On("DeleteAllForEmail", mock.Anything, "a@b.com").Return(errors.New("dynamo down"))

	svc := NewService(ServiceDeps{OTPRepo: store, Mailer: &mockMailer{}})
	err := svc.Issue(context.Background(), "a@b.com")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrStore))
	store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestIssue_PutFails_StoreError(t *testing.T) {
	store := &mockOTPStore{}
	store.On("DeleteAllForEmail", mock.Anything, "a@b.com").Return(nil)
	store.On("Put", mock.Anything, mock.Anything).Return(errors.New("dynamo down"))

	svc := NewService(ServiceDeps{OTPRepo: store, Mailer: &mockMailer{}})
	err := svc.Issue(context.Background(), "a@b.com")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrStore))
}

func TestIssue_MailFails_DeliveryError_RecordStays(t *testing.T) {
	store := &mockOTPStore{}
	ml := &mockMailer{}
	store.On("DeleteAllForEmail", mock.Anything, "a@b.com").Return(nil)
	store.On("Put", mock.Anything, mock.Anything).Return(nil)
	ml.On("SendEmail", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp auth failed"))

	svc := NewService(ServiceDeps{OTPRepo: store, Mailer: ml})
	err := svc.Issue(context.Background(), "a@b.com")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDelivery))
	// The freshly written record is not rolled back on delivery failure.
	store.AssertCalled(t, "Put", mock.Anything, mock.Anything)
}

// --- Verify ---

func TestVerify_NoMatch_InvalidOTP(t *testing.T) {
	store := &mockOTPStore{}
	store.On("FindByEmailAndCode", mock.Anything, "a@b.com", "123456").
		Return(nil, fmt.Errorf("otp not found: %w", domain.ErrNotFound))

	svc := NewService(ServiceDeps{OTPRepo: store, Mailer: &mockMailer{}})
	_, err := svc.Verify(context.Background(), "a@b.com", "123456")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidOTP))
	store.AssertNotCalled(t, "DeleteAllForEmail", mock.Anything, mock.Anything)
}

func TestVerify_LookupFails_StoreError(t *testing.T) {
	store := &mockOTPStore{}
	store.On("FindByEmailAndCode", mock.Anything, "a@b.com", "123456").
		Return(nil, errors.New("dynamo down"))

	svc := NewService(ServiceDeps{OTPRepo: store, Mailer: &mockMailer{}})
	_, err := svc.Verify(context.Background(), "a@b.com", "123456")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrStore))
	assert.False(t, errors.Is(err, domain.ErrInvalidOTP))
}

func TestVerify_HappyPath_ConsumesAllRows(t *testing.T) {
	store := &mockOTPStore{}
	store.On("FindByEmailAndCode", mock.Anything, "a@b.com", "654321").
		Return(&domain.OTP{Email: "a@b.com", Code: "654321"}, nil)
	store.On("DeleteAllForEmail", mock.Anything, "a@b.com").Return(nil)

	svc := NewService(ServiceDeps{OTPRepo: store, Mailer: &mockMailer{}})
	userID, err := svc.Verify(context.Background(), "a@b.com", "654321")

	require.NoError(t, err)
	assert.Equal(t, "a@b.com-user", userID)
	store.AssertExpectations(t)
}

func TestVerify_ConsumeFails_StoreError(t *testing.T) {
	store := &mockOTPStore{}
	store.On("FindByEmailAndCode", mock.Anything, "a@b.com", "654321").
		Return(&domain.OTP{Email: "a@b.com", Code: "654321"}, nil)
	store.On("DeleteAllForEmail", mock.Anything, "a@b.com").Return(errors.New("dynamo down"))

	svc := NewService(ServiceDeps{OTPRepo: store, Mailer: &mockMailer{}})
	_, err := svc.Verify(context.Background(), "a@b.com", "654321")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrStore))
}

// --- code generation ---

func TestGenerateCode_SixDigitRange(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := generateCode()
		require.NoError(t, err)
		assert.Regexp(t, sixDigits, code)
	}
}
