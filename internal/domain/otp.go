package domain

import "time"

// OTP is a one-time passcode issued to an email address.
// PK: email, SK: otp_id. The email is deliberately not a unique key —
// issuance purges all rows for the address before inserting a fresh one,
// so at most one matchable code exists at verification time. Codes carry
// no expiry; they stay valid until consumed or superseded.
type OTP struct {
	Email     string    `json:"email" dynamodbav:"email"`
	OTPID     string    `json:"-" dynamodbav:"otp_id"`
	Code      string    `json:"otp" dynamodbav:"otp"`
	CreatedAt time.Time `json:"createdAt" dynamodbav:"created_at"`
}

// UserIDSuffix is appended to a verified email to derive the placeholder
// identity token returned by OTP verification. It is not a session
// credential.
const UserIDSuffix = "-user"
