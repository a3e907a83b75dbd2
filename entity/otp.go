package entity

import (
	"time"
)

// OTPNamespace separates registration codes from password reset codes for the
// same identifier.
type OTPNamespace string

const (
	OTPNamespaceRegistration  OTPNamespace = "registration"
	OTPNamespacePasswordReset OTPNamespace = "password_reset"
)

func (n OTPNamespace) Valid() bool {
	return n == OTPNamespaceRegistration || n == OTPNamespacePasswordReset
}

// OTPRecord represents the server-side state of one outstanding code
type OTPRecord struct {
	Namespace   OTPNamespace `db:"namespace" json:"namespace"`
	Identifier  string       `db:"identifier" json:"identifier"`
	Code        string       `db:"code" json:"-"`
	Attempts    int          `db:"attempts" json:"attempts"`
	ResendCount int          `db:"resend_count" json:"resend_count"`
	CreatedAt   time.Time    `db:"created_at" json:"created_at"`
	LastSentAt  *time.Time   `db:"last_sent_at" json:"last_sent_at"`
}

// TableName returns the table name for the OTPRecord entity
func (OTPRecord) TableName() string {
	return "otp_records"
}

// VerifyReason is the outcome reported by an OTP verification attempt.
type VerifyReason string

const (
	VerifyReasonVerified        VerifyReason = "verified"
	VerifyReasonExpired         VerifyReason = "expired"
	VerifyReasonTooManyAttempts VerifyReason = "too many attempts"
	VerifyReasonInvalid         VerifyReason = "invalid"
)

// VerifyResult is returned by the OTP engine for every verification attempt.
type VerifyResult struct {
	Accepted bool
	Reason   VerifyReason
}

// DeliveryChannel is the medium an OTP is delivered through.
type DeliveryChannel string

const (
	ChannelEmail DeliveryChannel = "email"
	ChannelSMS   DeliveryChannel = "sms"
)

// OTPResponse represents the response to any request that issues a code
type OTPResponse struct {
	Message    string          `json:"message"`
	Token      string          `json:"token"` // Transaction token for the following steps
	Identifier string          `json:"identifier"`
	Channel    DeliveryChannel `json:"channel,omitempty"`
	ExpiresAt  time.Time       `json:"expires_at"`
}

// ResendRequest represents a resend for an ongoing registration or reset
type ResendRequest struct {
	Token string `json:"token" validate:"required"`
}

// CancelRequest discards an ongoing registration or reset
type CancelRequest struct {
	Token string `json:"token" validate:"required"`
}

// MessageResponse is a plain acknowledgement
type MessageResponse struct {
	Message string `json:"message"`
}

// AuthResponse represents the authentication response with JWT token
type AuthResponse struct {
	Token     string       `json:"token"`
	User      UserResponse `json:"user"`
	ExpiresAt time.Time    `json:"expires_at"`
	Message   string       `json:"message"`
}
