package entity

import (
	"strings"
	"time"
)

// DateLayout is the wire format of dates of birth.
const DateLayout = "2006-01-02"

// RegistrationDraft is the account data held between "OTP requested" and
// "OTP verified". It never reaches the users table until verification succeeds.
type RegistrationDraft struct {
	FullName         string    `json:"full_name"`
	Username         string    `json:"username"`
	Identifier       string    `json:"identifier"`
	DateOfBirth      string    `json:"date_of_birth"`
	Gender           string    `json:"gender"`
	Country          string    `json:"country"`
	NativeLanguage   string    `json:"native_language"`
	LearningLanguage string    `json:"learning_language"`
	CreatedAt        time.Time `json:"created_at"`
}

// PasswordResetState tracks a reset between OTP verification and the new
// password submission.
type PasswordResetState struct {
	Identifier string     `json:"identifier"`
	Verified   bool       `json:"verified"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// IsEmailIdentifier reports whether the identifier is an email address rather than a phone number.
func IsEmailIdentifier(identifier string) bool {
	return strings.Contains(identifier, "@")
}

// ChannelFor picks the delivery channel for an identifier.
func ChannelFor(identifier string) DeliveryChannel {
	if IsEmailIdentifier(identifier) {
		return ChannelEmail
	}
	return ChannelSMS
}

// RegisterRequest starts a registration
type RegisterRequest struct {
	FullName         string `json:"full_name" validate:"required,min=2,max=100"`
	Username         string `json:"username" validate:"required,username"`
	Identifier       string `json:"identifier" validate:"required,identifier"`
	DateOfBirth      string `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
	Gender           string `json:"gender" validate:"required,oneof=male female other"`
	Country          string `json:"country" validate:"required,max=64"`
	NativeLanguage   string `json:"native_language" validate:"required,language_code"`
	LearningLanguage string `json:"learning_language" validate:"required,language_code"`
}

// VerifyRegistrationRequest completes a registration
type VerifyRegistrationRequest struct {
	Token           string `json:"token" validate:"required"`
	Identifier      string `json:"identifier" validate:"required"`
	Code            string `json:"code" validate:"required,len=6,numeric"`
	Password        string `json:"password" validate:"required,min=8,max=72"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// ForgotPasswordRequest starts a password reset
type ForgotPasswordRequest struct {
	Identifier string `json:"identifier" validate:"required"`
}

// VerifyPasswordResetRequest verifies the reset code
type VerifyPasswordResetRequest struct {
	Token string `json:"token" validate:"required"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

// ResetPasswordRequest submits the new password
type ResetPasswordRequest struct {
	Token           string `json:"token" validate:"required"`
	Password        string `json:"password" validate:"required,min=8,max=72"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}
