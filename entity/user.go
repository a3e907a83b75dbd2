package entity

import (
	"time"
)

// User represents a registered account
type User struct {
	ID                        int        `db:"id" json:"id"`
	Username                  string     `db:"username" json:"username"`
	Email                     *string    `db:"email" json:"email"`
	Phone                     *string    `db:"phone" json:"phone"`
	PasswordHash              string     `db:"password_hash" json:"-"`
	FullName                  string     `db:"full_name" json:"full_name"`
	DateOfBirth               time.Time  `db:"date_of_birth" json:"date_of_birth"`
	Gender                    string     `db:"gender" json:"gender"`
	Country                   string     `db:"country" json:"country"`
	NativeLanguage            string     `db:"native_language" json:"native_language"`
	LearningLanguage          string     `db:"learning_language" json:"learning_language"`
	LearningLanguageUpdatedAt *time.Time `db:"learning_language_updated_at" json:"learning_language_updated_at"`
	RegisteredAt              time.Time  `db:"registered_at" json:"registered_at"`
	LastLoginAt               *time.Time `db:"last_login_at" json:"last_login_at"`
	IsActive                  bool       `db:"is_active" json:"is_active"`
}

// TableName returns the table name for the User entity
func (User) TableName() string {
	return "users"
}

// Contact returns the address OTPs for this user go to, preferring email.
func (u *User) Contact() string {
	if u.Email != nil && *u.Email != "" {
		return *u.Email
	}
	if u.Phone != nil {
		return *u.Phone
	}
	return ""
}

// UserResponse represents the user response
type UserResponse struct {
	ID                        int        `json:"id"`
	Username                  string     `json:"username"`
	Email                     *string    `json:"email,omitempty"`
	Phone                     *string    `json:"phone,omitempty"`
	FullName                  string     `json:"full_name"`
	DateOfBirth               string     `json:"date_of_birth"`
	Gender                    string     `json:"gender"`
	Country                   string     `json:"country"`
	NativeLanguage            string     `json:"native_language"`
	NativeLanguageName        string     `json:"native_language_name,omitempty"`
	LearningLanguage          string     `json:"learning_language"`
	LearningLanguageName      string     `json:"learning_language_name,omitempty"`
	LearningLanguageUpdatedAt *time.Time `json:"learning_language_updated_at,omitempty"`
	RegisteredAt              time.Time  `json:"registered_at"`
	LastLoginAt               *time.Time `json:"last_login_at"`
	IsActive                  bool       `json:"is_active"`
}

// LoginRequest represents the login request
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// LogoutRequest represents the logout request structure
type LogoutRequest struct {
	LogoutAll bool `json:"logout_all,omitempty"`
}

// LogoutResponse represents the logout response structure
type LogoutResponse struct {
	Message       string `json:"message"`
	TokensRevoked int    `json:"tokens_revoked,omitempty"`
}

// UpdateProfileRequest represents the profile edit form
type UpdateProfileRequest struct {
	FullName         string `json:"full_name" validate:"required,min=2,max=100"`
	Gender           string `json:"gender" validate:"required,oneof=male female other"`
	Country          string `json:"country" validate:"required,max=64"`
	NativeLanguage   string `json:"native_language" validate:"required,language_code"`
	LearningLanguage string `json:"learning_language" validate:"required,language_code"`
}

// UpdateLearningLanguageRequest changes only the learning language
type UpdateLearningLanguageRequest struct {
	LearningLanguage string `json:"learning_language" validate:"required,language_code"`
}

// Language is an entry of the language picker
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}
