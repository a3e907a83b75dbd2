// Package apperror defines the error taxonomy returned by the services and
// rendered by the HTTP controllers.
package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies an error for the caller.
type Kind int

const (
	// KindInternal is an unexpected infrastructure failure.
	KindInternal Kind = iota
	// KindValidation is bad input shape: missing field, bad email/phone, underage, password mismatch.
	KindValidation
	// KindConflict is a username or identifier that is already taken.
	KindConflict
	// KindOTPExpired means the code outlived its validity window; the record is gone.
	KindOTPExpired
	// KindOTPInvalid means the code did not match; the record survives.
	KindOTPInvalid
	// KindOTPLocked means the attempt budget is exhausted; the record is gone.
	KindOTPLocked
	// KindSessionExpired means the transient draft or reset state is missing or stale.
	KindSessionExpired
	// KindCooldownActive means a resend or profile change was requested too soon.
	KindCooldownActive
	KindNotFound
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation_error"
	case KindConflict:
		return "conflict"
	case KindOTPExpired:
		return "otp_expired"
	case KindOTPInvalid:
		return "otp_invalid"
	case KindOTPLocked:
		return "otp_locked"
	case KindSessionExpired:
		return "session_expired"
	case KindCooldownActive:
		return "cooldown_active"
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "internal_error"
	}
}

// Error carries a user-facing message, a kind and an optional cause.
type Error struct {
	kind Kind
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.err
}

// Kind returns the error classification.
func (e *Error) Kind() Kind {
	return e.kind
}

// Message returns the text safe to show to the end user.
func (e *Error) Message() string {
	return e.msg
}

// StatusCode maps the kind to an HTTP status code.
func (e *Error) StatusCode() int {
	switch e.kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindOTPExpired, KindSessionExpired:
		return http.StatusGone
	case KindOTPInvalid, KindUnauthorized:
		return http.StatusUnauthorized
	case KindOTPLocked:
		return http.StatusLocked
	case KindCooldownActive:
		return http.StatusTooManyRequests
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func New(kind Kind, msg string) error {
	return &Error{kind: kind, msg: msg}
}

func Validation(msg string) error {
	return New(KindValidation, msg)
}

func Conflict(msg string) error {
	return New(KindConflict, msg)
}

func SessionExpired(msg string) error {
	return New(KindSessionExpired, msg)
}

func Cooldown(msg string) error {
	return New(KindCooldownActive, msg)
}

func Unauthorized(msg string) error {
	return New(KindUnauthorized, msg)
}

func NotFound(msg string) error {
	return New(KindNotFound, msg)
}

// Internal wraps an infrastructure failure behind a generic message.
func Internal(err error) error {
	return &Error{kind: KindInternal, msg: "Internal server error", err: err}
}

// KindOf reports the kind of err, or KindInternal if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return KindInternal
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.kind == kind
}
