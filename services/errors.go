// Package services holds the business rules: authentication, rate limiting,
// club-scoped authorization and the club operations built on them.
// File: services/errors.go
package services

import (
	"errors"
	"fmt"
)

// Kind classifies an AppError for response mapping.
type Kind string

const (
	KindAuthenticationRequired Kind = "authentication_required"
	KindCSRFInvalid            Kind = "csrf_invalid"
	KindRateLimitExceeded      Kind = "rate_limit_exceeded"
	KindPermissionDenied       Kind = "permission_denied"
	KindNotMember              Kind = "not_member"
	KindValidationFailed       Kind = "validation_failed"
	KindNotFound               Kind = "not_found"
	KindConflict               Kind = "conflict"
	KindStorageError           Kind = "storage_error"
	KindInvalidCredentials     Kind = "invalid_credentials"
	KindAccountDeactivated     Kind = "account_deactivated"
)

// AppError is an error whose Message is safe to show to the client.
type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

// Is matches any AppError of the same kind, so errors.Is(err, ErrPermissionDenied)
// holds for every permission denial regardless of its message. Failed logins
// and deactivated accounts carry kinds of their own.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels carrying the standard client messages.
var (
	ErrAuthenticationRequired = &AppError{Kind: KindAuthenticationRequired, Message: "Authentication required"}
	ErrCSRFInvalid            = &AppError{Kind: KindCSRFInvalid, Message: "Invalid or missing CSRF token"}
	ErrRateLimitExceeded      = &AppError{Kind: KindRateLimitExceeded, Message: "Rate limit exceeded. Please try again later."}
	ErrPermissionDenied       = &AppError{Kind: KindPermissionDenied, Message: "You do not have permission to perform this action"}
	ErrNotMember              = &AppError{Kind: KindNotMember, Message: "You are not an active member of this club"}
	ErrInvalidCredentials     = &AppError{Kind: KindInvalidCredentials, Message: "Invalid email or password"}
	ErrAccountDeactivated     = &AppError{Kind: KindAccountDeactivated, Message: "Account is deactivated"}
)

func Validation(msg string) error {
	return &AppError{Kind: KindValidationFailed, Message: msg}
}

func PermissionDenied(msg string) error {
	return &AppError{Kind: KindPermissionDenied, Message: msg}
}

func NotFound(msg string) error {
	return &AppError{Kind: KindNotFound, Message: msg}
}

func Conflict(msg string) error {
	return &AppError{Kind: KindConflict, Message: msg}
}

// Storage wraps a database failure. The client only ever sees msg.
func Storage(msg string, err error) error {
	return &AppError{Kind: KindStorageError, Message: msg, Err: err}
}

// KindOf returns the kind of the first AppError in err's chain, or "".
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// MessageOf returns the client-safe message of err, or fallback when err is
// not an AppError.
func MessageOf(err error, fallback string) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return fallback
}
