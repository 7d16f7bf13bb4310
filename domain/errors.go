package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeNotFound           ErrorCode = "NOT_FOUND"
	ErrCodeValidation         ErrorCode = "VALIDATION"
	ErrCodeConflict           ErrorCode = "CONFLICT"
	ErrCodeForbidden          ErrorCode = "FORBIDDEN"
	ErrCodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeInternal           ErrorCode = "INTERNAL"
)

// Error represents a domain-level error. Fields carries per-field detail for
// validation failures so callers never have to parse messages.
type Error struct {
	Code    ErrorCode
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// NewValidationError builds a VALIDATION error with field-level detail.
func NewValidationError(fields map[string]string) *Error {
	return &Error{
		Code:    ErrCodeValidation,
		Message: "validation failed",
		Fields:  fields,
	}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain errors.
var (
	ErrUserNotFound = NewError(ErrCodeNotFound, "user not found")
	ErrTaskNotFound = NewError(ErrCodeNotFound, "task not found")
	ErrForbidden    = NewError(ErrCodeForbidden, "not authorized")
	ErrUnauthorized = NewError(ErrCodeUnauthorized, "unauthorized")

	// ErrInvalidCredentials is returned for any login failure. Unknown email,
	// wrong password and passwordless users are deliberately indistinguishable
	// so the endpoint cannot be used to enumerate accounts.
	ErrInvalidCredentials = NewError(ErrCodeInvalidCredentials, "invalid credentials")

	ErrDuplicateEmail = NewError(ErrCodeConflict, "email already registered")
	ErrInvalidPayload = NewError(ErrCodeValidation, "invalid payload")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}
