// Package apierr defines the error taxonomy every component of the API
// speaks. All domain failures are values of *Error; nothing else should
// reach the terminal classifier except genuinely unexpected errors, which
// it maps to the generic internal value.
package apierr

import (
	"fmt"
	"net/http"
)

// Stable machine-readable error codes. These are part of the public API
// contract; clients switch on them, so renaming one is a breaking change.
const (
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeTokenExpired  = "TOKEN_EXPIRED"
	CodeTokenInvalid  = "TOKEN_INVALID"
	CodeForbidden     = "FORBIDDEN"
	CodeValidation    = "VALIDATION_ERROR"
	CodeAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	CodeNotFound      = "RESOURCE_NOT_FOUND"
	CodeInternal      = "INTERNAL_ERROR"
)

// Error is the single error type carried across the call stack. Operational
// errors are expected business conditions whose Message is safe to return to
// the client verbatim; non-operational errors are programmer or
// infrastructure faults whose details must never leave the server outside a
// development configuration.
type Error struct {
	Status      int    `json:"-"`
	Code        string `json:"code"`
	Message     string `json:"message"`
	Operational bool   `json:"-"`
	Details     any    `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// WithMessage returns a copy carrying a different user-facing message.
// The predefined values below are shared; never mutate them in place.
func (e *Error) WithMessage(msg string) *Error {
	clone := *e
	clone.Message = msg
	return &clone
}

// WithDetails returns a copy carrying structured details (e.g. per-field
// validation messages).
func (e *Error) WithDetails(details any) *Error {
	clone := *e
	clone.Details = details
	return &clone
}

// New creates an operational error. Use this for expected business
// conditions the client should see as-is.
func New(status int, code, message string) *Error {
	return &Error{
		Status:      status,
		Code:        code,
		Message:     message,
		Operational: true,
	}
}

// Predefined errors for the common classifications. Handlers and middleware
// return these (or copies via WithMessage/WithDetails) rather than building
// fresh values each time.
var (
	// ErrUnauthorized is returned when no credentials are presented at all.
	ErrUnauthorized = New(http.StatusUnauthorized, CodeUnauthorized, "authentication required")

	// ErrTokenExpired is returned for a well-formed token past its expiry.
	// Distinguished from ErrTokenInvalid so clients know to refresh rather
	// than re-authenticate.
	ErrTokenExpired = New(http.StatusUnauthorized, CodeTokenExpired, "token expired")

	// ErrTokenInvalid is returned for malformed tokens, bad signatures and
	// purpose mismatches. Deliberately does not say which.
	ErrTokenInvalid = New(http.StatusUnauthorized, CodeTokenInvalid, "invalid token")

	// ErrForbidden is returned when an authenticated principal lacks the
	// role or ownership the route requires, and for CSRF failures.
	ErrForbidden = New(http.StatusForbidden, CodeForbidden, "insufficient permissions")

	// ErrValidation is returned for request bodies that fail schema
	// validation. Attach per-field messages via WithDetails.
	ErrValidation = New(http.StatusUnprocessableEntity, CodeValidation, "request validation failed")

	// ErrAlreadyExists maps storage unique-constraint violations.
	ErrAlreadyExists = New(http.StatusConflict, CodeAlreadyExists, "resource already exists")

	// ErrNotFound maps storage not-found results.
	ErrNotFound = New(http.StatusNotFound, CodeNotFound, "resource not found")

	// ErrInternal is the only thing a client sees for unexpected failures.
	ErrInternal = &Error{
		Status:      http.StatusInternalServerError,
		Code:        CodeInternal,
		Message:     "an unexpected error occurred",
		Operational: false,
	}
)

// FieldError is one entry in the Details of a validation error. Field paths
// are client-facing: internal prefixes like "body." are stripped before the
// error leaves a handler.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
