// Package apperr defines the error categories the client surfaces to users.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Code represents a category of client-visible failure.
type Code string

const (
	// CodeAuthRequired means no usable credential: the session must log in again.
	CodeAuthRequired Code = "auth_required"
	// CodeForbidden means the credential is valid but its role is insufficient.
	CodeForbidden Code = "forbidden"
	// CodeNotFound means the requested entity does not exist.
	CodeNotFound Code = "not_found"
	// CodeValidation means input was rejected locally before submission.
	CodeValidation Code = "validation"
	// CodeRemote covers any other failed call to the library service.
	CodeRemote Code = "remote"
	// CodeMalformedDate marks an unparseable due date.
	CodeMalformedDate Code = "malformed_date"
)

// Error is a categorised failure with an optional field and cause.
type Error struct {
	Code    Code
	Message string
	Field   string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// AuthRequired creates an AuthRequired error.
func AuthRequired(message string) *Error {
	return &Error{Code: CodeAuthRequired, Message: message}
}

// Forbidden creates a Forbidden error.
func Forbidden(message string) *Error {
	return &Error{Code: CodeForbidden, Message: message}
}

// NotFound creates a NotFound error.
func NotFound(message string) *Error {
	return &Error{Code: CodeNotFound, Message: message}
}

// NotFoundf creates a NotFound error with a formatted message.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// ValidationField creates a Validation error attached to a form field.
func ValidationField(field, message string) *Error {
	return &Error{Code: CodeValidation, Message: message, Field: field}
}

// Remote wraps a failed call to the library service.
func Remote(message string, cause error) *Error {
	return &Error{Code: CodeRemote, Message: message, Cause: cause}
}

// MalformedDate creates a MalformedDate error for the given raw value.
func MalformedDate(raw string) *Error {
	return &Error{Code: CodeMalformedDate, Message: fmt.Sprintf("unparseable date %q", raw)}
}

// FromStatus maps an HTTP status code to an error category.
func FromStatus(status int) Code {
	switch status {
	case http.StatusUnauthorized:
		return CodeAuthRequired
	case http.StatusForbidden:
		return CodeForbidden
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusUnprocessableEntity:
		return CodeValidation
	default:
		return CodeRemote
	}
}

// CodeOf returns the category of err, or CodeRemote when err is not an *Error.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeRemote
}

// Is reports whether err carries the given category.
func Is(err error, code Code) bool {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.Code == code
}

// UserMessage returns the message to show for err, preferring a server- or
// validation-supplied message over fallback.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		if msg := strings.TrimSpace(appErr.Message); msg != "" {
			return msg
		}
	}
	return fallback
}
