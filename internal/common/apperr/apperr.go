// Package apperr defines the stable error codes surfaced to API clients.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeBadRequest   Code = "BAD_REQUEST"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeNotEligible  Code = "NOT_ELIGIBLE"
	CodeUpstream     Code = "UPSTREAM_ERROR"
	CodeInternal     Code = "INTERNAL_ERROR"
)

// Error is an application error with a stable code and an HTTP status.
type Error struct {
	Code    Code
	Status  int
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// BadRequest is a caller input violation. Never retried automatically.
func BadRequest(message string) *Error {
	return &Error{Code: CodeBadRequest, Status: http.StatusBadRequest, Message: message}
}

// Unauthorized is a missing or unusable caller identity.
func Unauthorized(message string) *Error {
	return &Error{Code: CodeUnauthorized, Status: http.StatusBadRequest, Message: message}
}

// NotEligible covers both "never became eligible" and "already claimed"; the
// caller cannot distinguish these on purpose.
func NotEligible(message string) *Error {
	return &Error{Code: CodeNotEligible, Status: http.StatusBadRequest, Message: message}
}

// Upstream is an unexpected status or shape from a provider or RPC endpoint.
func Upstream(message string, cause error) *Error {
	return &Error{Code: CodeUpstream, Status: http.StatusInternalServerError, Message: message, Cause: cause}
}

// Internal is everything else.
func Internal(message string, cause error) *Error {
	return &Error{Code: CodeInternal, Status: http.StatusInternalServerError, Message: message, Cause: cause}
}

// From normalizes any error to an *Error, wrapping unknown ones as internal.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("internal server error", err)
}
