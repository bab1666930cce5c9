// Copyright (c) 2026 Punchline. All rights reserved.

/*
Package apperr defines the centralized error handling framework for Punchline.

It provides a rich error type that bridges the gap between low-level Domain/Storage
errors and high-level HTTP responses.

Architecture:

  - AppError: A struct containing machine-readable ErrorCode and user-friendly messages.
  - Redirects: Errors that recover into a browser redirect carry their target location.
  - Mapping: Explicit mapping from AppError to standard HTTP Status Codes.

Every error that leaves the service layer should be wrapped as an [AppError] to ensure
consistent responses.
*/
package apperr

import (
	"errors"
	"net/http"
)

// AppError is the canonical error type for the Punchline API.
//
// It carries an HTTP status code, a machine-readable code, a client-safe
// message, an optional slice of field-level validation errors, and an
// optional echo of the submitted form fields.
//
// # Security
//
// The Cause field is for server-side logging only and is never sent to clients
// to avoid leaking internal implementation details (e.g., SQL queries).
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "NOT_FOUND", "FORBIDDEN").
	Code string `json:"code"`
	// Message is a human-readable description safe to return to the client.
	Message string `json:"error"`
	// HTTPStatus is the HTTP response status code.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
	// Details holds per-field validation errors for VALIDATION_ERROR responses.
	Details []FieldError `json:"details,omitempty"`
	// Fields echoes the submitted form values on validation failure so the
	// client can re-render the form pre-filled.
	Fields map[string]string `json:"fields,omitempty"`
	// RedirectTo, when non-empty, tells the respond layer to answer with a
	// redirect instead of an error body (used for login redirects).
	RedirectTo string `json:"-"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	// Field is the form field name that failed validation.
	Field string `json:"field"`
	// Message is the human-readable description of the failure.
	Message string `json:"message"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// WithFields attaches the echoed form values and returns the same error.
func (e *AppError) WithFields(fields map[string]string) *AppError {
	e.Fields = fields
	return e
}

// # Client Errors (4xx)

// NotFound creates a 404 [AppError] for a named resource.
//
// Example:
//
//	apperr.NotFound("Joke") // Returns "Joke not found"
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       "NOT_FOUND",
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// Unauthenticated creates a 401 [AppError] that recovers into a redirect to
// the login page. redirectTo is the location the respond layer sends the
// client to (typically /login?redirectTo=<original path>).
func Unauthenticated(redirectTo string) *AppError {
	return &AppError{
		Code:       "UNAUTHENTICATED",
		Message:    "You must be logged in",
		HTTPStatus: http.StatusUnauthorized,
		RedirectTo: redirectTo,
	}
}

// Unauthorized creates a plain 401 [AppError] with no redirect recovery.
func Unauthorized(msg string) *AppError {
	return &AppError{
		Code:       "UNAUTHORIZED",
		Message:    msg,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// Forbidden creates a 403 [AppError].
func Forbidden(msg string) *AppError {
	return &AppError{
		Code:       "FORBIDDEN",
		Message:    msg,
		HTTPStatus: http.StatusForbidden,
	}
}

// Conflict creates a 409 [AppError] for duplicate or unique-constraint violations.
func Conflict(msg string) *AppError {
	return &AppError{
		Code:       "CONFLICT",
		Message:    msg,
		HTTPStatus: http.StatusConflict,
	}
}

// UnsupportedMethod creates a 400 [AppError] for an unrecognized form
// method-override marker.
func UnsupportedMethod(marker string) *AppError {
	return &AppError{
		Code:       "UNSUPPORTED_METHOD",
		Message:    "The _method " + marker + " is not supported",
		HTTPStatus: http.StatusBadRequest,
	}
}

// ValidationError creates a 400 [AppError] with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	return &AppError{
		Code:       "VALIDATION_ERROR",
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// # Server Errors (5xx)

// InvalidSession creates a 500 [AppError] for a corrupted session token.
//
// A tampered or malformed session cookie is NOT downgraded to an anonymous
// request: the whole request fails. See middleware.ResolveSession for the
// single place where that policy could be changed.
func InvalidSession(cause error) *AppError {
	return &AppError{
		Code:       "INVALID_SESSION",
		Message:    "Session could not be decoded",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// Internal creates a 500 [AppError] wrapping an unexpected server-side error.
// The cause is stored for logging but is never sent to the client.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// ServiceUnavailable creates a 503 [AppError] for maintenance mode.
func ServiceUnavailable(msg string) *AppError {
	return &AppError{
		Code:       "SERVICE_UNAVAILABLE",
		Message:    msg,
		HTTPStatus: http.StatusServiceUnavailable,
	}
}

// # Helpers

// IsAppError reports whether err (or any error in its chain) is an [*AppError].
func IsAppError(err error) bool {
	var ae *AppError
	return errors.As(err, &ae)
}

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}
