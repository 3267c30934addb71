// Copyright (c) 2026 Troca. All rights reserved.
// Author: equipe@doatroca.app

/*
Package apperr defines the centralized error taxonomy for the Troca client.

It provides a rich error type that bridges the gap between raw HTTP responses
(or transport failures) and the semantic outcomes the session and catalogue
layers act on.

Architecture:

  - AppError: A struct containing a machine-readable ErrorCode and user-friendly messages.
  - Normalization: Backend variants disagree on status codes (duplicate email is
    409 on one backend and 400 on another); this package is where those collapse
    into one semantic outcome.
  - Predicates: IsAuth/IsConflict/IsNetwork helpers so callers never compare
    status codes themselves.

Every error that leaves the rest client should be wrapped as an [AppError] to
ensure the rest of the program only ever sees the canonical taxonomy.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is the canonical error type for the Troca client.
//
// It carries the originating HTTP status code (zero for transport failures),
// a machine-readable code, a client-safe message, and an optional slice of
// field-level validation errors.
//
// The Cause field is for logging only and is never shown to the user.
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "NOT_FOUND", "CONFLICT").
	Code string `json:"code"`
	// Message is a human-readable description safe to surface to the user.
	Message string `json:"error"`
	// HTTPStatus is the backend response status, or 0 when no response arrived.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, used for logging only.
	Cause error `json:"-"`
	// Details holds per-field validation errors for VALIDATION_ERROR outcomes.
	Details []FieldError `json:"details,omitempty"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	// Field is the JSON field name that failed validation.
	Field string `json:"field"`
	// Message is the human-readable description of the failure.
	Message string `json:"message"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// # Taxonomy Constructors

// Network creates an [AppError] for a transport failure where no HTTP
// response was received at all (DNS failure, refused connection, timeout).
func Network(cause error) *AppError {
	return &AppError{
		Code:       "NETWORK_ERROR",
		Message:    "Could not reach the server. Check your connection and try again.",
		HTTPStatus: 0,
		Cause:      cause,
	}
}

// Unauthorized creates a 401 [AppError] for failed or expired authentication.
func Unauthorized(msg string) *AppError {
	return &AppError{
		Code:       "UNAUTHORIZED",
		Message:    msg,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// Forbidden creates a 403 [AppError] (e.g. mutating an item you do not own).
func Forbidden(msg string) *AppError {
	return &AppError{
		Code:       "FORBIDDEN",
		Message:    msg,
		HTTPStatus: http.StatusForbidden,
	}
}

// NotFound creates a 404 [AppError] for a named resource.
//
// Example:
//
//	apperr.NotFound("Item") // Returns "Item not found"
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       "NOT_FOUND",
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// Conflict creates a 409 [AppError] for duplicate-resource outcomes.
//
// Duplicate email on registration arrives as 409 from one backend variant and
// as 400 from another; both are normalized to this error by the rest client.
func Conflict(msg string) *AppError {
	return &AppError{
		Code:       "CONFLICT",
		Message:    msg,
		HTTPStatus: http.StatusConflict,
	}
}

// ValidationError creates a 400 [AppError] with optional per-field details.
//
// It is produced both client-side (pre-submit validation, no network call
// issued) and for backend 400 responses that are not duplicate-email.
func ValidationError(msg string, details ...FieldError) *AppError {
	return &AppError{
		Code:       "VALIDATION_ERROR",
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// Internal creates a 500 [AppError] wrapping an unexpected server-side error.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
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

// is reports whether err carries the given machine code.
func is(err error, code string) bool {
	ae := As(err)
	return ae != nil && ae.Code == code
}

// IsNetwork reports whether err is a transport failure (no HTTP response).
func IsNetwork(err error) bool { return is(err, "NETWORK_ERROR") }

// IsAuth reports whether err is an authentication failure.
func IsAuth(err error) bool { return is(err, "UNAUTHORIZED") }

// IsConflict reports whether err is a duplicate-resource conflict.
func IsConflict(err error) bool { return is(err, "CONFLICT") }

// IsNotFound reports whether err is a missing-resource outcome.
func IsNotFound(err error) bool { return is(err, "NOT_FOUND") }

// IsValidation reports whether err is a field-level validation failure.
func IsValidation(err error) bool { return is(err, "VALIDATION_ERROR") }

// String renders the error with its code for log output, e.g.
// "CONFLICT: Email is already registered".
func (e *AppError) String() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}
