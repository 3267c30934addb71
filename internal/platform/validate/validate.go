// Copyright (c) 2026 Troca. All rights reserved.
// Author: equipe@doatroca.app

// Package validate provides a chainable Validator that collects field-level
// errors before returning a single [apperr.AppError].
//
// # Architecture
//
// This is the pre-submit request validator: it runs before any network call is
// issued, mirroring native form constraints. A failed chain means the request
// never leaves the process and the caller's input is left untouched.
//
// # Policy
//
// One canonical policy, applied everywhere (the source product shipped several
// contradictory per-form variants; this package is the single reconciliation):
//
//   - values are NEVER trimmed. A value that differs only in whitespace is
//     passed through as-is; whether "  demo " equals "demo" is the backend's
//     call, not the client's.
//   - email must parse as an address with a domain segment.
//   - passwords must be at least [MinPasswordLen] characters.
package validate

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/doatroca/troca/internal/platform/apperr"
)

// MinPasswordLen is the canonical minimum password length.
const MinPasswordLen = 6

// ErrInvalidJSON is returned when a payload cannot be decoded.
var ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")

// Validator collects field-level validation errors via a fluent, chainable API.
//
// # Concurrency
//
// Validator is not safe for concurrent use. A new instance must be created
// for every operation.
type Validator struct {
	errs []apperr.FieldError
}

// Required fails if the value is the empty string.
//
// Whitespace-only input deliberately passes: the client must not silently
// treat "  " and "" as the same value.
func (v *Validator) Required(field, value string) *Validator {
	if value == "" {
		v.add(field, "This field is required")
	}
	return v
}

// MaxLen fails if the Unicode character count exceeds max.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	if utf8.RuneCountInString(value) > max {
		v.add(field, fmt.Sprintf("Maximum %d characters", max))
	}
	return v
}

// MinLen fails if the Unicode character count is below min.
func (v *Validator) MinLen(field, value string, min int) *Validator {
	if utf8.RuneCountInString(value) < min {
		v.add(field, fmt.Sprintf("Minimum %d characters", min))
	}
	return v
}

// Email fails if the value is not a parseable address with a domain segment.
//
// The parsed address must equal the raw input: surrounding whitespace and
// display names are rejected, since the value is submitted exactly as typed.
func (v *Validator) Email(field, value string) *Validator {
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		v.add(field, "Must be a valid email address")
		return v
	}
	at := strings.LastIndex(value, "@")
	if at < 0 || at == len(value)-1 {
		v.add(field, "Must be a valid email address")
	}
	return v
}

// Password applies the canonical password policy: required, at least
// [MinPasswordLen] characters.
func (v *Validator) Password(field, value string) *Validator {
	if value == "" {
		v.add(field, "This field is required")
		return v
	}
	return v.MinLen(field, value, MinPasswordLen)
}

// OneOf fails if the value is not in the allowed set of strings.
func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	for _, a := range allowed {
		if value == a {
			return v
		}
	}
	v.add(field, fmt.Sprintf("Must be one of: %s", strings.Join(allowed, ", ")))
	return v
}

// Custom adds a failure with a custom message if the condition is true.
//
// # Example
//
//	v.Custom("limit", limit < 0, "Must not be negative")
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	if failed {
		v.add(field, message)
	}
	return v
}

// Err returns a [apperr.AppError] (VALIDATION_ERROR) if any rules failed,
// or nil if all rules passed.
//
// This is the only output method — call it at the end of the chain.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.ValidationError("Validation failed", v.errs...)
}

// HasErrors reports whether any validation rule has failed so far.
func (v *Validator) HasErrors() bool {
	return len(v.errs) > 0
}

// add appends a [apperr.FieldError] to the internal slice.
func (v *Validator) add(field, message string) {
	v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
}

// RequiredError is a shortcut to create a single-field validation error.
func RequiredError(field, message string) *apperr.AppError {
	return apperr.ValidationError("Validation failed", apperr.FieldError{
		Field:   field,
		Message: message,
	})
}
