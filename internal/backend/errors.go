// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package backend

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the client after normalizing backend
// responses. Callers branch on these instead of raw HTTP status codes.
var (
	// ErrUnauthorized means the bearer token is missing or expired.
	// The UI reacts by redirecting to the login page.
	ErrUnauthorized = errors.New("backend: unauthorized")

	// ErrNotFound covers both genuine 404s and 403 tenant mismatches.
	// A record belonging to another tenant is indistinguishable from a
	// missing one as far as the UI is concerned.
	ErrNotFound = errors.New("backend: not found")
)

// ValidationError carries a backend validation failure (for example a
// duplicate MetaData handle) whose message is surfaced verbatim next to
// the offending form field.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// AsValidation unwraps a ValidationError from an error chain, returning
// nil if the error is not a validation failure.
func AsValidation(err error) *ValidationError {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}

// apiErrorBody is the backend's JSON error envelope.
type apiErrorBody struct {
	Error struct {
		Status  int    `json:"status"`
		Name    string `json:"name"`
		Message string `json:"message"`
	} `json:"error"`
}

// normalizeError maps an HTTP status plus decoded error body into one of
// the sentinel errors, a ValidationError, or a generic wrapped error with
// a single human-readable message.
func normalizeError(status int, body apiErrorBody) error {
	msg := body.Error.Message
	if msg == "" {
		msg = fmt.Sprintf("backend request failed with status %d", status)
	}

	switch status {
	case 401:
		return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
	case 403, 404:
		return fmt.Errorf("%w: %s", ErrNotFound, msg)
	case 400:
		if body.Error.Name == "ValidationError" {
			return &ValidationError{Message: msg}
		}
		return fmt.Errorf("backend: %s", msg)
	default:
		return fmt.Errorf("backend: %s", msg)
	}
}
