// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import (
	"errors"
	"fmt"
)

// Remote failures. APIError matches these by HTTP status.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates failed authentication (HTTP 401).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the server refused the action for this user (HTTP 403).
	ErrForbidden = errors.New("forbidden")

	// ErrBadRequest indicates the server rejected the payload or the action (HTTP 400/422).
	ErrBadRequest = errors.New("bad request")

	// ErrConflict indicates a uniqueness or state conflict on the server (HTTP 409).
	ErrConflict = errors.New("conflict")

	// ErrTransport indicates the request never produced an HTTP response.
	ErrTransport = errors.New("transport failure")

	// ErrRemoteLogout indicates the server-side logout call failed; local state is still cleared.
	ErrRemoteLogout = errors.New("remote logout failed")
)

// Client-side failures. None of these are preceded by a network call.
var (
	// ErrValidation indicates input rejected before any request was made.
	ErrValidation = errors.New("validation")

	// ErrPasswordMismatch indicates password and its confirmation differ.
	ErrPasswordMismatch = fmt.Errorf("%w: passwords don't match", ErrValidation)

	// ErrAuthRequired indicates an identity-gated action attempted without a session.
	ErrAuthRequired = errors.New("authentication required")

	// ErrPermissionDenied indicates the signed-in user may not perform the action.
	ErrPermissionDenied = errors.New("permission denied")
)

// Invalid returns a validation error with a formatted reason.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
