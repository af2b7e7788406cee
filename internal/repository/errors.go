// Package repository defines error types that are reused across multiple
// repositories. These sentinel values let handlers distinguish failure
// scenarios: ErrForbidden means the caller does not own the record it asked
// for, while ErrConflict signals that an operation cannot proceed because of
// existing state (e.g. submitting while a non-terminal application already
// exists for the user).
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers should translate this into an HTTP 403
// response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an operation cannot be performed because of
// conflicting state, such as a second open application for the same user.
// Handlers should translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")
