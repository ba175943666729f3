// Package apperr defines the error kinds shared by the service layer and
// the HTTP surface. Handlers map kinds to status codes deterministically;
// services never return raw gorm or transport errors across the boundary.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel kinds.
var (
	ErrInvalidInput            = errors.New("invalid input")
	ErrUnauthenticated         = errors.New("unauthenticated")
	ErrUnauthorized            = errors.New("unauthorized")
	ErrNotFound                = errors.New("not found")
	ErrConflict                = errors.New("constraint violation")
	ErrCollaboratorUnavailable = errors.New("collaborator unavailable")
)

// Error pairs a kind with a caller-facing message. errors.Is matches the
// kind through Unwrap.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Kind }

// Wrap attaches a caller-facing message to a kind.
func Wrap(kind error, msg string) error {
	return &Error{Kind: kind, Message: msg}
}

// Wrapf is Wrap with formatting.
func Wrapf(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Status returns the HTTP status code for an error. Unknown errors are
// internal. A failed collaborator call surfaces as 500 when it is the whole
// operation; partial-success flows never pass it here.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrConflict):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
