// internal/errors/mapper.go
package errors

import (
	"context"
	"errors"
	"net/http"

	"gorm.io/gorm"
)

// Kind classifies a service error so the HTTP layer can map it to a
// status code without inspecting error strings.
type Kind string

const (
	KindValidation    Kind = "validation"
	KindNotFound      Kind = "not_found"
	KindAuthorization Kind = "authorization"
	KindConflict      Kind = "conflict"
	KindUpstream      Kind = "upstream"
)

// Error is the error type every service method returns. Validation and
// authorization failures are detected before any write; conflicts come
// from unique constraints at the storage boundary.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// Validation creates a validation error (self-swipe, missing fields,
// age < 18, malformed age range).
func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// NotFound creates a not-found error for unknown users/profiles/matches.
func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// Authorization creates an authorization error (non-participant post,
// missing caller identity).
func Authorization(msg string) *Error {
	return &Error{Kind: KindAuthorization, Message: msg}
}

// Conflict creates a conflict error for duplicate inserts under race.
func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

// Upstream creates a generic store/external failure the client may retry.
func Upstream(msg string) *Error {
	return &Error{Kind: KindUpstream, Message: msg}
}

// Map converts repo/infra errors into typed service errors.
// Keeps the service layer clean by centralizing error mapping.
func Map(err error) *Error {
	if err == nil {
		return nil
	}

	var svcErr *Error
	switch {
	case errors.As(err, &svcErr):
		return svcErr

	case errors.Is(err, gorm.ErrRecordNotFound):
		return NotFound("record not found")

	case errors.Is(err, gorm.ErrDuplicatedKey):
		return Conflict("record already exists")

	case errors.Is(err, context.DeadlineExceeded):
		return Upstream("request timed out")

	case errors.Is(err, context.Canceled):
		return Upstream("request was canceled")

	default:
		return Upstream(err.Error())
	}
}

// IsDuplicate reports whether err is a unique-constraint violation.
// Callers use it to resolve racing swipe/match inserts idempotently.
func IsDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// HTTPStatus maps an error to the response status code.
func HTTPStatus(err error) int {
	switch Map(err).Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindAuthorization:
		return http.StatusUnauthorized
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
