// Package apperrors defines the error taxonomy shared by repositories, services and handlers.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for translation at the request boundary.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindUnauthorized
	KindForbidden
	KindBadRequest
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindBadRequest:
		return "bad_request"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error carries a Kind, a user-facing message and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New creates an error of the given kind.
func New(kind Kind, message string) error {
	return &Error{Kind: kind, Message: message}
}

// Wrap attaches a kind and message to an existing error.
func Wrap(kind Kind, message string, err error) error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Shorthand constructors for the common kinds.
func NotFound(message string) error     { return New(KindNotFound, message) }
func Unauthorized(message string) error { return New(KindUnauthorized, message) }
func Forbidden(message string) error    { return New(KindForbidden, message) }
func BadRequest(message string) error   { return New(KindBadRequest, message) }
func Conflict(message string) error     { return New(KindConflict, message) }

// KindOf returns the kind of the first *Error in err's chain, KindInternal otherwise.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Message returns the user-facing message of err. Internal errors are not exposed.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Kind != KindInternal {
		return appErr.Message
	}
	return "Internal server error"
}

// HTTPStatus maps a kind to its response status code.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindBadRequest:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
