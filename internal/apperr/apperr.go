// Package apperr defines the error kinds shared by the services and the HTTP layer.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the category of an application error. It is also the machine
// readable "code" field of error responses.
type Kind string

const (
	KindUnauthorized       Kind = "UNAUTHORIZED"
	KindInvalidContent     Kind = "INVALID_CONTENT"
	KindInvalidInput       Kind = "INVALID_INPUT"
	KindNotFound           Kind = "NOT_FOUND"
	KindDuplicateEmail     Kind = "DUPLICATE_EMAIL"
	KindInvalidCredentials Kind = "INVALID_CREDENTIALS"
	KindPersistence        Kind = "PERSISTENCE_FAILURE"
)

// Error is a structured application error. Message is safe to show to
// clients; Err holds the internal cause and is never rendered.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind, so that
// errors.Is(err, apperr.ErrNotFound) matches any not-found error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap attaches an internal cause to a new error of the given kind.
func Wrap(err error, kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

var (
	ErrUnauthorized       = New(KindUnauthorized, "unauthorized")
	ErrInvalidContent     = New(KindInvalidContent, "invalid note content")
	ErrInvalidInput       = New(KindInvalidInput, "invalid request")
	ErrNotFound           = New(KindNotFound, "not found")
	ErrNoteNotFound       = New(KindNotFound, "note not found")
	ErrUserNotFound       = New(KindNotFound, "user not found")
	ErrDuplicateEmail     = New(KindDuplicateEmail, "email already registered")
	ErrInvalidCredentials = New(KindInvalidCredentials, "invalid email or password")
	ErrPersistence        = New(KindPersistence, "internal server error")
)

// InvalidContent returns an InvalidContent error with a specific message.
func InvalidContent(format string, args ...any) *Error {
	return New(KindInvalidContent, fmt.Sprintf(format, args...))
}

// InvalidInput returns an InvalidInput error with a specific message.
func InvalidInput(format string, args ...any) *Error {
	return New(KindInvalidInput, fmt.Sprintf(format, args...))
}

// Persistence wraps a store fault. The cause is kept for logging only.
func Persistence(err error) *Error {
	return Wrap(err, KindPersistence, ErrPersistence.Message)
}

// KindOf returns the kind of the first *Error in err's chain, or the empty
// Kind when err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// MessageOf returns the client-safe message for err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return ErrPersistence.Message
}

// HTTPStatus maps a kind to its response status.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindUnauthorized, KindInvalidCredentials:
		return http.StatusUnauthorized
	case KindInvalidContent, KindInvalidInput:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindDuplicateEmail:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
