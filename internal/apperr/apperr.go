// Package apperr defines the error kinds surfaced by the API and their HTTP mapping.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindInvalidAnswer
	KindAuth
	KindForbidden
	KindNotFound
	KindConflict
	KindFileTooLarge
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation error"
	case KindInvalidAnswer:
		return "invalid answer"
	case KindAuth:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not found"
	case KindConflict:
		return "conflict"
	case KindFileTooLarge:
		return "file too large"
	default:
		return "internal server error"
	}
}

// Status returns the HTTP status code for the kind.
func (k Kind) Status() int {
	switch k {
	case KindValidation, KindInvalidAnswer:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindFileTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified error. Two errors match under errors.Is when their kinds match,
// so callers can test against the sentinels below.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrInternal      = &Error{Kind: KindInternal}
	ErrValidation    = &Error{Kind: KindValidation}
	ErrInvalidAnswer = &Error{Kind: KindInvalidAnswer}
	ErrAuth          = &Error{Kind: KindAuth}
	ErrForbidden     = &Error{Kind: KindForbidden}
	ErrNotFound      = &Error{Kind: KindNotFound}
	ErrConflict      = &Error{Kind: KindConflict}
	ErrFileTooLarge  = &Error{Kind: KindFileTooLarge}
)

func newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) *Error {
	return newf(KindValidation, format, args...)
}

func InvalidAnswer(format string, args ...any) *Error {
	return newf(KindInvalidAnswer, format, args...)
}

func Auth(format string, args ...any) *Error { return newf(KindAuth, format, args...) }

func Forbidden(format string, args ...any) *Error {
	return newf(KindForbidden, format, args...)
}

func NotFound(format string, args ...any) *Error {
	return newf(KindNotFound, format, args...)
}

func Conflict(format string, args ...any) *Error {
	return newf(KindConflict, format, args...)
}

func FileTooLarge(format string, args ...any) *Error {
	return newf(KindFileTooLarge, format, args...)
}

// Internal wraps an unexpected failure (store, filesystem). The message is for logs only.
func Internal(err error, msg string) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf reports the kind of err; unclassified errors are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// PublicMessage is the message safe to return to a client.
func PublicMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) || e.Kind == KindInternal {
		return KindInternal.String()
	}
	if e.Message == "" {
		return e.Kind.String()
	}
	return e.Message
}
