// Package apperr defines the closed set of failures the blog core can raise.
//
// Every failure carries one Kind. The transport layer decodes the Kind into a
// status code; nothing below it knows about HTTP.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInternal Kind = iota
	KindInvalidInput
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error is the single error type returned by validators, guards, resolvers and
// services. Resource and ID are set for NotFound failures.
type Error struct {
	Kind     Kind
	Resource string
	ID       int64
	Msg      string
	Err      error
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

func InvalidInput(msg string) *Error {
	return &Error{Kind: KindInvalidInput, Msg: msg}
}

// InvalidInputWrap keeps a sentinel reachable through errors.Is.
func InvalidInputWrap(msg string, err error) *Error {
	return &Error{Kind: KindInvalidInput, Msg: msg, Err: err}
}

func Unauthenticated(msg string) *Error {
	return &Error{Kind: KindUnauthenticated, Msg: msg}
}

func Forbidden() *Error {
	return &Error{Kind: KindForbidden, Msg: "Not authorized"}
}

// NotFound names the missing resource, e.g. NotFound("post", 12) -> "Post not found".
func NotFound(resource string, id int64) *Error {
	return &Error{Kind: KindNotFound, Resource: resource, ID: id, Msg: capitalize(resource) + " not found"}
}

func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Msg: msg}
}

// AlreadyExists is the Conflict for a unique resource, e.g. "User already exists".
func AlreadyExists(resource string) *Error {
	return &Error{Kind: KindConflict, Resource: resource, Msg: capitalize(resource) + " already exists"}
}

// Internal hides the cause behind a generic message; the cause stays available
// to loggers via Unwrap.
func Internal(op string, err error) *Error {
	return &Error{Kind: KindInternal, Msg: "Server error", Err: fmt.Errorf("%s: %w", op, err)}
}

// KindOf reports the kind of err. Errors that are not *Error are Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}

func capitalize(s string) string {
	if s == "" {
		return "Resource"
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}
