// Package apperr is the error taxonomy shared by all three services.
//
// Every error that reaches a handler is classified into exactly one Kind.
// The transport layer maps kinds to HTTP statuses; nothing else inspects
// error strings.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInternal Kind = iota
	KindAuthMissing
	KindAuthInvalid
	KindOwnershipDenied
	KindValidation
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindAuthMissing:
		return "auth_missing"
	case KindAuthInvalid:
		return "auth_invalid"
	case KindOwnershipDenied:
		return "ownership_denied"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// Error carries a Kind, a message that is safe to show to clients and an
// optional cause that is only ever logged.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports a match for any *Error of the same Kind, so callers can test
// against the sentinels below regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrAuthMissing     = &Error{Kind: KindAuthMissing, Message: "no token provided"}
	ErrAuthInvalid     = &Error{Kind: KindAuthInvalid, Message: "invalid or expired token"}
	ErrOwnershipDenied = &Error{Kind: KindOwnershipDenied, Message: "not authorized for this task"}
	ErrValidation      = &Error{Kind: KindValidation, Message: "invalid request"}
	ErrNotFound        = &Error{Kind: KindNotFound, Message: "not found"}
	ErrInternal        = &Error{Kind: KindInternal, Message: "internal error"}
)

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Internal hides err behind a generic message.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: ErrInternal.Message, Err: err}
}

// AuthInvalid wraps a token verification failure.
func AuthInvalid(err error) *Error {
	return &Error{Kind: KindAuthInvalid, Message: ErrAuthInvalid.Message, Err: err}
}

// KindOf classifies err. Unclassified errors are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Message returns the client-facing message for err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Message
	}
	return ErrInternal.Message
}
