package domain

import (
	"errors"
	"fmt"
)

// Kind classifies data access failures.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindConflict
	KindReference
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindReference:
		return "reference"
	case KindUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrValidation  = &Error{Kind: KindValidation, Message: "validation failed"}
	ErrConflict    = &Error{Kind: KindConflict, Message: "already exists"}
	ErrReference   = &Error{Kind: KindReference, Message: "referenced record does not exist"}
	ErrUnavailable = &Error{Kind: KindUnavailable, Message: "store unavailable"}
)

// Error is returned by every Repository method.
type Error struct {
	Kind    Kind
	Op      string // operation, e.g. "CreateUser"
	Message string // client-safe description
	Err     error  // native store error, if any
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Validation builds a KindValidation error.
func Validation(op, message string) *Error {
	return &Error{Kind: KindValidation, Op: op, Message: message}
}

// Conflict builds a KindConflict error.
func Conflict(op, message string, err error) *Error {
	return &Error{Kind: KindConflict, Op: op, Message: message, Err: err}
}

// Reference builds a KindReference error.
func Reference(op, message string, err error) *Error {
	return &Error{Kind: KindReference, Op: op, Message: message, Err: err}
}

// Unavailable builds a KindUnavailable error.
func Unavailable(op string, err error) *Error {
	return &Error{Kind: KindUnavailable, Op: op, Message: "store unavailable", Err: err}
}

// KindOf returns the kind of err, or KindUnknown when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// MessageOf returns the client-safe message of err, or "" when err is not an
// *Error.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return ""
}
