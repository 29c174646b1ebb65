package errors

import "errors"

// Kind classifies repository failures. Handlers map kinds to status codes;
// the storage and service layers only ever distinguish kinds.
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindInvalidCredential
	KindWriteFailed
	KindStoreUnavailable
)

type Error struct {
	Kind    Kind
	Message string
	Err     error // optional underlying cause, kept for logs and unwrapping
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func InvalidCredential(message string) *Error {
	return &Error{Kind: KindInvalidCredential, Message: message}
}

func WriteFailed(message string) *Error {
	return &Error{Kind: KindWriteFailed, Message: message}
}

func StoreUnavailable(message string, err error) *Error {
	return &Error{Kind: KindStoreUnavailable, Message: message, Err: err}
}

// Is reports whether err (or anything it wraps) carries the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// KindOf returns the kind carried by err, or 0 for untyped errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
