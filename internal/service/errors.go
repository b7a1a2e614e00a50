package service

import "errors"

// Kind tags every operation outcome so callers can branch without inspecting
// message strings.
type Kind int

const (
	KindInternal Kind = iota
	KindUnauthorized
	KindNotFound
	KindConflict
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

func Unauthorized(msg string) *Error { return &Error{Kind: KindUnauthorized, Message: msg} }
func NotFound(msg string) *Error     { return &Error{Kind: KindNotFound, Message: msg} }
func Conflict(msg string) *Error     { return &Error{Kind: KindConflict, Message: msg} }

func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal error", Err: err}
}

// KindOf maps any error to its outcome kind; unexpected failures read as
// internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
