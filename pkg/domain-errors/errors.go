// Package domainerrors carries coded errors across layer boundaries.
//
// Services return *Error values; transports map the Code to a status without
// inspecting messages. Wrapped causes stay reachable through errors.Is/As.
package domainerrors

import (
	"errors"
)

// Code classifies a failure. The string form is what clients see.
type Code string

const (
	// CodeUnauthorized means the caller's role lacks the capability for the action.
	CodeUnauthorized Code = "unauthorized"
	// CodeUnauthenticated means no valid session or bad credentials.
	CodeUnauthenticated Code = "unauthenticated"
	CodeInvalidInput    Code = "invalid_input"
	CodeBadRequest      Code = "bad_request"
	CodeNotFound        Code = "not_found"
	CodeAlreadyJoined   Code = "already_joined"
	CodeConflict        Code = "conflict"
	CodeTimeout         Code = "timeout"
	// CodeRateLimited means the caller must wait before retrying.
	CodeRateLimited Code = "rate_limited"
	// CodeStorage wraps a persistence collaborator failure.
	CodeStorage  Code = "storage_error"
	CodeInternal Code = "internal_error"
)

// Error is a coded domain error with a human-readable message.
type Error struct {
	Code    Code
	Message string
	Err     error
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

// New builds an error with the given code and message.
func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Wrap attaches a code and message to an underlying cause.
func Wrap(err error, code Code, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// HasCode reports whether the outermost coded error in err's chain has code.
func HasCode(err error, code Code) bool {
	c, ok := CodeOf(err)
	return ok && c == code
}

// CodeOf returns the code of the outermost *Error in err's chain.
func CodeOf(err error) (Code, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Code, true
	}
	return "", false
}

// MessageOf returns the message of the outermost *Error, or err.Error() for
// uncoded errors.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
