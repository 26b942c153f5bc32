package errs

import (
	"errors"
)

// Code is an application error code.
type Code string

const (
	// InvalidArgument marks a malformed input supplied by the caller of a
	// helper, not by the remote system.
	InvalidArgument Code = "invalid_argument"
	// NotFound marks a lookup miss (unknown payload tag in strict mode).
	NotFound Code = "not_found"
	// Unavailable marks a transport-level failure: DNS, connection refused,
	// timeout. These are always fatal to the enclosing scenario.
	Unavailable Code = "unavailable"
	// AssertionFailed marks an unmet expectation about a captured response.
	AssertionFailed Code = "assertion_failed"
	// Internal marks a defect in the suite itself.
	Internal Code = "internal"
)

// Error is a coded application error.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Code)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a coded error with message.
func New(code Code, message string) error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a coded error with message and cause.
func Wrap(code Code, message string, cause error) error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     cause,
	}
}

// CodeOf returns the code of err, or Internal for uncoded errors.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}
	return Internal
}

// MessageOf returns the message of err, or its Error() text for uncoded errors.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Message
	}
	return err.Error()
}

// IsTransport reports whether err is a transport-level failure.
func IsTransport(err error) bool {
	return CodeOf(err) == Unavailable
}
