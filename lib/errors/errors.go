package errors

import (
	stderrors "errors"
	"fmt"
)

// --------------------------------------------------------------------------
// Error Codes
// --------------------------------------------------------------------------

// Code classifies store errors so callers can decide how to react without
// string matching. Every error produced by this module carries exactly one code.
type Code uint8

const (
	// CodeParameter marks an invalid or missing argument. Never retryable.
	CodeParameter Code = iota
	// CodeEncoding marks a value that cannot be serialized or parsed.
	CodeEncoding
	// CodeConfiguration marks required environment configuration that is
	// absent. Fatal, never retryable.
	CodeConfiguration
	// CodeIO marks an underlying filesystem failure.
	CodeIO
	// CodeService marks a failure reported by the remote record service.
	CodeService
)

// String returns the string representation of a Code.
func (c Code) String() string {
	switch c {
	case CodeParameter:
		return "parameter"
	case CodeEncoding:
		return "encoding"
	case CodeConfiguration:
		return "configuration"
	case CodeIO:
		return "io"
	case CodeService:
		return "service"
	default:
		return "unknown"
	}
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is the error type returned by all store operations. It wraps a Code,
// a message and an optional underlying cause.
type Error struct {
	Code Code   // The classification code
	Msg  string // The error message
	Err  error  // The underlying cause, may be nil
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s error: %s: %v", e.Code, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s error: %s", e.Code, e.Msg)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error with the given code and message.
func New(code Code, msg string) *Error {
	return &Error{Code: code, Msg: msg}
}

// Newf creates a new Error with the given code and a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// Wrap creates a new Error that records err as the underlying cause.
func Wrap(code Code, msg string, err error) *Error {
	return &Error{Code: code, Msg: msg, Err: err}
}

// --------------------------------------------------------------------------
// Classification Helpers
// --------------------------------------------------------------------------

// CodeOf extracts the classification code from an error. The boolean return
// value reports whether the error (or any error it wraps) carries a code.
func CodeOf(err error) (Code, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code, true
	}
	return 0, false
}

func is(err error, code Code) bool {
	c, ok := CodeOf(err)
	return ok && c == code
}

// IsParameter reports whether err is an invalid-argument error.
func IsParameter(err error) bool { return is(err, CodeParameter) }

// IsEncoding reports whether err is a serialization error.
func IsEncoding(err error) bool { return is(err, CodeEncoding) }

// IsConfiguration reports whether err is a missing-configuration error.
func IsConfiguration(err error) bool { return is(err, CodeConfiguration) }

// IsIO reports whether err is a filesystem error.
func IsIO(err error) bool { return is(err, CodeIO) }

// IsService reports whether err is a remote record service error.
func IsService(err error) bool { return is(err, CodeService) }
