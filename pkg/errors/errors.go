// Package errors provides the coded error type shared by every geobuffer
// package.
//
// Each [Error] carries a machine-readable [Code]. The CLI turns codes into
// exit statuses and the HTTP API into response statuses, so callers branch
// on codes rather than on message text:
//
//	if errors.Is(err, errors.ErrCodeInvalidParameter) {
//	    // usage error
//	}
//
// Codes fall into four groups:
//   - INVALID_*: the caller's input or parameters are wrong
//   - TOPOLOGY_ERROR, ROBUSTNESS_ERROR: floating point noise broke the buffer
//     computation; [IsRecoverable] reports these and the buffer operation
//     retries them at reduced precision
//   - NOT_FOUND, NETWORK_ERROR, TIMEOUT, RATE_LIMITED: resources and remote
//     inputs
//   - INTERNAL_ERROR, UNSUPPORTED
//
// Topology errors remember where they were detected ([Topology], [Locate]).
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code is a machine-readable error category.
type Code string

const (
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidGeometry  Code = "INVALID_GEOMETRY"
	ErrCodeInvalidParameter Code = "INVALID_PARAMETER"
	ErrCodeInvalidPath      Code = "INVALID_PATH"

	ErrCodeTopology   Code = "TOPOLOGY_ERROR"
	ErrCodeRobustness Code = "ROBUSTNESS_ERROR"

	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	ErrCodeNetwork     Code = "NETWORK_ERROR"
	ErrCodeTimeout     Code = "TIMEOUT"
	ErrCodeRateLimited Code = "RATE_LIMITED"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Location is the planar coordinate at which a failure was detected.
type Location struct {
	X, Y float64
}

func (l Location) String() string { return fmt.Sprintf("(%g, %g)", l.X, l.Y) }

// Error is a coded error with an optional cause and location.
type Error struct {
	Code    Code
	Message string
	Cause   error
	At      *Location
}

// Error formats as "CODE: message[ at (x, y)][: cause]".
func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(string(e.Code))
	sb.WriteString(": ")
	sb.WriteString(e.describe())
	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}
	return sb.String()
}

func (e *Error) Unwrap() error { return e.Cause }

// describe is the message with its location, if any.
func (e *Error) describe() string {
	if e.At == nil {
		return e.Message
	}
	return e.Message + " at " + e.At.String()
}

// New returns an error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an error with the given code and message whose cause is
// cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = cause
	return e
}

// Topology returns a topology error detected at (x, y).
func Topology(x, y float64, format string, args ...any) *Error {
	e := New(ErrCodeTopology, format, args...)
	e.At = &Location{X: x, Y: y}
	return e
}

// Is reports whether the outermost *Error in err's chain has the given code.
func Is(err error, code Code) bool {
	return err != nil && GetCode(err) == code
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Locate returns the location of the first located *Error in err's chain.
func Locate(err error) (Location, bool) {
	for err != nil {
		if e, ok := err.(*Error); ok && e.At != nil {
			return *e.At, true
		}
		err = errors.Unwrap(err)
	}
	return Location{}, false
}

// IsRecoverable reports whether err is a numerical failure that may succeed
// when the computation is repeated at a different precision.
func IsRecoverable(err error) bool {
	switch GetCode(err) {
	case ErrCodeTopology, ErrCodeRobustness:
		return true
	}
	return false
}

// UserMessage returns the message of the outermost *Error without its code,
// or err.Error() for other errors.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.describe()
	}
	return err.Error()
}
