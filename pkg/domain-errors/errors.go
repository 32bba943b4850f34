// Package domainerrors defines code-carrying errors for the service layer.
//
// Stores and infrastructure return sentinel errors (pkg/platform/sentinel);
// services translate those into coded errors so transport layers can map them
// to status codes without string matching.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies an error for callers. Codes are stable API; messages are not.
type Code string

const (
	// CodeValidation marks malformed or missing required input. Never retried.
	CodeValidation Code = "validation"
	// CodeInvalidInput marks a value that failed a domain allowlist or format
	// check at a trust boundary.
	CodeInvalidInput Code = "invalid_input"
	// CodeBadRequest marks a structurally unusable request.
	CodeBadRequest Code = "bad_request"
	// CodeUnauthorized marks a missing or unusable caller identity.
	CodeUnauthorized Code = "unauthorized"
	// CodeForbidden marks a caller that is known but not allowed.
	CodeForbidden Code = "forbidden"
	// CodeNotFound marks a target entity that does not exist.
	CodeNotFound Code = "not_found"
	// CodeConflict marks a uniqueness or version clash; callers must change
	// input before retrying.
	CodeConflict Code = "conflict"
	// CodeUnavailable marks a transient store failure. Retrying the whole
	// operation is safe only when no partial writes occurred; operations that
	// wrote anything report CodePartialFailure instead.
	CodeUnavailable Code = "unavailable"
	// CodePartialFailure marks an operation that failed after a write and
	// whose compensation could not restore the prior state. The message names
	// the residual inconsistency for manual reconciliation.
	CodePartialFailure Code = "partial_failure"
	// CodeInvariantViolation marks a state transition the domain forbids.
	CodeInvariantViolation Code = "invariant_violation"
	// CodeTimeout marks a cancelled or deadline-exceeded operation.
	CodeTimeout Code = "timeout"
	// CodeInternal marks everything else.
	CodeInternal Code = "internal"
)

// Error is the concrete coded error. Construct via New or Wrap.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// New creates a coded error with a human-readable message.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error, preserving the
// cause chain for errors.Is / errors.As.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: err}
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, code Code, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), cause: err}
}

// HasCode reports whether err or any error in its chain carries the code.
func HasCode(err error, code Code) bool {
	for err != nil {
		var coded *Error
		if errors.As(err, &coded) {
			if coded.Code == code {
				return true
			}
			err = coded.cause
			continue
		}
		return false
	}
	return false
}

// CodeOf returns the outermost code in the chain, or CodeInternal when the
// error carries none.
func CodeOf(err error) Code {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}
	return CodeInternal
}

// Is delegates to errors.Is; kept so callers can stay on one import.
func Is(err, target error) bool {
	return errors.Is(err, target)
}
