package status

import (
	"errors"
	"fmt"
)

// Error is the single structured error type surfaced by bridged calls and
// the classifier. Kind discrimination:
//
//   - Foreign == true: the runtime's last-error record, surfaced verbatim.
//     Code carries the runtime's own numeric code, which is not constrained
//     to the ParseStatus set.
//   - Foreign == false: a local condition; Status carries the taxonomy kind
//     (InvalidStructuredData for decode failures, InternalError for
//     protocol-contract violations, or a wire status translated by the
//     classifier).
type Error struct {
	Status  ParseStatus
	Foreign bool
	Code    int32
	Message string
}

func (e *Error) Error() string {
	if e.Foreign {
		return fmt.Sprintf("citadel runtime error %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Status, e.Message)
}

// NewForeign wraps a last-error record reported by the runtime.
func NewForeign(code int32, message string) *Error {
	return &Error{Foreign: true, Code: code, Message: message}
}

// NewInternal reports a violation of the foreign-call contract itself.
func NewInternal(message string) *Error {
	return &Error{Status: InternalError, Message: message}
}

// NewDecode reports a local structural-decode failure: the encoding was
// accepted upstream but the decoded structure did not match the expected
// shape.
func NewDecode(message string) *Error {
	return &Error{Status: InvalidStructuredData, Message: message}
}

// NewStatus wraps a wire status translated from the encoding probe.
func NewStatus(s ParseStatus, message string) *Error {
	return &Error{Status: s, Message: message}
}

// Of extracts the structured error from err, if any.
func Of(err error) (*Error, bool) {
	var se *Error
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// StatusOf reports the taxonomy status of err. Errors that are not
// structured, and foreign errors, count as InternalError and the raw
// foreign kind respectively.
func StatusOf(err error) ParseStatus {
	se, ok := Of(err)
	if !ok {
		return InternalError
	}
	if se.Foreign {
		return InternalError
	}
	return se.Status
}
