package ffi

// Result is the success/failure-tagged envelope returned by most runtime
// entry points. Exactly one side is populated: a successful call carries
// an owned payload buffer; a failed call carries nothing here — the error
// detail lives in the call context's last-error record and must be read
// immediately, before any further call on the same handle.
type Result struct {
	OK      bool
	Payload *Buffer
}

// DualResult is the two-buffer envelope shape used by composing calls: a
// primary payload plus an optional secondary payload, with a bare success
// flag instead of a discriminant. Each present buffer is independently
// owned and must be released independently.
type DualResult struct {
	OK        bool
	Primary   *Buffer
	Secondary *Buffer
}

// EncodingResult is the triple returned by the generic encoding probe:
// a wire status code, the category tag identifying which decoder should
// interpret the payload, and the owned detail buffer. On a non-ok status
// the detail buffer carries the runtime's diagnostic string instead of a
// payload.
type EncodingResult struct {
	Status  uint16
	Tag     string
	Details *Buffer
}

// LastError is the process-wide error record attached to a call-context
// handle. Present is false when the runtime reports no error despite a
// failure signal — a protocol-contract violation the bridge must surface
// as a hard internal error.
type LastError struct {
	Present bool
	Code    int32
	Message string
}
