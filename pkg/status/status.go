// Package status defines the closed parse-status enumeration shared with
// the native citadel runtime, and the structured error type every bridged
// call reports through.
package status

import "fmt"

// ParseStatus is the wire-level outcome of a parse operation.
//
// The first seven values are defined by the runtime's own status codes and
// MUST keep their numeric identity between releases; they cross the foreign
// call boundary verbatim. InvalidStructuredData is a local sentinel: it is
// never produced by the runtime and marks decode failures that happen after
// the runtime already accepted the encoding.
type ParseStatus uint16

const (
	Ok ParseStatus = iota
	HRPError
	ChecksumError
	EncodingError
	PayloadError
	UnsupportedError
	InternalError
)

// InvalidStructuredData is reserved for local structural-decode failures.
const InvalidStructuredData ParseStatus = 0xFFFF

// String returns the stable textual name of the status.
func (s ParseStatus) String() string {
	switch s {
	case Ok:
		return "ok"
	case HRPError:
		return "hrp_error"
	case ChecksumError:
		return "checksum_error"
	case EncodingError:
		return "encoding_error"
	case PayloadError:
		return "payload_error"
	case UnsupportedError:
		return "unsupported_error"
	case InternalError:
		return "internal_error"
	case InvalidStructuredData:
		return "invalid_structured_data"
	default:
		return fmt.Sprintf("parse_status(%d)", uint16(s))
	}
}

// FromCode maps a raw runtime status code onto ParseStatus. Codes outside
// the runtime's defined range degrade to InternalError rather than aliasing
// the local sentinel.
func FromCode(code uint16) ParseStatus {
	if code <= uint16(InternalError) {
		return ParseStatus(code)
	}
	return InternalError
}
