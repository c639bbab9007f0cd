// Package bridge converts raw foreign-call envelopes into owned, typed Go
// values. It is the only place that touches runtime-owned buffers: every
// exit path consumes each present buffer exactly once, and a failure
// signal is translated into a structured error by reading the handle's
// last-error record immediately, before any further foreign call.
package bridge

import (
	"context"

	"github.com/mycitadel/citadelkit/pkg/ffi"
	"github.com/mycitadel/citadelkit/pkg/status"
)

// protocolBrokenMsg is the fixed diagnostic for a failure signal with no
// retrievable error detail. It marks a contract violation on the runtime
// side and is never softened into an "unknown" classification.
const protocolBrokenMsg = "core signalled failure but reported no error"

// String bridges a single-buffer envelope into an owned string.
//
// Success: the payload is copied and the foreign buffer released exactly
// once. A success discriminant with a nil payload is a contract violation
// and yields an InternalError without any dereference. Failure: the
// last-error record is read and surfaced verbatim; an absent record
// yields the fixed protocol-broken InternalError.
func String(ctx context.Context, cc *ffi.CallContext, res ffi.Result) (string, error) {
	if !res.OK {
		return "", failure(ctx, cc)
	}
	if res.Payload == nil {
		return "", status.NewInternal("core signalled success with no payload")
	}
	s, err := res.Payload.TakeString()
	if err != nil {
		return "", status.NewInternal("payload buffer consumed before bridging: " + err.Error())
	}
	return s, nil
}

// Bytes bridges a single-buffer envelope into an owned byte slice,
// re-encoding the payload string for structured decoding by the caller.
func Bytes(ctx context.Context, cc *ffi.CallContext, res ffi.Result) ([]byte, error) {
	s, err := String(ctx, cc, res)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

// Dual bridges the two-buffer envelope shape: a primary payload plus an
// optional secondary payload behind a bare success flag. Each present
// buffer is released independently; a false flag is treated exactly like
// an envelope failure.
func Dual(ctx context.Context, cc *ffi.CallContext, res ffi.DualResult) (primary string, secondary *string, err error) {
	if !res.OK {
		return "", nil, failure(ctx, cc)
	}
	if res.Primary == nil {
		// The secondary buffer, if the runtime produced one anyway, must
		// still be freed before the call aborts.
		if res.Secondary != nil {
			res.Secondary.Discard()
		}
		return "", nil, status.NewInternal("core signalled success with no primary payload")
	}
	primary, terr := res.Primary.TakeString()
	if terr != nil {
		if res.Secondary != nil {
			res.Secondary.Discard()
		}
		return "", nil, status.NewInternal("primary buffer consumed before bridging: " + terr.Error())
	}
	if res.Secondary != nil {
		s, terr := res.Secondary.TakeString()
		if terr != nil {
			return "", nil, status.NewInternal("secondary buffer consumed before bridging: " + terr.Error())
		}
		secondary = &s
	}
	return primary, secondary, nil
}

// failure reads the last-error record for a failed envelope. The read
// happens before any other foreign call: a subsequent unrelated call
// would overwrite the process-wide record.
func failure(ctx context.Context, cc *ffi.CallContext) error {
	rec, err := cc.LastError(ctx)
	if err != nil {
		return status.NewInternal("query last error: " + err.Error())
	}
	if !rec.Present {
		return status.NewInternal(protocolBrokenMsg)
	}
	return status.NewForeign(rec.Code, rec.Message)
}
