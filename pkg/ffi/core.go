package ffi

import "context"

// InvoiceRequest carries the arguments of the invoice composing call.
type InvoiceRequest struct {
	Beneficiary string
	AssetID     string
	Amount      uint64
}

// Core is the fixed entry-point contract of the native citadel runtime.
// Every method executes synchronously on the caller's goroutine. The
// returned error means the call itself could not run (runtime trapped,
// transport broken); domain failures travel inside the envelope plus the
// last-error record instead.
//
// Implementations are not safe for concurrent use through one handle;
// callers serialize access (see CallContext).
type Core interface {
	// ParseAddress interprets input as a network address. On success the
	// payload buffer carries the address details as a JSON document.
	ParseAddress(ctx context.Context, input string) (Result, error)

	// ParseEncoding runs the generic encoding probe over input and
	// reports {status, category tag, details}.
	ParseEncoding(ctx context.Context, input string) (EncodingResult, error)

	// ComposeInvoice builds an invoice for the given beneficiary; the
	// secondary buffer, when present, carries an anchoring PSBT.
	ComposeInvoice(ctx context.Context, req InvoiceRequest) (DualResult, error)

	// LastError reads the handle's last-error record. Valid only
	// immediately after a failed call, before any further entry point
	// runs on the same handle.
	LastError(ctx context.Context) (LastError, error)

	// Version reports the runtime's semantic version string.
	Version(ctx context.Context) (string, error)

	// Close releases the runtime handle.
	Close(ctx context.Context) error
}
