package ffi

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"
)

// SupportedCoreRange is the semver constraint a runtime must satisfy
// before a call context will talk to it.
const SupportedCoreRange = ">= 0.9.0, < 2.0.0"

// CallContext is the single-owner handle through which all foreign calls
// run. It pairs a Core with a stable identity for logging and enforces
// the version gate at construction. It provides no locking of its own:
// the last-error record is process-wide per handle, so access to one
// CallContext must be externally serialized.
type CallContext struct {
	id     uuid.UUID
	core   Core
	logger *slog.Logger
}

// NewCallContext wires a Core into a call context, verifying the
// runtime's version against SupportedCoreRange. A runtime outside the
// range is a hard failure: no further call may be issued through it.
func NewCallContext(ctx context.Context, core Core, logger *slog.Logger) (*CallContext, error) {
	if logger == nil {
		logger = slog.Default()
	}
	ver, err := core.Version(ctx)
	if err != nil {
		return nil, fmt.Errorf("ffi: query core version: %w", err)
	}
	v, err := semver.NewVersion(ver)
	if err != nil {
		return nil, fmt.Errorf("ffi: core reported malformed version %q: %w", ver, err)
	}
	constraint, err := semver.NewConstraint(SupportedCoreRange)
	if err != nil {
		return nil, fmt.Errorf("ffi: parse version constraint: %w", err)
	}
	if !constraint.Check(v) {
		return nil, fmt.Errorf("ffi: core version %s outside supported range %q", v, SupportedCoreRange)
	}

	id := uuid.New()
	logger = logger.With(slog.String("call_context", id.String()), slog.String("core_version", v.String()))
	logger.Debug("call context established")
	return &CallContext{id: id, core: core, logger: logger}, nil
}

// ID returns the handle identity used in logs.
func (cc *CallContext) ID() uuid.UUID { return cc.id }

// Logger returns the handle-scoped logger.
func (cc *CallContext) Logger() *slog.Logger { return cc.logger }

// ParseAddress forwards to the runtime's address parsing entry point.
func (cc *CallContext) ParseAddress(ctx context.Context, input string) (Result, error) {
	return cc.core.ParseAddress(ctx, input)
}

// ParseEncoding forwards to the runtime's generic encoding probe.
func (cc *CallContext) ParseEncoding(ctx context.Context, input string) (EncodingResult, error) {
	return cc.core.ParseEncoding(ctx, input)
}

// ComposeInvoice forwards to the runtime's invoice composer.
func (cc *CallContext) ComposeInvoice(ctx context.Context, req InvoiceRequest) (DualResult, error) {
	return cc.core.ComposeInvoice(ctx, req)
}

// LastError reads the handle's last-error record.
func (cc *CallContext) LastError(ctx context.Context) (LastError, error) {
	return cc.core.LastError(ctx)
}

// Close releases the underlying runtime handle.
func (cc *CallContext) Close(ctx context.Context) error {
	return cc.core.Close(ctx)
}
