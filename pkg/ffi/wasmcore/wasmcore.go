// Package wasmcore hosts the native citadel runtime compiled to wasm32,
// implementing the ffi.Core contract over a wazero instance.
//
// The module surface is deny-by-default: WASI is instantiated for the
// runtime's own bookkeeping, but no filesystem mounts, no network and no
// environment are wired. The call ABI is record-based; every runtime
// allocation travels back to the guest through citadel_free exactly once,
// driven by the single-owner ffi.Buffer discipline.
//
// Guest exports:
//
//	citadel_alloc(size u32) -> ptr u32
//	citadel_free(ptr u32, size u32)
//	citadel_version() -> u64              // packed ptr<<32 | len
//	citadel_address_parse(ptr, len) -> record ptr
//	citadel_encoding_parse(ptr, len) -> record ptr
//	citadel_invoice_compose(ptr, len) -> record ptr
//	citadel_last_error() -> record ptr
//
// Records are little-endian u32 sequences; their layouts are documented
// on the reading helpers below.
package wasmcore

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"

	"github.com/mycitadel/citadelkit/pkg/ffi"
	"github.com/mycitadel/citadelkit/pkg/observability"
)

// Runtime is a wazero-hosted citadel core. It is not safe for concurrent
// use: the guest keeps a single last-error slot, exactly like the native
// library.
type Runtime struct {
	runtime wazero.Runtime
	module  api.Module
	logger  *slog.Logger
	metrics *observability.Metrics

	alloc          api.Function
	free           api.Function
	version        api.Function
	addressParse   api.Function
	encodingParse  api.Function
	invoiceCompose api.Function
	lastError      api.Function
}

// Option configures the hosted runtime.
type Option func(*Runtime)

// WithLogger sets the host-side logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runtime) { r.logger = l }
}

// WithMetrics records foreign-call durations.
func WithMetrics(m *observability.Metrics) Option {
	return func(r *Runtime) { r.metrics = m }
}

// Load compiles and instantiates the runtime module from wasmBytes.
func Load(ctx context.Context, wasmBytes []byte, opts ...Option) (*Runtime, error) {
	r := &Runtime{logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}

	r.runtime = wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfig().
		WithCloseOnContextDone(true))
	wasi_snapshot_preview1.MustInstantiate(ctx, r.runtime)

	compiled, err := r.runtime.CompileModule(ctx, wasmBytes)
	if err != nil {
		_ = r.runtime.Close(ctx)
		return nil, fmt.Errorf("wasmcore: compile runtime module: %w", err)
	}

	// Reactor-style module: no _start, a single _initialize pass.
	modCfg := wazero.NewModuleConfig().
		WithName("citadel-core").
		WithStartFunctions("_initialize")
	mod, err := r.runtime.InstantiateModule(ctx, compiled, modCfg)
	if err != nil {
		_ = r.runtime.Close(ctx)
		return nil, fmt.Errorf("wasmcore: instantiate runtime module: %w", err)
	}
	r.module = mod

	for name, fn := range map[string]*api.Function{
		"citadel_alloc":           &r.alloc,
		"citadel_free":            &r.free,
		"citadel_version":         &r.version,
		"citadel_address_parse":   &r.addressParse,
		"citadel_encoding_parse":  &r.encodingParse,
		"citadel_invoice_compose": &r.invoiceCompose,
		"citadel_last_error":      &r.lastError,
	} {
		f := mod.ExportedFunction(name)
		if f == nil {
			_ = r.runtime.Close(ctx)
			return nil, fmt.Errorf("wasmcore: runtime module does not export %s", name)
		}
		*fn = f
	}
	return r, nil
}

// ParseAddress implements ffi.Core.
func (r *Runtime) ParseAddress(ctx context.Context, input string) (ffi.Result, error) {
	rec, err := r.callWithString(ctx, "citadel_address_parse", r.addressParse, input, 3)
	if err != nil {
		return ffi.Result{}, err
	}
	defer rec.close(ctx)

	// Record layout: [ok u32][payload ptr u32][payload len u32].
	if rec.fields[0] == 0 {
		return ffi.Result{}, nil
	}
	payload, err := r.takeRegion(ctx, rec.fields[1], rec.fields[2])
	if err != nil {
		return ffi.Result{}, err
	}
	return ffi.Result{OK: true, Payload: payload}, nil
}

// ParseEncoding implements ffi.Core.
func (r *Runtime) ParseEncoding(ctx context.Context, input string) (ffi.EncodingResult, error) {
	rec, err := r.callWithString(ctx, "citadel_encoding_parse", r.encodingParse, input, 5)
	if err != nil {
		return ffi.EncodingResult{}, err
	}
	defer rec.close(ctx)

	// Record layout: [status u32][tag ptr][tag len][details ptr][details len].
	tag, err := r.copyRegion(rec.fields[1], rec.fields[2])
	if err != nil {
		return ffi.EncodingResult{}, err
	}
	// The tag region is owned by the record and freed with it; only the
	// details region transfers ownership to the caller.
	details, err := r.takeRegion(ctx, rec.fields[3], rec.fields[4])
	if err != nil {
		return ffi.EncodingResult{}, err
	}
	return ffi.EncodingResult{
		Status:  uint16(rec.fields[0]),
		Tag:     string(tag),
		Details: details,
	}, nil
}

// ComposeInvoice implements ffi.Core.
func (r *Runtime) ComposeInvoice(ctx context.Context, req ffi.InvoiceRequest) (ffi.DualResult, error) {
	doc, err := json.Marshal(map[string]any{
		"beneficiary": req.Beneficiary,
		"asset_id":    req.AssetID,
		"amount":      req.Amount,
	})
	if err != nil {
		return ffi.DualResult{}, fmt.Errorf("wasmcore: marshal invoice request: %w", err)
	}
	rec, err := r.callWithString(ctx, "citadel_invoice_compose", r.invoiceCompose, string(doc), 5)
	if err != nil {
		return ffi.DualResult{}, err
	}
	defer rec.close(ctx)

	// Record layout: [ok u32][primary ptr][primary len][secondary ptr][secondary len].
	if rec.fields[0] == 0 {
		return ffi.DualResult{}, nil
	}
	primary, err := r.takeRegion(ctx, rec.fields[1], rec.fields[2])
	if err != nil {
		return ffi.DualResult{}, err
	}
	var secondary *ffi.Buffer
	if rec.fields[3] != 0 {
		secondary, err = r.takeRegion(ctx, rec.fields[3], rec.fields[4])
		if err != nil {
			primary.Discard()
			return ffi.DualResult{}, err
		}
	}
	return ffi.DualResult{OK: true, Primary: primary, Secondary: secondary}, nil
}

// LastError implements ffi.Core.
func (r *Runtime) LastError(ctx context.Context) (ffi.LastError, error) {
	start := time.Now()
	out, err := r.lastError.Call(ctx)
	r.metrics.RecordForeignCall(ctx, "citadel_last_error", time.Since(start), err == nil)
	if err != nil {
		return ffi.LastError{}, fmt.Errorf("wasmcore: citadel_last_error: %w", err)
	}
	rec, err := r.readRecord(uint32(out[0]), 4)
	if err != nil {
		return ffi.LastError{}, err
	}
	defer rec.close(ctx)

	// Record layout: [present u32][code i32][msg ptr][msg len].
	if rec.fields[0] == 0 {
		return ffi.LastError{}, nil
	}
	msg, err := r.copyRegion(rec.fields[2], rec.fields[3])
	if err != nil {
		return ffi.LastError{}, err
	}
	return ffi.LastError{
		Present: true,
		Code:    int32(rec.fields[1]),
		Message: string(msg),
	}, nil
}

// Version implements ffi.Core.
func (r *Runtime) Version(ctx context.Context) (string, error) {
	out, err := r.version.Call(ctx)
	if err != nil {
		return "", fmt.Errorf("wasmcore: citadel_version: %w", err)
	}
	ptr, size := uint32(out[0]>>32), uint32(out[0])
	raw, err := r.copyRegion(ptr, size)
	if err != nil {
		return "", err
	}
	if _, err := r.free.Call(ctx, uint64(ptr), uint64(size)); err != nil {
		return "", fmt.Errorf("wasmcore: free version string: %w", err)
	}
	return string(raw), nil
}

// Close shuts the guest instance and the wazero runtime down.
func (r *Runtime) Close(ctx context.Context) error {
	if err := r.module.Close(ctx); err != nil {
		_ = r.runtime.Close(ctx)
		return fmt.Errorf("wasmcore: close module: %w", err)
	}
	return r.runtime.Close(ctx)
}

// record is a guest-allocated result record plus the free bookkeeping
// for the record region itself.
type record struct {
	r      *Runtime
	ptr    uint32
	fields []uint32
}

func (rec *record) close(ctx context.Context) {
	_, _ = rec.r.free.Call(ctx, uint64(rec.ptr), uint64(4*len(rec.fields)))
}

// callWithString copies input into guest memory, invokes fn, frees the
// input region and reads the n-field result record.
func (r *Runtime) callWithString(ctx context.Context, name string, fn api.Function, input string, n int) (*record, error) {
	ptr, err := r.writeString(ctx, input)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	out, err := fn.Call(ctx, uint64(ptr), uint64(len(input)))
	r.metrics.RecordForeignCall(ctx, name, time.Since(start), err == nil)
	if _, ferr := r.free.Call(ctx, uint64(ptr), uint64(len(input))); ferr != nil && err == nil {
		err = ferr
	}
	if err != nil {
		return nil, fmt.Errorf("wasmcore: %s: %w", name, err)
	}
	return r.readRecord(uint32(out[0]), n)
}

func (r *Runtime) writeString(ctx context.Context, s string) (uint32, error) {
	out, err := r.alloc.Call(ctx, uint64(len(s)))
	if err != nil {
		return 0, fmt.Errorf("wasmcore: citadel_alloc: %w", err)
	}
	ptr := uint32(out[0])
	if !r.module.Memory().Write(ptr, []byte(s)) {
		return 0, fmt.Errorf("wasmcore: input write at %#x out of range", ptr)
	}
	return ptr, nil
}

func (r *Runtime) readRecord(ptr uint32, n int) (*record, error) {
	raw, ok := r.module.Memory().Read(ptr, uint32(4*n))
	if !ok {
		return nil, fmt.Errorf("wasmcore: record read at %#x out of range", ptr)
	}
	fields := make([]uint32, n)
	for i := range fields {
		fields[i] = binary.LittleEndian.Uint32(raw[4*i:])
	}
	return &record{r: r, ptr: ptr, fields: fields}, nil
}

// copyRegion copies a guest memory region into host memory without
// transferring ownership.
func (r *Runtime) copyRegion(ptr, size uint32) ([]byte, error) {
	if size == 0 {
		return nil, nil
	}
	view, ok := r.module.Memory().Read(ptr, size)
	if !ok {
		return nil, fmt.Errorf("wasmcore: region read at %#x+%d out of range", ptr, size)
	}
	out := make([]byte, size)
	copy(out, view)
	return out, nil
}

// takeRegion copies a guest region into a single-owner buffer whose
// release hook frees the guest allocation exactly once. The copy happens
// up front so no read can ever follow the free.
func (r *Runtime) takeRegion(ctx context.Context, ptr, size uint32) (*ffi.Buffer, error) {
	if ptr == 0 {
		return nil, nil
	}
	data, err := r.copyRegion(ptr, size)
	if err != nil {
		return nil, err
	}
	return ffi.NewBuffer(data, func() {
		if _, err := r.free.Call(ctx, uint64(ptr), uint64(size)); err != nil {
			r.logger.Warn("citadel_free failed",
				slog.String("error", err.Error()),
				slog.Uint64("ptr", uint64(ptr)))
		}
	}), nil
}
