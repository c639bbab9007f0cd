package bridge_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mycitadel/citadelkit/pkg/bridge"
	"github.com/mycitadel/citadelkit/pkg/ffi"
	"github.com/mycitadel/citadelkit/pkg/status"
)

// scriptCore returns canned envelopes and records last-error reads.
type scriptCore struct {
	lastErr        ffi.LastError
	lastErrReads   int
	addressResult  ffi.Result
	encodingResult ffi.EncodingResult
	invoiceResult  ffi.DualResult
}

func (s *scriptCore) ParseAddress(context.Context, string) (ffi.Result, error) {
	return s.addressResult, nil
}

func (s *scriptCore) ParseEncoding(context.Context, string) (ffi.EncodingResult, error) {
	return s.encodingResult, nil
}

func (s *scriptCore) ComposeInvoice(context.Context, ffi.InvoiceRequest) (ffi.DualResult, error) {
	return s.invoiceResult, nil
}

func (s *scriptCore) LastError(context.Context) (ffi.LastError, error) {
	s.lastErrReads++
	return s.lastErr, nil
}

func (s *scriptCore) Version(context.Context) (string, error) { return "1.0.0", nil }

func (s *scriptCore) Close(context.Context) error { return nil }

func newContext(t *testing.T, core ffi.Core) *ffi.CallContext {
	t.Helper()
	cc, err := ffi.NewCallContext(context.Background(), core, nil)
	require.NoError(t, err)
	return cc
}

func TestString_SuccessReleasesOnce(t *testing.T) {
	released := 0
	core := &scriptCore{}
	cc := newContext(t, core)

	res := ffi.Result{OK: true, Payload: ffi.NewBuffer([]byte("hello"), func() { released++ })}
	s, err := bridge.String(context.Background(), cc, res)
	require.NoError(t, err)
	assert.Equal(t, "hello", s)
	assert.Equal(t, 1, released)
	assert.Zero(t, core.lastErrReads, "a successful envelope must not touch the error record")
}

func TestString_SuccessWithNilPayload(t *testing.T) {
	cc := newContext(t, &scriptCore{})

	_, err := bridge.String(context.Background(), cc, ffi.Result{OK: true})
	require.Error(t, err)
	se, ok := status.Of(err)
	require.True(t, ok)
	assert.Equal(t, status.InternalError, se.Status)
	assert.Contains(t, se.Message, "no payload")
}

func TestString_FailureSurfacesForeignError(t *testing.T) {
	core := &scriptCore{
		lastErr: ffi.LastError{Present: true, Code: 1010, Message: "address unparseable"},
	}
	cc := newContext(t, core)

	_, err := bridge.String(context.Background(), cc, ffi.Result{})
	require.Error(t, err)
	se, ok := status.Of(err)
	require.True(t, ok)
	assert.True(t, se.Foreign)
	assert.Equal(t, int32(1010), se.Code)
	assert.Equal(t, "address unparseable", se.Message)
	assert.Equal(t, 1, core.lastErrReads)
}

func TestString_FailureWithoutErrorRecord(t *testing.T) {
	core := &scriptCore{} // failure signalled, no last-error present
	cc := newContext(t, core)

	_, err := bridge.String(context.Background(), cc, ffi.Result{})
	require.Error(t, err)
	se, ok := status.Of(err)
	require.True(t, ok)
	assert.False(t, se.Foreign)
	assert.Equal(t, status.InternalError, se.Status)
	assert.Equal(t, "core signalled failure but reported no error", se.Message)
}

func TestDual_BothBuffersReleased(t *testing.T) {
	primaryReleased, secondaryReleased := 0, 0
	cc := newContext(t, &scriptCore{})

	res := ffi.DualResult{
		OK:        true,
		Primary:   ffi.NewBuffer([]byte("invoice"), func() { primaryReleased++ }),
		Secondary: ffi.NewBuffer([]byte("psbt"), func() { secondaryReleased++ }),
	}
	primary, secondary, err := bridge.Dual(context.Background(), cc, res)
	require.NoError(t, err)
	assert.Equal(t, "invoice", primary)
	require.NotNil(t, secondary)
	assert.Equal(t, "psbt", *secondary)
	assert.Equal(t, 1, primaryReleased)
	assert.Equal(t, 1, secondaryReleased)
}

func TestDual_NoSecondary(t *testing.T) {
	cc := newContext(t, &scriptCore{})

	res := ffi.DualResult{OK: true, Primary: ffi.NewBuffer([]byte("invoice"), nil)}
	primary, secondary, err := bridge.Dual(context.Background(), cc, res)
	require.NoError(t, err)
	assert.Equal(t, "invoice", primary)
	assert.Nil(t, secondary)
}

func TestDual_MissingPrimaryFreesSecondary(t *testing.T) {
	secondaryReleased := 0
	cc := newContext(t, &scriptCore{})

	res := ffi.DualResult{
		OK:        true,
		Secondary: ffi.NewBuffer([]byte("psbt"), func() { secondaryReleased++ }),
	}
	_, _, err := bridge.Dual(context.Background(), cc, res)
	require.Error(t, err)
	assert.Equal(t, status.InternalError, status.StatusOf(err))
	assert.Equal(t, 1, secondaryReleased, "orphaned secondary buffer must still be freed")
}

func TestDual_FailureReadsErrorRecord(t *testing.T) {
	core := &scriptCore{
		lastErr: ffi.LastError{Present: true, Code: 1020, Message: "beneficiary missing"},
	}
	cc := newContext(t, core)

	_, _, err := bridge.Dual(context.Background(), cc, ffi.DualResult{})
	require.Error(t, err)
	se, ok := status.Of(err)
	require.True(t, ok)
	assert.True(t, se.Foreign)
	assert.Equal(t, int32(1020), se.Code)
}

func TestBytes_ReturnsOwnedCopy(t *testing.T) {
	cc := newContext(t, &scriptCore{})

	res := ffi.Result{OK: true, Payload: ffi.NewBuffer([]byte(`{"a":1}`), nil)}
	raw, err := bridge.Bytes(context.Background(), cc, res)
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"a":1}`), raw)
}
