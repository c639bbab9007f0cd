package ffi_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mycitadel/citadelkit/pkg/ffi"
)

// stubCore is a minimal Core whose version string is configurable.
type stubCore struct {
	version string
}

func (s *stubCore) ParseAddress(context.Context, string) (ffi.Result, error) {
	return ffi.Result{}, nil
}

func (s *stubCore) ParseEncoding(context.Context, string) (ffi.EncodingResult, error) {
	return ffi.EncodingResult{}, nil
}

func (s *stubCore) ComposeInvoice(context.Context, ffi.InvoiceRequest) (ffi.DualResult, error) {
	return ffi.DualResult{}, nil
}

func (s *stubCore) LastError(context.Context) (ffi.LastError, error) {
	return ffi.LastError{}, nil
}

func (s *stubCore) Version(context.Context) (string, error) { return s.version, nil }

func (s *stubCore) Close(context.Context) error { return nil }

func TestNewCallContext_VersionGate(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		version string
		ok      bool
	}{
		{"1.3.0", true},
		{"0.9.0", true},
		{"1.99.7", true},
		{"0.8.5", false},
		{"2.0.0", false},
		{"3.1.4", false},
	}
	for _, tc := range cases {
		t.Run(tc.version, func(t *testing.T) {
			cc, err := ffi.NewCallContext(ctx, &stubCore{version: tc.version}, nil)
			if tc.ok {
				require.NoError(t, err)
				assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", cc.ID().String())
				assert.NotNil(t, cc.Logger())
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "outside supported range")
			}
		})
	}
}

func TestNewCallContext_MalformedVersion(t *testing.T) {
	_, err := ffi.NewCallContext(context.Background(), &stubCore{version: "not-a-version"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed version")
}

func TestCallContext_DistinctIdentities(t *testing.T) {
	ctx := context.Background()
	a, err := ffi.NewCallContext(ctx, &stubCore{version: "1.0.0"}, nil)
	require.NoError(t, err)
	b, err := ffi.NewCallContext(ctx, &stubCore{version: "1.0.0"}, nil)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID(), b.ID())
}
