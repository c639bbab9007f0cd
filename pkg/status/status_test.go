package status

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus_NumericIdentity(t *testing.T) {
	// The wire codes are shared with the runtime and must never drift.
	assert.Equal(t, uint16(0), uint16(Ok))
	assert.Equal(t, uint16(1), uint16(HRPError))
	assert.Equal(t, uint16(2), uint16(ChecksumError))
	assert.Equal(t, uint16(3), uint16(EncodingError))
	assert.Equal(t, uint16(4), uint16(PayloadError))
	assert.Equal(t, uint16(5), uint16(UnsupportedError))
	assert.Equal(t, uint16(6), uint16(InternalError))
	assert.Equal(t, uint16(0xFFFF), uint16(InvalidStructuredData))
}

func TestParseStatus_String(t *testing.T) {
	cases := map[ParseStatus]string{
		Ok:                    "ok",
		HRPError:              "hrp_error",
		ChecksumError:         "checksum_error",
		EncodingError:         "encoding_error",
		PayloadError:          "payload_error",
		UnsupportedError:      "unsupported_error",
		InternalError:         "internal_error",
		InvalidStructuredData: "invalid_structured_data",
	}
	for st, want := range cases {
		assert.Equal(t, want, st.String())
	}
	assert.Equal(t, "parse_status(42)", ParseStatus(42).String())
}

func TestFromCode(t *testing.T) {
	for code := uint16(0); code <= uint16(InternalError); code++ {
		assert.Equal(t, ParseStatus(code), FromCode(code))
	}
	// Codes outside the runtime's range degrade to InternalError and must
	// never alias the local sentinel.
	assert.Equal(t, InternalError, FromCode(7))
	assert.Equal(t, InternalError, FromCode(0xFFFF))
}

func TestError_Foreign(t *testing.T) {
	err := NewForeign(1010, "address unparseable")
	assert.EqualError(t, err, "citadel runtime error 1010: address unparseable")

	se, ok := Of(err)
	require.True(t, ok)
	assert.True(t, se.Foreign)
	assert.Equal(t, int32(1010), se.Code)

	// Foreign codes live in the runtime's own space, not the taxonomy.
	assert.Equal(t, InternalError, StatusOf(err))
}

func TestError_Decode(t *testing.T) {
	err := NewDecode(`missing required field "ticker"`)
	assert.Equal(t, InvalidStructuredData, StatusOf(err))
	assert.EqualError(t, err, `invalid_structured_data: missing required field "ticker"`)
}

func TestError_Wrapped(t *testing.T) {
	inner := NewInternal("core signalled failure but reported no error")
	wrapped := fmt.Errorf("classify: %w", inner)

	se, ok := Of(wrapped)
	require.True(t, ok)
	assert.Equal(t, InternalError, se.Status)
	assert.Equal(t, InternalError, StatusOf(wrapped))
}

func TestStatusOf_Unstructured(t *testing.T) {
	assert.Equal(t, InternalError, StatusOf(errors.New("plain")))
}
