package embedded

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/btcsuite/btcd/wire"

	"github.com/mycitadel/citadelkit/pkg/ffi"
	"github.com/mycitadel/citadelkit/pkg/status"
)

// psbtMagicB64 is the base64 form of the PSBT magic bytes 70736274ff.
const psbtMagicB64 = "cHNidP"

// ParseEncoding implements the generic encoding probe. It reports a
// {status, tag, details} triple: on a non-ok status the details buffer
// carries the diagnostic string, on ok it carries the category payload.
func (c *Core) ParseEncoding(_ context.Context, input string) (ffi.EncodingResult, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return c.encodingFailure(status.PayloadError, "empty input"), nil
	}

	// Hex first: hex strings share characters with the bech32 and base58
	// alphabets, and a stray checksum miss there must not mask them.
	if isHex(input) {
		c.clearErr()
		if raw, err := hex.DecodeString(strings.ToLower(input)); err == nil && looksLikeTx(raw) {
			return c.encodingSuccess("tx", []byte(input)), nil
		}
		return c.encodingSuccess("hex", []byte(input)), nil
	}

	if tried, res := c.tryBech32(input); tried {
		return res, nil
	}

	if strings.HasPrefix(input, psbtMagicB64) {
		c.clearErr()
		return c.encodingSuccess("psbt", []byte(input)), nil
	}
	if raw, err := base64.StdEncoding.DecodeString(input); err == nil && len(raw) > 0 {
		c.clearErr()
		return c.encodingSuccess("base64", raw), nil
	}
	if raw := base58.Decode(input); len(raw) > 0 {
		c.clearErr()
		return c.encodingSuccess("base58", raw), nil
	}

	return c.encodingFailure(status.PayloadError, fmt.Sprintf("input matches no known encoding: %q", clip(input))), nil
}

// tryBech32 attempts a bech32 reading of the input. The first return
// value is false when the input does not even have the separator
// structure of a bech32 string, in which case other encodings get their
// turn; any other failure is terminal with a mapped status.
func (c *Core) tryBech32(input string) (bool, ffi.EncodingResult) {
	if !strings.Contains(input, "1") {
		return false, ffi.EncodingResult{}
	}
	hrp, data5, err := bech32.DecodeNoLimit(input)
	if err != nil {
		var sepErr bech32.ErrInvalidSeparatorIndex
		if errors.As(err, &sepErr) {
			return false, ffi.EncodingResult{}
		}
		var charErr bech32.ErrNonCharsetChar
		if errors.As(err, &charErr) {
			// Not bech32 material at all; let base64/base58 try.
			return false, ffi.EncodingResult{}
		}
		var caseErr bech32.ErrMixedCase
		if errors.As(err, &caseErr) {
			// bech32 is single-case; mixed-case input is base64/base58
			// material, not a damaged bech32 string.
			return false, ffi.EncodingResult{}
		}
		var invErr bech32.ErrInvalidCharacter
		if errors.As(err, &invErr) {
			return false, ffi.EncodingResult{}
		}
		var chkErr bech32.ErrInvalidChecksum
		if errors.As(err, &chkErr) {
			if chkErr.Actual == chkErr.ExpectedM {
				return true, c.encodingFailure(status.UnsupportedError,
					fmt.Sprintf("bech32m encoding not supported: %q", clip(input)))
			}
			return true, c.encodingFailure(status.ChecksumError,
				fmt.Sprintf("bech32 checksum mismatch: expected %s, got %s", chkErr.Expected, chkErr.Actual))
		}
		return true, c.encodingFailure(status.EncodingError, fmt.Sprintf("malformed bech32 string: %v", err))
	}
	if hrp == "" {
		return true, c.encodingFailure(status.HRPError, "bech32 string carries an empty human-readable prefix")
	}

	payload, err := bech32.ConvertBits(data5, 5, 8, false)
	if err != nil {
		return true, c.encodingFailure(status.EncodingError, fmt.Sprintf("bech32 payload regrouping failed: %v", err))
	}
	c.clearErr()
	// The prefix travels as the category tag whether or not it is one of
	// the RGB prefixes; unregistered tags are the classifier's soft case.
	return true, c.encodingSuccess(hrp, payload)
}

func (c *Core) encodingSuccess(tag string, payload []byte) ffi.EncodingResult {
	return ffi.EncodingResult{
		Status:  uint16(status.Ok),
		Tag:     tag,
		Details: c.newBuffer(payload),
	}
}

func (c *Core) encodingFailure(st status.ParseStatus, msg string) ffi.EncodingResult {
	c.setErr(int32(uint16(st)), msg)
	return ffi.EncodingResult{
		Status:  uint16(st),
		Details: c.newBuffer([]byte(msg)),
	}
}

func isHex(s string) bool {
	if len(s) < 2 || len(s)%2 != 0 {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

// looksLikeTx reports whether raw deserializes as a non-degenerate
// transaction.
func looksLikeTx(raw []byte) bool {
	var tx wire.MsgTx
	if err := tx.Deserialize(bytes.NewReader(raw)); err != nil {
		return false
	}
	return len(tx.TxIn) > 0 && len(tx.TxOut) > 0
}

func clip(s string) string {
	const max = 48
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
