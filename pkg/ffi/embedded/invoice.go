package embedded

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"

	"github.com/mycitadel/citadelkit/pkg/ffi"
	"github.com/mycitadel/citadelkit/pkg/model"
)

// ComposeInvoice implements the dual-buffer composing call: the primary
// buffer carries the bech32 invoice string, the secondary — present only
// for asset invoices — carries the anchoring PSBT in base64.
func (c *Core) ComposeInvoice(_ context.Context, req ffi.InvoiceRequest) (ffi.DualResult, error) {
	if req.Beneficiary == "" {
		c.setErr(codeInvalidInvoice, "invoice beneficiary must not be empty")
		return ffi.DualResult{}, nil
	}
	addr, err := btcutil.DecodeAddress(req.Beneficiary, c.params)
	if err != nil {
		c.setErr(codeInvalidInvoice, fmt.Sprintf("invoice beneficiary %q: %v", req.Beneficiary, err))
		return ffi.DualResult{}, nil
	}

	inv := model.Invoice{
		Beneficiary: addr.EncodeAddress(),
		AssetID:     req.AssetID,
		Network:     c.network,
	}
	if req.Amount > 0 {
		amount := req.Amount
		inv.Amount = &amount
	}
	doc, err := json.Marshal(inv)
	if err != nil {
		return ffi.DualResult{}, fmt.Errorf("embedded: marshal invoice: %w", err)
	}
	encoded, err := EncodePayload("rgbinv", doc)
	if err != nil {
		return ffi.DualResult{}, fmt.Errorf("embedded: encode invoice: %w", err)
	}

	res := ffi.DualResult{OK: true, Primary: c.newBuffer([]byte(encoded))}
	if req.AssetID != "" {
		anchor, err := c.anchorPSBT(addr)
		if err != nil {
			res.Primary.Discard()
			c.setErr(codeInvalidInvoice, fmt.Sprintf("anchor psbt: %v", err))
			return ffi.DualResult{}, nil
		}
		res.Secondary = c.newBuffer([]byte(anchor))
	}
	c.clearErr()
	return res, nil
}

// anchorPSBT builds the unsigned single-output anchoring transaction an
// asset invoice commits to. The input is a placeholder outpoint the
// payer replaces at funding time.
func (c *Core) anchorPSBT(addr btcutil.Address) (string, error) {
	script, err := txscript.PayToAddrScript(addr)
	if err != nil {
		return "", err
	}
	tx := wire.NewMsgTx(wire.TxVersion)
	tx.AddTxIn(wire.NewTxIn(wire.NewOutPoint(&chainhash.Hash{}, 0), nil, nil))
	tx.AddTxOut(wire.NewTxOut(0, script))

	packet, err := psbt.NewFromUnsignedTx(tx)
	if err != nil {
		return "", err
	}
	return packet.B64Encode()
}

// EncodePayload bech32-encodes a category payload under the given
// human-readable prefix, exactly the way the runtime transports RGB
// payloads. Exported for callers that need to fabricate runtime-shaped
// inputs, tests chief among them.
func EncodePayload(hrp string, payload []byte) (string, error) {
	data5, err := bech32.ConvertBits(payload, 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("embedded: regroup payload: %w", err)
	}
	return bech32.Encode(hrp, data5)
}
