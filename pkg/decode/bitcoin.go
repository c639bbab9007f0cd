package decode

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/wire"

	"github.com/mycitadel/citadelkit/pkg/model"
	"github.com/mycitadel/citadelkit/pkg/status"
)

// PSBTDecoder decodes partially-signed transactions. The detail payload
// is the base64 PSBT text as handed over by the encoding probe.
type PSBTDecoder struct{}

func (PSBTDecoder) Tag() string { return TagPSBT }

func (PSBTDecoder) Decode(payload []byte) (model.Data, error) {
	packet, err := psbt.NewFromRawBytes(bytes.NewReader(payload), true)
	if err != nil {
		return nil, status.NewDecode(fmt.Sprintf("corrupted payload: psbt: %v", err))
	}
	tx := packet.UnsignedTx
	return model.PSBT{Info: model.PSBTInfo{
		Txid:       tx.TxHash().String(),
		NumInputs:  len(tx.TxIn),
		NumOutputs: len(tx.TxOut),
		Complete:   packet.IsComplete(),
	}}, nil
}

// TxDecoder decodes raw hex-serialized transactions.
type TxDecoder struct{}

func (TxDecoder) Tag() string { return TagTx }

func (TxDecoder) Decode(payload []byte) (model.Data, error) {
	raw, err := hex.DecodeString(strings.TrimSpace(string(payload)))
	if err != nil {
		return nil, status.NewDecode(fmt.Sprintf("corrupted payload: tx hex: %v", err))
	}
	var tx wire.MsgTx
	if err := tx.Deserialize(bytes.NewReader(raw)); err != nil {
		return nil, status.NewDecode(fmt.Sprintf("corrupted payload: tx: %v", err))
	}
	return model.Tx{Info: model.TxInfo{
		Txid:       tx.TxHash().String(),
		Version:    tx.Version,
		LockTime:   tx.LockTime,
		NumInputs:  len(tx.TxIn),
		NumOutputs: len(tx.TxOut),
	}}, nil
}

// HexDecoder classifies bare hex payloads: a 32-byte value is reported as
// a raw hash, anything else as raw hex bytes.
type HexDecoder struct{}

func (HexDecoder) Tag() string { return TagHex }

func (HexDecoder) Decode(payload []byte) (model.Data, error) {
	text := strings.TrimSpace(string(payload))
	raw, err := hex.DecodeString(text)
	if err != nil {
		return nil, status.NewDecode(fmt.Sprintf("corrupted payload: hex: %v", err))
	}
	if len(raw) == 32 {
		return model.Hash{Hex: strings.ToLower(text)}, nil
	}
	return model.Hex{Bytes: raw}, nil
}

// RawDecoder preserves the raw bytes of a recognized generic encoding
// (base58, base64) whose payload matched no richer category.
type RawDecoder struct {
	Encoding string
}

func (d RawDecoder) Tag() string { return d.Encoding }

func (d RawDecoder) Decode(payload []byte) (model.Data, error) {
	if len(payload) == 0 {
		return nil, status.NewDecode("corrupted payload: empty " + d.Encoding + " payload")
	}
	return model.Encoded{Encoding: d.Encoding, Bytes: payload}, nil
}
