// Package embedded is a pure-Go stand-in for the native citadel runtime,
// exposed exclusively through the ffi.Core entry-point contract. It backs
// offline classification when no runtime binary is configured and serves
// as the instrumented foreign layer in tests: every buffer it allocates
// counts its release, so buffer-hygiene properties are directly checkable.
package embedded

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync/atomic"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"

	"github.com/mycitadel/citadelkit/pkg/ffi"
	"github.com/mycitadel/citadelkit/pkg/model"
)

// coreVersion is the version the embedded runtime reports through the
// ffi version gate.
const coreVersion = "1.3.0"

// Runtime error codes reported through the last-error record. These are
// the runtime's own codes, not ParseStatus values.
const (
	codeInvalidAddress   int32 = 1010
	codeWrongNetwork     int32 = 1011
	codeInvalidInvoice   int32 = 1020
	codeScriptDerivation int32 = 5001
)

// Core implements ffi.Core in-process.
//
// Like the native runtime, it keeps a single last-error slot per handle
// and provides no locking: access must be externally serialized.
type Core struct {
	params  *chaincfg.Params
	network string
	lastErr ffi.LastError

	allocated atomic.Int64
	released  atomic.Int64
}

// New builds an embedded core for the named network: mainnet, testnet,
// signet or regtest.
func New(network string) (*Core, error) {
	params, err := chainParams(network)
	if err != nil {
		return nil, err
	}
	return &Core{params: params, network: network}, nil
}

func chainParams(network string) (*chaincfg.Params, error) {
	switch network {
	case "mainnet":
		return &chaincfg.MainNetParams, nil
	case "testnet":
		return &chaincfg.TestNet3Params, nil
	case "signet":
		return &chaincfg.SigNetParams, nil
	case "regtest":
		return &chaincfg.RegressionNetParams, nil
	default:
		return nil, fmt.Errorf("embedded: unknown network %q", network)
	}
}

// Stats reports how many buffers this core handed out and how many were
// released. Equal numbers mean no leak and no double free.
func (c *Core) Stats() (allocated, released int64) {
	return c.allocated.Load(), c.released.Load()
}

// newBuffer wraps payload bytes in a counted single-owner buffer.
func (c *Core) newBuffer(data []byte) *ffi.Buffer {
	c.allocated.Add(1)
	return ffi.NewBuffer(data, func() { c.released.Add(1) })
}

func (c *Core) setErr(code int32, msg string) {
	c.lastErr = ffi.LastError{Present: true, Code: code, Message: msg}
}

func (c *Core) clearErr() {
	c.lastErr = ffi.LastError{}
}

// ParseAddress implements the address-parsing entry point over btcutil.
func (c *Core) ParseAddress(_ context.Context, input string) (ffi.Result, error) {
	addr, err := btcutil.DecodeAddress(input, c.params)
	if err != nil {
		c.setErr(codeInvalidAddress, fmt.Sprintf("address %q: %v", input, err))
		return ffi.Result{}, nil
	}
	if !addr.IsForNet(c.params) {
		c.setErr(codeWrongNetwork, fmt.Sprintf("address %q is not valid for network %s", input, c.network))
		return ffi.Result{}, nil
	}

	script, err := txscript.PayToAddrScript(addr)
	if err != nil {
		c.setErr(codeScriptDerivation, fmt.Sprintf("derive script for %q: %v", input, err))
		return ffi.Result{}, nil
	}

	info := model.AddressInfo{
		Address:        addr.EncodeAddress(),
		Network:        c.network,
		Format:         addressFormat(addr),
		ScriptPubKey:   hex.EncodeToString(script),
		WitnessVersion: witnessVersion(addr),
	}
	payload, err := json.Marshal(info)
	if err != nil {
		return ffi.Result{}, fmt.Errorf("embedded: marshal address info: %w", err)
	}
	c.clearErr()
	return ffi.Result{OK: true, Payload: c.newBuffer(payload)}, nil
}

func addressFormat(addr btcutil.Address) string {
	switch addr.(type) {
	case *btcutil.AddressPubKeyHash:
		return "p2pkh"
	case *btcutil.AddressScriptHash:
		return "p2sh"
	case *btcutil.AddressWitnessPubKeyHash:
		return "p2wpkh"
	case *btcutil.AddressWitnessScriptHash:
		return "p2wsh"
	case *btcutil.AddressTaproot:
		return "p2tr"
	default:
		return "unknown"
	}
}

func witnessVersion(addr btcutil.Address) *int {
	var v int
	switch addr.(type) {
	case *btcutil.AddressWitnessPubKeyHash, *btcutil.AddressWitnessScriptHash:
		v = 0
	case *btcutil.AddressTaproot:
		v = 1
	default:
		return nil
	}
	return &v
}

// LastError reads the handle's error slot.
func (c *Core) LastError(context.Context) (ffi.LastError, error) {
	return c.lastErr, nil
}

// Version reports the embedded runtime version.
func (c *Core) Version(context.Context) (string, error) {
	return coreVersion, nil
}

// Close is a no-op: the embedded core holds no foreign resources.
func (c *Core) Close(context.Context) error {
	return nil
}
