package classify

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mycitadel/citadelkit/pkg/model"
	"github.com/mycitadel/citadelkit/pkg/status"
)

func TestResult_MarshalAddress(t *testing.T) {
	wv := 0
	res := Result{
		Status: status.Ok,
		Data: model.Address{Info: model.AddressInfo{
			Address:        "bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4",
			Network:        "mainnet",
			Format:         "p2wpkh",
			WitnessVersion: &wv,
		}},
	}
	raw, err := json.Marshal(res)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, float64(0), out["status"])
	assert.Equal(t, "ok", out["status_name"])
	assert.Equal(t, "address", out["kind"])
	assert.Contains(t, out, "data")
	assert.NotContains(t, out, "report")
}

func TestResult_MarshalUnknownOmitsData(t *testing.T) {
	res := Result{
		Status: status.PayloadError,
		Report: "input matches no known encoding",
		Data:   model.Unknown{},
	}
	raw, err := json.Marshal(res)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, float64(status.PayloadError), out["status"])
	assert.Equal(t, "payload_error", out["status_name"])
	assert.Equal(t, "unknown", out["kind"])
	assert.NotContains(t, out, "data")
	assert.Equal(t, "input matches no known encoding", out["report"])
}

func TestResult_MarshalNilData(t *testing.T) {
	raw, err := json.Marshal(Result{Status: status.InternalError})
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "unknown", out["kind"])
}

func TestResult_FingerprintDiffersByData(t *testing.T) {
	a := Result{Status: status.Ok, Data: model.Hash{Hex: "aa"}}
	b := Result{Status: status.Ok, Data: model.Hash{Hex: "bb"}}
	fpA, err := a.Fingerprint()
	require.NoError(t, err)
	fpB, err := b.Fingerprint()
	require.NoError(t, err)
	assert.NotEqual(t, fpA, fpB)
}
