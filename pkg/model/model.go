// Package model holds the domain types produced by classification: address
// details, RGB asset/invoice/consignment structures, and the closed tagged
// union tying them together.
package model

// AddressInfo describes a successfully parsed network address.
type AddressInfo struct {
	Address        string `json:"address"`
	Network        string `json:"network"`
	Format         string `json:"format"`
	ScriptPubKey   string `json:"script_pubkey,omitempty"`
	WitnessVersion *int   `json:"witness_version,omitempty"`
}

// SchemaInfo identifies an RGB schema.
type SchemaInfo struct {
	SchemaID string `json:"schema_id"`
	Name     string `json:"name,omitempty"`
}

// AssetGenesis is the structural content of an RGB20 asset genesis or
// import record.
type AssetGenesis struct {
	ContractID   string `json:"contract_id"`
	Ticker       string `json:"ticker"`
	Name         string `json:"name"`
	Details      string `json:"details,omitempty"`
	Precision    uint8  `json:"precision"`
	IssuedSupply uint64 `json:"issued_supply"`
	Chain        string `json:"chain"`
}

// Invoice is a decoded payment invoice.
type Invoice struct {
	Beneficiary string  `json:"beneficiary"`
	AssetID     string  `json:"asset_id,omitempty"`
	Amount      *uint64 `json:"amount,omitempty"`
	Network     string  `json:"network"`
	Expiry      *int64  `json:"expiry,omitempty"`
	Merchant    string  `json:"merchant,omitempty"`
}

// ConsignmentMeta is the metadata header of an asset-transfer consignment.
// Decoding the transfer proof itself is the runtime's job, not ours.
type ConsignmentMeta struct {
	ConsignmentID string   `json:"consignment_id"`
	ContractID    string   `json:"contract_id"`
	SchemaID      string   `json:"schema_id"`
	Endpoints     []string `json:"endpoints,omitempty"`
}

// TxInfo summarizes a decoded raw transaction.
type TxInfo struct {
	Txid       string `json:"txid"`
	Version    int32  `json:"version"`
	LockTime   uint32 `json:"lock_time"`
	NumInputs  int    `json:"num_inputs"`
	NumOutputs int    `json:"num_outputs"`
}

// PSBTInfo summarizes a decoded partially-signed transaction.
type PSBTInfo struct {
	Txid       string `json:"txid"`
	NumInputs  int    `json:"num_inputs"`
	NumOutputs int    `json:"num_outputs"`
	Complete   bool   `json:"complete"`
}
