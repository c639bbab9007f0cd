package decode

import "github.com/mycitadel/citadelkit/pkg/bridge"

// Embedded JSON schemas for the structured categories. The "required"
// lists are the contract: a payload the runtime accepted at the encoding
// level but which misses one of these fields is InvalidStructuredData,
// reported with the field path.

var addressSchema = bridge.MustSchema("address", `{
	"type": "object",
	"required": ["address", "network", "format"],
	"properties": {
		"address":         {"type": "string", "minLength": 1},
		"network":         {"type": "string", "minLength": 1},
		"format":          {"type": "string", "minLength": 1},
		"script_pubkey":   {"type": "string"},
		"witness_version": {"type": ["integer", "null"], "minimum": 0, "maximum": 16}
	}
}`)

var schemaSchema = bridge.MustSchema("schema", `{
	"type": "object",
	"required": ["schema_id"],
	"properties": {
		"schema_id": {"type": "string", "minLength": 1},
		"name":      {"type": "string"}
	}
}`)

var assetSchema = bridge.MustSchema("asset", `{
	"type": "object",
	"required": ["contract_id", "ticker", "name", "precision", "issued_supply", "chain"],
	"properties": {
		"contract_id":   {"type": "string", "minLength": 1},
		"ticker":        {"type": "string", "minLength": 1},
		"name":          {"type": "string", "minLength": 1},
		"details":       {"type": "string"},
		"precision":     {"type": "integer", "minimum": 0, "maximum": 18},
		"issued_supply": {"type": "integer", "minimum": 0},
		"chain":         {"type": "string", "minLength": 1}
	}
}`)

var invoiceSchema = bridge.MustSchema("invoice", `{
	"type": "object",
	"required": ["beneficiary", "network"],
	"properties": {
		"beneficiary": {"type": "string", "minLength": 1},
		"asset_id":    {"type": "string"},
		"amount":      {"type": ["integer", "null"], "minimum": 0},
		"network":     {"type": "string", "minLength": 1},
		"expiry":      {"type": ["integer", "null"]},
		"merchant":    {"type": "string"}
	}
}`)

var consignmentSchema = bridge.MustSchema("consignment", `{
	"type": "object",
	"required": ["consignment_id", "contract_id", "schema_id"],
	"properties": {
		"consignment_id": {"type": "string", "minLength": 1},
		"contract_id":    {"type": "string", "minLength": 1},
		"schema_id":      {"type": "string", "minLength": 1},
		"endpoints":      {"type": "array", "items": {"type": "string"}}
	}
}`)
