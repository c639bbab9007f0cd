package model

// Kind names a ClassifiedData variant. The set is closed; values are
// stable identifiers and MUST NOT change between releases.
type Kind string

const (
	KindAddress     Kind = "address"
	KindSchema      Kind = "schema"
	KindAsset       Kind = "asset"
	KindInvoice     Kind = "invoice"
	KindConsignment Kind = "consignment"
	KindTx          Kind = "tx"
	KindPSBT        Kind = "psbt"
	KindHash        Kind = "hash"
	KindHex         Kind = "hex"
	KindEncoded     Kind = "encoded"
	KindUnknown     Kind = "unknown"
)

// Data is the tagged union over every recognized classification category.
// A given input resolves to exactly one variant; callers dispatch with an
// exhaustive type switch. The marker method keeps the set closed to this
// package.
type Data interface {
	Kind() Kind
	isData()
}

// Address wraps a parsed network address.
type Address struct {
	Info AddressInfo `json:"info"`
}

// Schema wraps an RGB schema identifier.
type Schema struct {
	Info SchemaInfo `json:"info"`
}

// Asset wraps an RGB20 asset genesis or import record.
type Asset struct {
	Genesis AssetGenesis `json:"genesis"`
}

// InvoiceData wraps a decoded invoice.
type InvoiceData struct {
	Invoice Invoice `json:"invoice"`
}

// Consignment wraps consignment metadata.
type Consignment struct {
	Meta ConsignmentMeta `json:"meta"`
}

// Tx wraps a decoded raw transaction.
type Tx struct {
	Info TxInfo `json:"info"`
}

// PSBT wraps a decoded partially-signed transaction.
type PSBT struct {
	Info PSBTInfo `json:"info"`
}

// Hash is a bare 32-byte hash, hex-encoded.
type Hash struct {
	Hex string `json:"hex"`
}

// Hex is an arbitrary hex-encoded payload that matched no richer category.
type Hex struct {
	Bytes []byte `json:"bytes"`
}

// Encoded is a recognized generic encoding (base58, base64) whose payload
// matched no richer category; the raw bytes are preserved.
type Encoded struct {
	Encoding string `json:"encoding"`
	Bytes    []byte `json:"bytes"`
}

// Unknown marks input that resolved to no category at all.
type Unknown struct{}

func (Address) Kind() Kind     { return KindAddress }
func (Schema) Kind() Kind      { return KindSchema }
func (Asset) Kind() Kind       { return KindAsset }
func (InvoiceData) Kind() Kind { return KindInvoice }
func (Consignment) Kind() Kind { return KindConsignment }
func (Tx) Kind() Kind          { return KindTx }
func (PSBT) Kind() Kind        { return KindPSBT }
func (Hash) Kind() Kind        { return KindHash }
func (Hex) Kind() Kind         { return KindHex }
func (Encoded) Kind() Kind     { return KindEncoded }
func (Unknown) Kind() Kind     { return KindUnknown }

func (Address) isData()     {}
func (Schema) isData()      {}
func (Asset) isData()       {}
func (InvoiceData) isData() {}
func (Consignment) isData() {}
func (Tx) isData()          {}
func (PSBT) isData()        {}
func (Hash) isData()        {}
func (Hex) isData()         {}
func (Encoded) isData()     {}
func (Unknown) isData()     {}
