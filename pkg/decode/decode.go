// Package decode holds the per-category structured decoders the
// classifier dispatches into after the generic encoding probe accepted an
// input. Every decoder receives the owned detail payload already bridged
// out of the runtime and either produces exactly one classified variant
// or fails with an InvalidStructuredData error — the runtime vouched for
// the encoding, not for the structure.
package decode

import "github.com/mycitadel/citadelkit/pkg/model"

// Category tags returned by the runtime's generic encoding probe. The
// mapping from tag to decoder is open-ended: new decoders register under
// new tags without reordering existing ones.
const (
	TagSchema      = "rgbsch"
	TagAsset       = "rgb20"
	TagInvoice     = "rgbinv"
	TagConsignment = "rgbcsg"
	TagPSBT        = "psbt"
	TagTx          = "tx"
	TagHex         = "hex"
	TagBase58      = "base58"
	TagBase64      = "base64"
)

// Decoder turns a category payload into its classified variant.
type Decoder interface {
	// Tag is the category tag this decoder is registered under.
	Tag() string
	// Decode structurally decodes the detail payload.
	Decode(payload []byte) (model.Data, error)
}

// Defaults returns the full built-in decoder set.
func Defaults() []Decoder {
	return []Decoder{
		SchemaDecoder{},
		AssetDecoder{},
		InvoiceDecoder{},
		ConsignmentDecoder{},
		PSBTDecoder{},
		TxDecoder{},
		HexDecoder{},
		RawDecoder{Encoding: TagBase58},
		RawDecoder{Encoding: TagBase64},
	}
}
