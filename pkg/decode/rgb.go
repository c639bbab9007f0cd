package decode

import (
	"github.com/mycitadel/citadelkit/pkg/bridge"
	"github.com/mycitadel/citadelkit/pkg/model"
)

// Address decodes the address-probe payload. It is not part of the tag
// registry: the classifier calls it directly on the first-stage probe.
func Address(payload []byte) (model.AddressInfo, error) {
	var info model.AddressInfo
	if err := bridge.Into(payload, addressSchema, &info); err != nil {
		return model.AddressInfo{}, err
	}
	return info, nil
}

// SchemaDecoder decodes RGB schema identifiers.
type SchemaDecoder struct{}

func (SchemaDecoder) Tag() string { return TagSchema }

func (SchemaDecoder) Decode(payload []byte) (model.Data, error) {
	var info model.SchemaInfo
	if err := bridge.Into(payload, schemaSchema, &info); err != nil {
		return nil, err
	}
	return model.Schema{Info: info}, nil
}

// AssetDecoder decodes RGB20 asset genesis and import records.
type AssetDecoder struct{}

func (AssetDecoder) Tag() string { return TagAsset }

func (AssetDecoder) Decode(payload []byte) (model.Data, error) {
	var genesis model.AssetGenesis
	if err := bridge.Into(payload, assetSchema, &genesis); err != nil {
		return nil, err
	}
	return model.Asset{Genesis: genesis}, nil
}

// InvoiceDecoder decodes payment invoices.
type InvoiceDecoder struct{}

func (InvoiceDecoder) Tag() string { return TagInvoice }

func (InvoiceDecoder) Decode(payload []byte) (model.Data, error) {
	var inv model.Invoice
	if err := bridge.Into(payload, invoiceSchema, &inv); err != nil {
		return nil, err
	}
	return model.InvoiceData{Invoice: inv}, nil
}

// ConsignmentDecoder decodes the metadata header of a transfer
// consignment.
type ConsignmentDecoder struct{}

func (ConsignmentDecoder) Tag() string { return TagConsignment }

func (ConsignmentDecoder) Decode(payload []byte) (model.Data, error) {
	var meta model.ConsignmentMeta
	if err := bridge.Into(payload, consignmentSchema, &meta); err != nil {
		return nil, err
	}
	return model.Consignment{Meta: meta}, nil
}
