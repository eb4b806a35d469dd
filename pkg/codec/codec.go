// Package codec translates canonical values into the wire values a driver
// expects for a native type, and driver values back into canonical values.
//
// Encode and Decode hold no state and may be called from any goroutine.
// Both backends of the connector dispatcher consume the same wire values,
// so nothing here depends on how the database is reached.
package codec

import (
	"fmt"

	"github.com/nnnkkk7/typebridge/pkg/catalog"
	"github.com/nnnkkk7/typebridge/pkg/value"
	"github.com/nnnkkk7/typebridge/pkg/wire"
)

// Encode converts v into the wire value for native type nt.
func Encode(nt catalog.NativeType, v value.Value) (wire.Value, error) {
	if value.IsNull(v) {
		return wire.Null, nil
	}
	switch nt.Family {
	case catalog.FamilyInt:
		return encodeInt(nt, v)
	case catalog.FamilyYear:
		return encodeYear(nt, v)
	case catalog.FamilyFloat:
		return encodeFloat(nt, v)
	case catalog.FamilyDecimal, catalog.FamilyMoney:
		return encodeDecimal(nt, v)
	case catalog.FamilyChar, catalog.FamilyVarChar, catalog.FamilyText:
		return encodeText(nt, v)
	case catalog.FamilyBit, catalog.FamilyVarBit:
		return encodeBit(nt, v)
	case catalog.FamilyUUID:
		return encodeUUID(nt, v)
	case catalog.FamilyInet:
		return encodeInet(nt, v)
	case catalog.FamilyBool:
		return encodeBool(nt, v)
	case catalog.FamilyBytes:
		return encodeBytes(nt, v)
	case catalog.FamilyJSON, catalog.FamilyJSONB:
		return encodeJSON(nt, v)
	case catalog.FamilyDate, catalog.FamilyTime, catalog.FamilyTimeTZ,
		catalog.FamilyTimestamp, catalog.FamilyTimestampTZ:
		return encodeTemporal(nt, v)
	case catalog.FamilyGeometry, catalog.FamilyGeography:
		return encodeSpatial(nt, v)
	default:
		return wire.Value{}, encodeErrorf(CodeInvalidValue, nt, "unknown native type family %q", nt.Family)
	}
}

// Decode converts a driver value of native type nt into its canonical
// value. A nil raw value decodes to value.Null.
func Decode(nt catalog.NativeType, raw any) (value.Value, error) {
	if raw == nil {
		return value.Null{}, nil
	}
	switch nt.Family {
	case catalog.FamilyInt, catalog.FamilyYear:
		return decodeInt(nt, raw)
	case catalog.FamilyFloat:
		return decodeFloat(nt, raw)
	case catalog.FamilyDecimal, catalog.FamilyMoney:
		return decodeDecimal(nt, raw)
	case catalog.FamilyChar, catalog.FamilyVarChar, catalog.FamilyText, catalog.FamilyInet:
		return decodeText(nt, raw)
	case catalog.FamilyBit, catalog.FamilyVarBit:
		return decodeBit(nt, raw)
	case catalog.FamilyUUID:
		return decodeUUID(nt, raw)
	case catalog.FamilyBool:
		return decodeBool(nt, raw)
	case catalog.FamilyBytes:
		return decodeBytes(nt, raw)
	case catalog.FamilyJSON, catalog.FamilyJSONB:
		return decodeJSON(nt, raw)
	case catalog.FamilyDate, catalog.FamilyTime, catalog.FamilyTimeTZ,
		catalog.FamilyTimestamp, catalog.FamilyTimestampTZ:
		return decodeTemporal(nt, raw)
	case catalog.FamilyGeometry, catalog.FamilyGeography:
		return decodeSpatial(nt, raw)
	default:
		return nil, decodeError(nt, raw, nil, "unknown native type family %q", nt.Family)
	}
}

// EncodeAll encodes values positionally against types.
func EncodeAll(types []catalog.NativeType, values []value.Value) ([]wire.Value, error) {
	if len(types) != len(values) {
		return nil, fmt.Errorf("encode: %d values for %d native types", len(values), len(types))
	}
	out := make([]wire.Value, len(values))
	for i, v := range values {
		w, err := Encode(types[i], v)
		if err != nil {
			return nil, fmt.Errorf("parameter %d: %w", i+1, err)
		}
		out[i] = w
	}
	return out, nil
}

// DecodeRow decodes one result row positionally against types.
func DecodeRow(types []catalog.NativeType, row []any) ([]value.Value, error) {
	if len(types) != len(row) {
		return nil, fmt.Errorf("decode: %d cells for %d native types", len(row), len(types))
	}
	out := make([]value.Value, len(row))
	for i, raw := range row {
		v, err := Decode(types[i], raw)
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", i+1, err)
		}
		out[i] = v
	}
	return out, nil
}
