package codec

import (
	"strings"

	"github.com/nnnkkk7/typebridge/pkg/catalog"
	"github.com/nnnkkk7/typebridge/pkg/geometry"
	"github.com/nnnkkk7/typebridge/pkg/value"
	"github.com/nnnkkk7/typebridge/pkg/wire"
)

func spatialFamily(nt catalog.NativeType) geometry.Family {
	if nt.Family == catalog.FamilyGeography {
		return geometry.FamilyGeography
	}
	return geometry.FamilyGeometry
}

// encodeSpatial checks the value against the column's family, subtype and
// SRID, then writes it in the text format the connector stores.
func encodeSpatial(nt catalog.NativeType, v value.Value) (wire.Value, error) {
	family := spatialFamily(nt)

	var g geometry.Geometry
	switch x := v.(type) {
	case value.Geometry:
		if err := geometry.Check(x.G, family); err != nil {
			return wire.Value{}, invalidValue(nt, err, "invalid %s value", family)
		}
		g = x.G
	case value.String:
		parsed, err := geometry.Parse(string(x), family)
		if err != nil {
			return wire.Value{}, invalidValue(nt, err, "invalid %s literal", family)
		}
		g = parsed
	default:
		return wire.Value{}, unexpectedValue(nt, v)
	}

	if !nt.Subtype.Accepts(g) {
		return wire.Value{}, encodeErrorf(CodeSubtypeMismatch, nt,
			"%s%s value cannot be stored in a %s column", g.Kind, g.Dims, nt.Subtype)
	}
	if nt.SRID.Valid {
		if g.SRID.Valid && g.SRID != nt.SRID {
			return wire.Value{}, encodeErrorf(CodeSRIDMismatch, nt,
				"value SRID %s differs from column SRID %s", g.SRID, nt.SRID)
		}
		g = g.WithSRID(nt.SRID)
	}

	text, err := geometry.Serialize(g, nt.Format)
	if err != nil {
		e := encodeErrorf(CodeUnsupportedFormat, nt, "%s cannot be stored as %s", g.Kind, nt.Format)
		e.Err = err
		return wire.Value{}, e
	}
	return wire.Geometry(text), nil
}

// decodeSpatial parses EWKT, WKT or GeoJSON text. The column SRID applies
// when the text carries none, and the text format is kept for rendering.
func decodeSpatial(nt catalog.NativeType, raw any) (value.Value, error) {
	var text string
	switch x := raw.(type) {
	case string:
		text = x
	case []byte:
		text = string(x)
	default:
		return nil, decodeError(nt, raw, nil, "not geometry text")
	}

	g, err := geometry.Parse(text, spatialFamily(nt))
	if err != nil {
		return nil, decodeError(nt, raw, err, "invalid geometry text")
	}
	if !g.SRID.Valid && nt.SRID.Valid {
		g = g.WithSRID(nt.SRID)
	}
	format := geometry.FormatEWKT
	if strings.HasPrefix(strings.TrimSpace(text), "{") {
		format = geometry.FormatGeoJSON
	}
	return value.NewGeometry(g, format), nil
}
