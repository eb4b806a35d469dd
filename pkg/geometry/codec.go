package geometry

import (
	"strconv"
	"strings"
)

// Parse reads WKT, EWKT or GeoJSON text; a leading '{' selects GeoJSON.
// FamilyGeography additionally rejects extended kinds and positions outside
// longitude/latitude range. Parse never assigns a default SRID.
func Parse(text string, family Family) (Geometry, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Geometry{}, &ParseError{Code: CodeTruncated, Message: "empty geometry text"}
	}

	var (
		g   Geometry
		err error
	)
	if trimmed[0] == '{' {
		g, err = ParseGeoJSON(text)
	} else {
		g, err = ParseWKT(text)
	}
	if err != nil {
		return Geometry{}, err
	}

	if family == FamilyGeography {
		if verr := checkGeography(g); verr != nil {
			return Geometry{}, newParseError(verr.code, text, 0, "%s", verr.msg)
		}
	}
	return g, nil
}

// Check applies the structural and family rules Parse enforces to an
// already built geometry.
func Check(g Geometry, family Family) error {
	if err := Validate(g); err != nil {
		return err
	}
	if family != FamilyGeography {
		return nil
	}
	if verr := checkGeography(g); verr != nil {
		return &ParseError{Code: verr.code, Message: verr.msg}
	}
	return nil
}

// Validate reports whether g has the shape Parse produces. Serializers
// assume it; a geometry that fails cannot be written.
func Validate(g Geometry) error {
	if verr := checkStructure(g, g.Dims); verr != nil {
		return &ParseError{Code: verr.code, Message: verr.msg}
	}
	return nil
}

// Serialize writes g in the given format. EWKT carries the SRID prefix only
// when g has one; WKT and GeoJSON never carry it.
func Serialize(g Geometry, format Format) (string, error) {
	if err := Validate(g); err != nil {
		return "", err
	}
	var b strings.Builder
	switch format {
	case FormatWKT:
		writeWKT(&b, g, false)
	case FormatEWKT:
		return g.String(), nil
	case FormatGeoJSON:
		out, err := marshalGeoJSON(g)
		if err != nil {
			return "", err
		}
		return string(out), nil
	default:
		return "", &SerializeError{Code: CodeUnsupportedFormat, Kind: g.Kind, Format: format}
	}
	return b.String(), nil
}

// String returns g as EWKT. A malformed g renders its validation error.
func (g Geometry) String() string {
	if err := Validate(g); err != nil {
		return "invalid geometry: " + err.Error()
	}
	var b strings.Builder
	if g.SRID.Valid {
		b.WriteString("SRID=")
		b.WriteString(strconv.Itoa(g.SRID.ID))
		b.WriteByte(';')
	}
	writeWKT(&b, g, true)
	return b.String()
}
