package geometry

import (
	"encoding/json"
	"errors"
	"strings"
)

// geoJSONKinds are the kinds with a GeoJSON type name.
var geoJSONKinds = map[string]Kind{
	"Point":              KindPoint,
	"LineString":         KindLineString,
	"Polygon":            KindPolygon,
	"MultiPoint":         KindMultiPoint,
	"MultiLineString":    KindMultiLineString,
	"MultiPolygon":       KindMultiPolygon,
	"GeometryCollection": KindGeometryCollection,
}

type geoJSONObject struct {
	Type        string            `json:"type"`
	Coordinates json.RawMessage   `json:"coordinates"`
	Geometries  []json.RawMessage `json:"geometries"`
}

// ParseGeoJSON parses a GeoJSON geometry object. GeoJSON has no SRID slot,
// so the result's SRID is unspecified.
func ParseGeoJSON(text string) (Geometry, error) {
	p := &geoJSONParser{src: text}
	g, err := p.parse([]byte(text))
	if err != nil {
		return Geometry{}, err
	}
	g.setDims(p.dims)
	return g, nil
}

type geoJSONParser struct {
	src     string
	dims    Dims
	dimsSet bool
}

func (p *geoJSONParser) errorf(code ErrorCode, offset int, format string, args ...any) *ParseError {
	return newParseError(code, p.src, offset, format, args...)
}

func (p *geoJSONParser) parse(raw []byte) (Geometry, error) {
	var obj geoJSONObject
	if err := json.Unmarshal(raw, &obj); err != nil {
		return Geometry{}, p.jsonError(err)
	}
	if obj.Type == "" {
		return Geometry{}, p.errorf(CodeInvalidJSON, 0, "missing \"type\" member")
	}
	kind, ok := geoJSONKinds[obj.Type]
	if !ok {
		if k, known := kindFromWKT(strings.ToUpper(obj.Type)); known && k.IsExtended() {
			return Geometry{}, p.errorf(CodeUnsupportedKind, 0, "%s has no GeoJSON representation", k)
		}
		return Geometry{}, p.errorf(CodeUnknownKind, 0, "unknown GeoJSON type %q", obj.Type)
	}

	if kind == KindGeometryCollection {
		g := Geometry{Kind: kind}
		for _, member := range obj.Geometries {
			child, err := p.parse(member)
			if err != nil {
				return Geometry{}, err
			}
			g.Children = append(g.Children, child)
		}
		return g, nil
	}

	if isNull(obj.Coordinates) {
		if obj.Coordinates == nil {
			return Geometry{}, p.errorf(CodeInvalidJSON, 0, "%s is missing \"coordinates\"", kind)
		}
		return Geometry{Kind: kind}, nil
	}
	return p.parseCoordinates(kind, obj.Coordinates)
}

func isNull(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return s == "" || s == "null"
}

func (p *geoJSONParser) jsonError(err error) *ParseError {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		if int(syntaxErr.Offset) >= len(p.src) {
			return p.errorf(CodeTruncated, int(syntaxErr.Offset), "%v", err)
		}
		return p.errorf(CodeInvalidJSON, int(syntaxErr.Offset), "%v", err)
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return p.errorf(CodeInvalidJSON, int(typeErr.Offset), "%v", err)
	}
	return p.errorf(CodeInvalidJSON, 0, "%v", err)
}

func (p *geoJSONParser) parseCoordinates(kind Kind, raw json.RawMessage) (Geometry, error) {
	g := Geometry{Kind: kind}
	switch kind {
	case KindPoint:
		var pos []float64
		if err := json.Unmarshal(raw, &pos); err != nil {
			return g, p.jsonError(err)
		}
		if len(pos) == 0 {
			return g, nil
		}
		c, err := p.position(pos)
		if err != nil {
			return g, err
		}
		g.Coords = []Coord{c}

	case KindLineString:
		var line [][]float64
		if err := json.Unmarshal(raw, &line); err != nil {
			return g, p.jsonError(err)
		}
		return p.lineString(line)

	case KindMultiPoint:
		var points [][]float64
		if err := json.Unmarshal(raw, &points); err != nil {
			return g, p.jsonError(err)
		}
		for _, pos := range points {
			c, err := p.position(pos)
			if err != nil {
				return g, err
			}
			g.Children = append(g.Children, Geometry{Kind: KindPoint, Coords: []Coord{c}})
		}

	case KindPolygon:
		var rings [][][]float64
		if err := json.Unmarshal(raw, &rings); err != nil {
			return g, p.jsonError(err)
		}
		return p.polygon(rings)

	case KindMultiLineString:
		var lines [][][]float64
		if err := json.Unmarshal(raw, &lines); err != nil {
			return g, p.jsonError(err)
		}
		for _, line := range lines {
			child, err := p.lineString(line)
			if err != nil {
				return g, err
			}
			g.Children = append(g.Children, child)
		}

	case KindMultiPolygon:
		var polygons [][][][]float64
		if err := json.Unmarshal(raw, &polygons); err != nil {
			return g, p.jsonError(err)
		}
		for _, rings := range polygons {
			child, err := p.polygon(rings)
			if err != nil {
				return g, err
			}
			g.Children = append(g.Children, child)
		}
	}
	return g, nil
}

func (p *geoJSONParser) lineString(line [][]float64) (Geometry, error) {
	g := Geometry{Kind: KindLineString}
	for _, pos := range line {
		c, err := p.position(pos)
		if err != nil {
			return g, err
		}
		g.Coords = append(g.Coords, c)
	}
	if len(g.Coords) == 0 {
		return g, nil
	}
	if err := checkCurve(KindLineString, g.Coords); err != nil {
		return g, p.errorf(err.code, 0, "%s", err.msg)
	}
	return g, nil
}

func (p *geoJSONParser) polygon(rings [][][]float64) (Geometry, error) {
	g := Geometry{Kind: KindPolygon}
	for _, ring := range rings {
		child := Geometry{Kind: KindLineString}
		for _, pos := range ring {
			c, err := p.position(pos)
			if err != nil {
				return g, err
			}
			child.Coords = append(child.Coords, c)
		}
		if err := checkRing(KindPolygon, child); err != nil {
			return g, p.errorf(err.code, 0, "%s", err.msg)
		}
		g.Children = append(g.Children, child)
	}
	return g, nil
}

// position validates one GeoJSON position and tracks dimensionality.
func (p *geoJSONParser) position(pos []float64) (Coord, error) {
	d, ok := dimsForSize(len(pos))
	if !ok {
		return nil, p.errorf(CodeSyntax, 0, "position has %d ordinates", len(pos))
	}
	if !p.dimsSet {
		p.dims, p.dimsSet = d, true
	} else if p.dims != d {
		return nil, p.errorf(CodeMixedDimensions, 0, "mixed coordinate dimensions %s and %s", dimsLabel(p.dims), dimsLabel(d))
	}
	return Coord(pos), nil
}

type geoJSONCoordinates struct {
	Type        string `json:"type"`
	Coordinates any    `json:"coordinates"`
}

type geoJSONCollection struct {
	Type       string            `json:"type"`
	Geometries []json.RawMessage `json:"geometries"`
}

// marshalGeoJSON encodes g as a GeoJSON geometry object. The SRID is dropped.
func marshalGeoJSON(g Geometry) ([]byte, error) {
	if g.HasExtendedKind() {
		return nil, &SerializeError{Code: CodeUnsupportedFormat, Kind: firstExtended(g), Format: FormatGeoJSON}
	}
	if g.Kind == KindGeometryCollection {
		out := geoJSONCollection{Type: g.Kind.String(), Geometries: []json.RawMessage{}}
		for _, child := range g.Children {
			b, err := marshalGeoJSON(child)
			if err != nil {
				return nil, err
			}
			out.Geometries = append(out.Geometries, b)
		}
		return json.Marshal(out)
	}
	coords, err := geoJSONCoords(g)
	if err != nil {
		return nil, err
	}
	return json.Marshal(geoJSONCoordinates{Type: g.Kind.String(), Coordinates: coords})
}

func geoJSONCoords(g Geometry) (any, error) {
	switch g.Kind {
	case KindPoint:
		if len(g.Coords) == 0 {
			return []float64{}, nil
		}
		return g.Coords[0], nil
	case KindLineString:
		return coordList(g.Coords), nil
	case KindMultiPoint:
		out := make([]Coord, 0, len(g.Children))
		for _, child := range g.Children {
			if len(child.Coords) == 0 {
				return nil, &SerializeError{Code: CodeUnsupportedFormat, Kind: KindMultiPoint, Format: FormatGeoJSON, Reason: "an empty member point"}
			}
			out = append(out, child.Coords[0])
		}
		return out, nil
	default:
		out := make([]any, 0, len(g.Children))
		for _, child := range g.Children {
			c, err := geoJSONCoords(child)
			if err != nil {
				return nil, err
			}
			out = append(out, c)
		}
		return out, nil
	}
}

func coordList(coords []Coord) []Coord {
	if coords == nil {
		return []Coord{}
	}
	return coords
}
