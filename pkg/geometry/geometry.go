// Package geometry provides the canonical spatial value and its textual
// encodings: WKT, EWKT (WKT with an SRID=<n>; prefix) and GeoJSON.
//
// All three formats parse into the same Geometry tree and serialize from it.
// The package is pure: no state, no locks, safe for concurrent use.
package geometry

import (
	"fmt"
	"strings"
)

// Kind is a geometry kind. KindGeometry is only meaningful as a subtype
// constraint ("any kind"); parsed values always carry a concrete kind.
type Kind int

// Geometry kinds.
const (
	KindGeometry Kind = iota
	KindPoint
	KindLineString
	KindPolygon
	KindMultiPoint
	KindMultiLineString
	KindMultiPolygon
	KindGeometryCollection
	KindCircularString
	KindCompoundCurve
	KindCurvePolygon
	KindMultiCurve
	KindMultiSurface
	KindPolyhedralSurface
	KindTriangle
	KindTIN
)

type kindInfo struct {
	name     string // schema / GeoJSON spelling
	wkt      string
	extended bool // no GeoJSON representation
}

var kinds = map[Kind]kindInfo{
	KindGeometry:           {name: "Geometry", wkt: "GEOMETRY"},
	KindPoint:              {name: "Point", wkt: "POINT"},
	KindLineString:         {name: "LineString", wkt: "LINESTRING"},
	KindPolygon:            {name: "Polygon", wkt: "POLYGON"},
	KindMultiPoint:         {name: "MultiPoint", wkt: "MULTIPOINT"},
	KindMultiLineString:    {name: "MultiLineString", wkt: "MULTILINESTRING"},
	KindMultiPolygon:       {name: "MultiPolygon", wkt: "MULTIPOLYGON"},
	KindGeometryCollection: {name: "GeometryCollection", wkt: "GEOMETRYCOLLECTION"},
	KindCircularString:     {name: "CircularString", wkt: "CIRCULARSTRING", extended: true},
	KindCompoundCurve:      {name: "CompoundCurve", wkt: "COMPOUNDCURVE", extended: true},
	KindCurvePolygon:       {name: "CurvePolygon", wkt: "CURVEPOLYGON", extended: true},
	KindMultiCurve:         {name: "MultiCurve", wkt: "MULTICURVE", extended: true},
	KindMultiSurface:       {name: "MultiSurface", wkt: "MULTISURFACE", extended: true},
	KindPolyhedralSurface:  {name: "PolyhedralSurface", wkt: "POLYHEDRALSURFACE", extended: true},
	KindTriangle:           {name: "Triangle", wkt: "TRIANGLE", extended: true},
	KindTIN:                {name: "Tin", wkt: "TIN", extended: true},
}

// String returns the schema spelling of the kind, e.g. "MultiPolygon".
func (k Kind) String() string {
	if info, ok := kinds[k]; ok {
		return info.name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// WKTName returns the upper-case WKT keyword of the kind.
func (k Kind) WKTName() string {
	return kinds[k].wkt
}

// IsExtended reports whether the kind is a curve/surface kind outside the
// GeoJSON model.
func (k Kind) IsExtended() bool {
	return kinds[k].extended
}

// kindFromWKT resolves an upper-case WKT keyword.
func kindFromWKT(word string) (Kind, bool) {
	for k, info := range kinds {
		if k != KindGeometry && info.wkt == word {
			return k, true
		}
	}
	return 0, false
}

// Dims is the coordinate dimensionality of a geometry.
type Dims uint8

// Coordinate layouts.
const (
	XY Dims = iota
	XYZ
	XYM
	XYZM
)

// Size returns the number of ordinates per coordinate.
func (d Dims) Size() int {
	switch d {
	case XYZ, XYM:
		return 3
	case XYZM:
		return 4
	default:
		return 2
	}
}

// HasZ reports whether the layout carries a Z ordinate.
func (d Dims) HasZ() bool { return d == XYZ || d == XYZM }

// HasM reports whether the layout carries an M ordinate.
func (d Dims) HasM() bool { return d == XYM || d == XYZM }

func (d Dims) String() string {
	switch d {
	case XYZ:
		return "Z"
	case XYM:
		return "M"
	case XYZM:
		return "ZM"
	default:
		return ""
	}
}

func dimsForSize(n int) (Dims, bool) {
	switch n {
	case 2:
		return XY, true
	case 3:
		return XYZ, true
	case 4:
		return XYZM, true
	default:
		return XY, false
	}
}

// SRID is a spatial reference identifier. The zero value means
// "unspecified", which is distinct from any explicit identifier.
type SRID struct {
	ID    int
	Valid bool
}

// NewSRID returns an explicit SRID.
func NewSRID(id int) SRID {
	return SRID{ID: id, Valid: true}
}

// WGS84 is the well-known default SRID for geography values.
var WGS84 = NewSRID(4326)

func (s SRID) String() string {
	if !s.Valid {
		return "unspecified"
	}
	return fmt.Sprintf("%d", s.ID)
}

// Family selects planar (geometry) or ellipsoidal (geography) semantics.
type Family int

// Spatial families.
const (
	FamilyGeometry Family = iota
	FamilyGeography
)

func (f Family) String() string {
	if f == FamilyGeography {
		return "geography"
	}
	return "geometry"
}

// Format is a textual geometry encoding.
type Format int

// Supported text formats.
const (
	FormatWKT Format = iota
	FormatEWKT
	FormatGeoJSON
)

func (f Format) String() string {
	switch f {
	case FormatEWKT:
		return "EWKT"
	case FormatGeoJSON:
		return "GeoJSON"
	default:
		return "WKT"
	}
}

// Coord is a single position with Dims.Size() ordinates.
type Coord []float64

// Equal reports whether two coordinates are ordinate-for-ordinate identical.
func (c Coord) Equal(o Coord) bool {
	if len(c) != len(o) {
		return false
	}
	for i := range c {
		if c[i] != o[i] {
			return false
		}
	}
	return true
}

// Geometry is the canonical spatial value shared by every text format.
//
// Points and simple curves (LineString, CircularString, and polygon rings)
// hold their positions in Coords. Every composite kind holds its members in
// Children: polygon rings are LineString children, multi-geometries hold
// their parts, curve polygons hold curves. Only the root carries an SRID.
// An empty geometry has neither Coords nor Children.
type Geometry struct {
	Kind     Kind
	SRID     SRID
	Dims     Dims
	Coords   []Coord
	Children []Geometry
}

// IsEmpty reports whether the geometry has no positions.
func (g Geometry) IsEmpty() bool {
	return len(g.Coords) == 0 && len(g.Children) == 0
}

// WithSRID returns a copy of g carrying srid.
func (g Geometry) WithSRID(srid SRID) Geometry {
	g.SRID = srid
	return g
}

// HasExtendedKind reports whether g or any of its members is an extended
// curve/surface kind.
func (g Geometry) HasExtendedKind() bool {
	if g.Kind.IsExtended() {
		return true
	}
	for _, c := range g.Children {
		if c.HasExtendedKind() {
			return true
		}
	}
	return false
}

// walkCoords calls fn for every coordinate in g, depth first.
func (g Geometry) walkCoords(fn func(Coord) error) error {
	for _, c := range g.Coords {
		if err := fn(c); err != nil {
			return err
		}
	}
	for _, child := range g.Children {
		if err := child.walkCoords(fn); err != nil {
			return err
		}
	}
	return nil
}

func (g Geometry) hasPositions() bool {
	if len(g.Coords) > 0 {
		return true
	}
	for _, child := range g.Children {
		if child.hasPositions() {
			return true
		}
	}
	return false
}

// setDims stamps d on g and every member.
func (g *Geometry) setDims(d Dims) {
	g.Dims = d
	for i := range g.Children {
		g.Children[i].setDims(d)
	}
}

// Subtype is a kind constraint declared on a spatial column. KindGeometry
// accepts every kind. When HasDims is set the value's dimensions must match.
type Subtype struct {
	Kind    Kind
	Dims    Dims
	HasDims bool
}

// AnySubtype accepts every geometry.
var AnySubtype = Subtype{Kind: KindGeometry}

func (s Subtype) String() string {
	if s.HasDims {
		return s.Kind.String() + s.Dims.String()
	}
	return s.Kind.String()
}

// Accepts reports whether g satisfies the constraint.
func (s Subtype) Accepts(g Geometry) bool {
	if s.Kind != KindGeometry && s.Kind != g.Kind {
		return false
	}
	return !s.HasDims || s.Dims == g.Dims
}

// ParseSubtype resolves a subtype constraint as written in a native type
// annotation, e.g. "Point", "MultiPolygon", "PolyhedralSurfaceZ" or
// "Geometry" (any kind). Z, M and ZM suffixes constrain dimensions.
func ParseSubtype(name string) (Subtype, bool) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	if upper == "" {
		return Subtype{}, false
	}
	if upper == "GEOMETRY" {
		return AnySubtype, true
	}
	if k, ok := kindFromWKT(upper); ok {
		return Subtype{Kind: k}, true
	}
	for _, suffix := range []struct {
		tag  string
		dims Dims
	}{{"ZM", XYZM}, {"Z", XYZ}, {"M", XYM}} {
		base, found := strings.CutSuffix(upper, suffix.tag)
		if !found {
			continue
		}
		if base == "GEOMETRY" {
			return Subtype{Kind: KindGeometry, Dims: suffix.dims, HasDims: true}, true
		}
		if k, ok := kindFromWKT(base); ok {
			return Subtype{Kind: k, Dims: suffix.dims, HasDims: true}, true
		}
	}
	return Subtype{}, false
}
