// Package value defines the canonical in-memory values exchanged between
// the query engine and the value codec. Values are immutable once built.
package value

import (
	"encoding/base64"
	"strconv"

	"github.com/nnnkkk7/typebridge/pkg/geometry"
)

// Kind identifies the variant of a Value.
type Kind int

// Value kinds.
const (
	KindNull Kind = iota
	KindInt
	KindFloat
	KindDecimal
	KindString
	KindBool
	KindBytes
	KindJSON
	KindDateTime
	KindGeometry
)

var kindNames = map[Kind]string{
	KindNull:     "Null",
	KindInt:      "Int",
	KindFloat:    "Float",
	KindDecimal:  "Decimal",
	KindString:   "String",
	KindBool:     "Boolean",
	KindBytes:    "Bytes",
	KindJSON:     "Json",
	KindDateTime: "DateTime",
	KindGeometry: "Geometry",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is a canonical value.
type Value interface {
	Kind() Kind
	String() string
}

// Null is the absent value.
type Null struct{}

// Kind implements Value.
func (Null) Kind() Kind { return KindNull }

func (Null) String() string { return "NULL" }

// Int is a signed integer value.
type Int int64

// Kind implements Value.
func (Int) Kind() Kind { return KindInt }

func (v Int) String() string { return strconv.FormatInt(int64(v), 10) }

// Float is a double precision value.
type Float float64

// Kind implements Value.
func (Float) Kind() Kind { return KindFloat }

func (v Float) String() string { return strconv.FormatFloat(float64(v), 'g', -1, 64) }

// String is a text value.
type String string

// Kind implements Value.
func (String) Kind() Kind { return KindString }

func (v String) String() string { return string(v) }

// Bool is a boolean value.
type Bool bool

// Kind implements Value.
func (Bool) Kind() Kind { return KindBool }

func (v Bool) String() string { return strconv.FormatBool(bool(v)) }

// Bytes is an opaque byte string. Codecs copy it on the way in and out.
type Bytes []byte

// Kind implements Value.
func (Bytes) Kind() Kind { return KindBytes }

func (v Bytes) String() string { return base64.StdEncoding.EncodeToString(v) }

// Geometry is a spatial value together with the text format the field
// renders to.
type Geometry struct {
	G      geometry.Geometry
	Format geometry.Format
}

// NewGeometry wraps g for a field rendering as format.
func NewGeometry(g geometry.Geometry, format geometry.Format) Geometry {
	return Geometry{G: g, Format: format}
}

// Kind implements Value.
func (Geometry) Kind() Kind { return KindGeometry }

// String renders the geometry in its preferred format. Geometries that
// cannot be written as GeoJSON fall back to EWKT; malformed ones render
// their validation error.
func (v Geometry) String() string {
	s, err := geometry.Serialize(v.G, v.Format)
	if err != nil {
		return v.G.String()
	}
	return s
}

// IsNull reports whether v is nil or Null.
func IsNull(v Value) bool {
	return v == nil || v.Kind() == KindNull
}
