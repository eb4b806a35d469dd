// Package catalog holds the per-connector native type tables and resolves
// native type annotations into validated NativeType values.
//
// The tables are plain data; Lookup, Resolve and Validate never touch a
// database and are safe for concurrent use.
package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq/oid"

	"github.com/nnnkkk7/typebridge/pkg/geometry"
	"github.com/nnnkkk7/typebridge/pkg/types"
)

// Family groups native types that share encode/decode rules.
type Family string

// Native type families.
const (
	FamilyInt         Family = "int"
	FamilyYear        Family = "year"
	FamilyFloat       Family = "float"
	FamilyDecimal     Family = "decimal"
	FamilyMoney       Family = "money"
	FamilyChar        Family = "char"
	FamilyVarChar     Family = "varchar"
	FamilyText        Family = "text"
	FamilyBit         Family = "bit"
	FamilyVarBit      Family = "varbit"
	FamilyUUID        Family = "uuid"
	FamilyInet        Family = "inet"
	FamilyBool        Family = "bool"
	FamilyBytes       Family = "bytes"
	FamilyJSON        Family = "json"
	FamilyJSONB       Family = "jsonb"
	FamilyDate        Family = "date"
	FamilyTime        Family = "time"
	FamilyTimeTZ      Family = "timetz"
	FamilyTimestamp   Family = "timestamp"
	FamilyTimestampTZ Family = "timestamptz"
	FamilyGeometry    Family = "geometry"
	FamilyGeography   Family = "geography"
)

// IsSpatial reports whether the family stores geometry values.
func (f Family) IsSpatial() bool {
	return f == FamilyGeometry || f == FamilyGeography
}

// Arity describes how many arguments a native type annotation takes.
type Arity int

// Argument arities.
const (
	// ArityNone takes no arguments.
	ArityNone Arity = iota
	// ArityOne takes exactly one argument.
	ArityOne
	// ArityZeroOrOne takes an optional single argument.
	ArityZeroOrOne
	// ArityTuple takes either no arguments or all of them.
	ArityTuple
	// ArityPrefix takes any leading subset of its parameters.
	ArityPrefix
)

func (a Arity) String() string {
	switch a {
	case ArityNone:
		return "no arguments"
	case ArityOne:
		return "exactly one argument"
	case ArityZeroOrOne:
		return "zero or one argument"
	case ArityTuple:
		return "no arguments or all of them"
	default:
		return "leading arguments"
	}
}

// Parameter names.
const (
	ParamLength    = "length"
	ParamPrecision = "precision"
	ParamScale     = "scale"
	ParamDigits    = "digits"
	ParamSubtype   = "subtype"
	ParamSRID      = "srid"
)

// ParamKind is the syntactic kind of a parameter value.
type ParamKind int

// Parameter kinds.
const (
	ParamInt ParamKind = iota
	ParamGeometrySubtype
)

// Param is one positional parameter of a native type.
type Param struct {
	Name string
	Kind ParamKind
	Min  int
	Max  int
}

// Defaults are applied when a parameter is omitted.
type Defaults struct {
	Digits int
	SRID   geometry.SRID
}

// TypeSpec is the catalog entry for one native type of one connector.
type TypeSpec struct {
	Name     string
	Family   Family
	Width    int // bits for integers and floats
	Unsigned bool
	Arity    Arity
	Params   []Param
	Defaults Defaults
	Logical  []types.LogicalType
	OID      oid.Oid
	// GeometryFormat is the text format the connector stores spatial
	// values in.
	GeometryFormat geometry.Format
}

// Accepts reports whether the native type may annotate a field of the
// given logical type.
func (s *TypeSpec) Accepts(lt types.LogicalType) bool {
	for _, l := range s.Logical {
		if l == lt {
			return true
		}
	}
	return false
}

// NativeType is a resolved, validated native type instance. Zero Length or
// Precision means the type is unbounded.
type NativeType struct {
	Connector types.Connector
	Name      string
	Family    Family
	Width     int
	Unsigned  bool
	Length    int
	Precision int
	Scale     int
	Digits    int
	Subtype   geometry.Subtype
	SRID      geometry.SRID
	Format    geometry.Format
	OID       oid.Oid
	// Logical is the field type values decode to. When empty the family
	// decides.
	Logical types.LogicalType
}

// WithLogical returns nt bound to a field of logical type lt.
func (nt NativeType) WithLogical(lt types.LogicalType) NativeType {
	nt.Logical = lt
	return nt
}

// String renders the type the way it is written in an annotation.
func (nt NativeType) String() string {
	var args []string
	switch {
	case nt.Family.IsSpatial():
		if nt.Subtype != geometry.AnySubtype || nt.SRID.Valid {
			args = append(args, nt.Subtype.String())
		}
		if nt.SRID.Valid {
			args = append(args, strconv.Itoa(nt.SRID.ID))
		}
	case nt.Precision > 0:
		args = append(args, strconv.Itoa(nt.Precision), strconv.Itoa(nt.Scale))
	case nt.Length > 0:
		args = append(args, strconv.Itoa(nt.Length))
	}
	if len(args) == 0 {
		return nt.Name
	}
	return fmt.Sprintf("%s(%s)", nt.Name, strings.Join(args, ", "))
}

// Lookup returns the catalog entry for a native type name. Names match
// case-insensitively.
func Lookup(c types.Connector, name string) (*TypeSpec, error) {
	table, ok := tables[c]
	if !ok {
		return nil, fmt.Errorf("%w: connector %q", ErrNotFound, c)
	}
	if spec, ok := table[strings.ToLower(strings.TrimSpace(name))]; ok {
		return spec, nil
	}
	return nil, fmt.Errorf("%w: %s has no native type %q", ErrNotFound, c, name)
}

// Specs returns the catalog entries of a connector, sorted by name.
func Specs(c types.Connector) []*TypeSpec {
	table := tables[c]
	out := make([]*TypeSpec, 0, len(table))
	for _, name := range sortedNames(table) {
		out = append(out, table[name])
	}
	return out
}

// Resolve parses raw annotation arguments, applies defaults and validates
// the result.
func Resolve(c types.Connector, name string, args []string) (NativeType, error) {
	spec, err := Lookup(c, name)
	if err != nil {
		return NativeType{}, err
	}
	if err := checkArity(c, spec, len(args)); err != nil {
		return NativeType{}, err
	}

	nt := fromSpec(c, spec)
	for i, raw := range args {
		p := spec.Params[i]
		raw = strings.TrimSpace(raw)
		if p.Kind == ParamGeometrySubtype {
			st, ok := geometry.ParseSubtype(raw)
			if !ok {
				return NativeType{}, &ParameterError{Connector: c, Type: spec.Name, Param: p.Name, Value: raw, Bound: "a geometry kind"}
			}
			nt.Subtype = st
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return NativeType{}, &ParameterError{Connector: c, Type: spec.Name, Param: p.Name, Value: raw, Bound: "an integer"}
		}
		if err := checkBound(c, spec.Name, p, n); err != nil {
			return NativeType{}, err
		}
		nt.set(p.Name, n)
	}

	if err := Validate(nt); err != nil {
		return NativeType{}, err
	}
	return nt, nil
}

// MustResolve is like Resolve but panics on error. It is meant for
// package-level tables and tests.
func MustResolve(c types.Connector, name string, args ...string) NativeType {
	nt, err := Resolve(c, name, args)
	if err != nil {
		panic(err)
	}
	return nt
}

func fromSpec(c types.Connector, spec *TypeSpec) NativeType {
	return NativeType{
		Connector: c,
		Name:      spec.Name,
		Family:    spec.Family,
		Width:     spec.Width,
		Unsigned:  spec.Unsigned,
		Digits:    spec.Defaults.Digits,
		Subtype:   geometry.AnySubtype,
		SRID:      spec.Defaults.SRID,
		Format:    spec.GeometryFormat,
		OID:       spec.OID,
	}
}

func (nt *NativeType) set(param string, n int) {
	switch param {
	case ParamLength:
		nt.Length = n
	case ParamPrecision:
		nt.Precision = n
	case ParamScale:
		nt.Scale = n
	case ParamDigits:
		nt.Digits = n
	case ParamSRID:
		nt.SRID = geometry.NewSRID(n)
	}
}

func (nt NativeType) get(param string) (int, bool) {
	switch param {
	case ParamLength:
		return nt.Length, nt.Length != 0
	case ParamPrecision:
		return nt.Precision, nt.Precision != 0
	case ParamScale:
		return nt.Scale, nt.Precision != 0
	case ParamDigits:
		return nt.Digits, true
	case ParamSRID:
		return nt.SRID.ID, nt.SRID.Valid
	}
	return 0, false
}

func checkArity(c types.Connector, spec *TypeSpec, n int) error {
	want := len(spec.Params)
	ok := false
	switch spec.Arity {
	case ArityNone:
		ok = n == 0
	case ArityOne:
		ok = n == 1
	case ArityZeroOrOne:
		ok = n <= 1
	case ArityTuple:
		ok = n == 0 || n == want
	case ArityPrefix:
		ok = n <= want
	}
	if ok && n <= want {
		return nil
	}
	return &ParameterError{
		Connector: c,
		Type:      spec.Name,
		Param:     "arguments",
		Value:     strconv.Itoa(n),
		Bound:     spec.Arity.String(),
	}
}

// Validate re-checks every declared parameter of nt against the bounds of
// its catalog entry.
func Validate(nt NativeType) error {
	spec, err := Lookup(nt.Connector, nt.Name)
	if err != nil {
		return err
	}
	for _, p := range spec.Params {
		if p.Kind != ParamInt {
			continue
		}
		v, ok := nt.get(p.Name)
		if !ok {
			continue
		}
		if err := checkBound(nt.Connector, spec.Name, p, v); err != nil {
			return err
		}
	}
	if nt.Precision > 0 && nt.Scale > nt.Precision {
		return &ParameterError{
			Connector: nt.Connector,
			Type:      spec.Name,
			Param:     ParamScale,
			Value:     strconv.Itoa(nt.Scale),
			Bound:     fmt.Sprintf("0..%d (precision)", nt.Precision),
		}
	}
	return nil
}

func checkBound(c types.Connector, typeName string, p Param, v int) error {
	if v >= p.Min && v <= p.Max {
		return nil
	}
	return &ParameterError{
		Connector: c,
		Type:      typeName,
		Param:     p.Name,
		Value:     strconv.Itoa(v),
		Bound:     fmt.Sprintf("%d..%d", p.Min, p.Max),
	}
}

// Default returns the native type a field of the given logical type gets
// when it carries no annotation.
func Default(c types.Connector, lt types.LogicalType) (NativeType, bool) {
	d, ok := defaults[c][lt]
	if !ok {
		return NativeType{}, false
	}
	nt, err := Resolve(c, d.name, d.args)
	if err != nil {
		return NativeType{}, false
	}
	return nt.WithLogical(lt), true
}
