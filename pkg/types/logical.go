// Package types provides the database-agnostic logical field types and the
// connectors a schema can target.
package types

import "strings"

// LogicalType is the schema-level kind of a field.
// It is fixed when the schema is loaded and never changes afterwards.
type LogicalType string

// Logical type constants
const (
	// Numeric types
	TypeInt     LogicalType = "Int"
	TypeBigInt  LogicalType = "BigInt"
	TypeFloat   LogicalType = "Float"
	TypeDecimal LogicalType = "Decimal"

	// String type
	TypeString LogicalType = "String"

	// Boolean type
	TypeBoolean LogicalType = "Boolean"

	// Binary type
	TypeBytes LogicalType = "Bytes"

	// Semi-structured type
	TypeJSON LogicalType = "Json"

	// Temporal type
	TypeDateTime LogicalType = "DateTime"

	// Spatial types. Both hold the same canonical geometry; they differ in
	// the text form the field renders to (EWKT for Geometry, GeoJSON for GeoJson).
	TypeGeometry LogicalType = "Geometry"
	TypeGeoJSON  LogicalType = "GeoJson"
)

var logicalTypes = []LogicalType{
	TypeInt, TypeBigInt, TypeFloat, TypeDecimal, TypeString, TypeBoolean,
	TypeBytes, TypeJSON, TypeDateTime, TypeGeometry, TypeGeoJSON,
}

// LogicalTypes lists every logical type in a stable order.
func LogicalTypes() []LogicalType {
	return append([]LogicalType(nil), logicalTypes...)
}

// ParseLogicalType resolves a logical type name as written in schema source.
// Matching is case-insensitive.
func ParseLogicalType(name string) (LogicalType, bool) {
	for _, t := range logicalTypes {
		if strings.EqualFold(string(t), name) {
			return t, true
		}
	}
	return "", false
}

// IsNumeric returns true if the type is a numeric type (Int, BigInt, Float, Decimal).
func (t LogicalType) IsNumeric() bool {
	switch t {
	case TypeInt, TypeBigInt, TypeFloat, TypeDecimal:
		return true
	default:
		return false
	}
}

// IsInteger returns true for Int and BigInt.
func (t LogicalType) IsInteger() bool {
	return t == TypeInt || t == TypeBigInt
}

// IsSpatial returns true if the type holds a geometry value.
func (t LogicalType) IsSpatial() bool {
	return t == TypeGeometry || t == TypeGeoJSON
}

// IsTemporal returns true if the type is a date/time type.
func (t LogicalType) IsTemporal() bool {
	return t == TypeDateTime
}
