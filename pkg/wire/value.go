// Package wire defines the driver-facing value shapes shared by the native
// and bridged connector backends, and their JSON framing.
package wire

import (
	"fmt"
	"time"
)

// Type is the wire type tag of a value or result column.
type Type string

// Wire types.
const (
	TypeNull     Type = "null"
	TypeInt32    Type = "int32"
	TypeInt64    Type = "int64"
	TypeUint64   Type = "uint64"
	TypeFloat32  Type = "float32"
	TypeFloat64  Type = "float64"
	TypeNumeric  Type = "numeric"
	TypeText     Type = "text"
	TypeBoolean  Type = "boolean"
	TypeBytes    Type = "bytes"
	TypeJSON     Type = "json"
	TypeDate     Type = "date"
	TypeTime     Type = "time"
	TypeDateTime Type = "datetime"
	TypeUUID     Type = "uuid"
	TypeGeometry Type = "geometry"
)

// Value is a typed value ready for a driver. V holds the Go representation
// of Type:
//
//	null                         nil
//	int32, int64, uint64         int32, int64, uint64
//	float32, float64             float32, float64
//	numeric, text, json, uuid    string
//	geometry                     string (EWKT or GeoJSON text)
//	boolean                      bool
//	bytes                        []byte
//	date, time, datetime         time.Time in UTC
type Value struct {
	Type Type
	V    any
}

// Null is the wire null.
var Null = Value{Type: TypeNull}

// IsNull reports whether v is the wire null.
func (v Value) IsNull() bool { return v.Type == TypeNull || v.V == nil }

func (v Value) String() string {
	if v.IsNull() {
		return "null"
	}
	return fmt.Sprintf("%s(%v)", v.Type, v.V)
}

// Int32 returns an int32 wire value.
func Int32(i int32) Value { return Value{Type: TypeInt32, V: i} }

// Int64 returns an int64 wire value.
func Int64(i int64) Value { return Value{Type: TypeInt64, V: i} }

// Uint64 returns a uint64 wire value.
func Uint64(i uint64) Value { return Value{Type: TypeUint64, V: i} }

// Float32 returns a float32 wire value.
func Float32(f float32) Value { return Value{Type: TypeFloat32, V: f} }

// Float64 returns a float64 wire value.
func Float64(f float64) Value { return Value{Type: TypeFloat64, V: f} }

// Numeric returns a decimal wire value in plain notation.
func Numeric(s string) Value { return Value{Type: TypeNumeric, V: s} }

// Text returns a text wire value.
func Text(s string) Value { return Value{Type: TypeText, V: s} }

// Boolean returns a boolean wire value.
func Boolean(b bool) Value { return Value{Type: TypeBoolean, V: b} }

// Bytes returns a bytes wire value holding a copy of b.
func Bytes(b []byte) Value {
	return Value{Type: TypeBytes, V: append([]byte{}, b...)}
}

// JSON returns a JSON wire value.
func JSON(s string) Value { return Value{Type: TypeJSON, V: s} }

// Date returns a date wire value at midnight UTC.
func Date(t time.Time) Value {
	t = t.UTC()
	return Value{Type: TypeDate, V: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// Time returns a time-of-day wire value on 1970-01-01 UTC.
func Time(t time.Time) Value {
	t = t.UTC()
	return Value{Type: TypeTime, V: time.Date(1970, 1, 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)}
}

// DateTime returns a timestamp wire value in UTC.
func DateTime(t time.Time) Value { return Value{Type: TypeDateTime, V: t.UTC()} }

// UUID returns a uuid wire value in canonical text form.
func UUID(s string) Value { return Value{Type: TypeUUID, V: s} }

// Geometry returns a geometry wire value holding EWKT or GeoJSON text.
func Geometry(s string) Value { return Value{Type: TypeGeometry, V: s} }

// Args returns the driver arguments of vals for database/sql. Time-of-day
// values are passed as text so drivers bind them to TIME columns.
func Args(vals []Value) []any {
	args := make([]any, len(vals))
	for i, v := range vals {
		args[i] = v.Arg()
	}
	return args
}

// Arg returns the database/sql argument for v.
func (v Value) Arg() any {
	if v.IsNull() {
		return nil
	}
	switch v.Type {
	case TypeTime:
		if t, ok := v.V.(time.Time); ok {
			return t.Format(timeLayout)
		}
	case TypeDate:
		if t, ok := v.V.(time.Time); ok {
			return t.Format(dateLayout)
		}
	case TypeBytes:
		if b, ok := v.V.([]byte); ok {
			return append([]byte{}, b...)
		}
	}
	return v.V
}
