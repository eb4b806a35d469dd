package codec

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/nnnkkk7/typebridge/pkg/catalog"
	"github.com/nnnkkk7/typebridge/pkg/geometry"
	"github.com/nnnkkk7/typebridge/pkg/types"
	"github.com/nnnkkk7/typebridge/pkg/value"
	"github.com/nnnkkk7/typebridge/pkg/wire"
)

func pg(name string, args ...string) catalog.NativeType {
	return catalog.MustResolve(types.Postgres, name, args...)
}

func mysql(name string, args ...string) catalog.NativeType {
	return catalog.MustResolve(types.MySQL, name, args...)
}

func utc(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

func point(x, y float64) geometry.Geometry {
	return geometry.Geometry{Kind: geometry.KindPoint, Coords: []geometry.Coord{{x, y}}}
}

func TestEncode(t *testing.T) {
	tests := []struct {
		name string
		nt   catalog.NativeType
		in   value.Value
		want wire.Value
	}{
		{name: "null", nt: pg("Integer"), in: value.Null{}, want: wire.Null},
		{name: "nil value", nt: pg("Integer"), in: nil, want: wire.Null},
		{name: "smallint", nt: pg("SmallInt"), in: value.Int(-32768), want: wire.Int32(-32768)},
		{name: "integer from decimal", nt: pg("Integer"), in: value.MustDecimal("42.000"), want: wire.Int32(42)},
		{name: "bigint from literal", nt: pg("BigInt"), in: value.String("9223372036854775807"), want: wire.Int64(math.MaxInt64)},
		{name: "oid", nt: pg("Oid"), in: value.Int(4294967295), want: wire.Int64(4294967295)},
		{name: "mysql tinyint accepts boolean", nt: mysql("TinyInt"), in: value.Bool(true), want: wire.Int32(1)},
		{name: "mysql unsigned bigint", nt: mysql("UnsignedBigInt"), in: value.MustDecimal("18446744073709551615"), want: wire.Uint64(math.MaxUint64)},
		{name: "mysql year", nt: mysql("Year"), in: value.Int(2024), want: wire.Int32(2024)},
		{name: "mysql year from datetime", nt: mysql("Year"), in: value.MustDateTime("1999-12-31T23:00:00-02:00"), want: wire.Int32(2000)},
		{name: "real", nt: pg("Real"), in: value.Float(1.5), want: wire.Float32(1.5)},
		{name: "double from int", nt: pg("DoublePrecision"), in: value.Int(3), want: wire.Float64(3)},
		{name: "decimal rounds to declared scale", nt: pg("Decimal", "2", "1"), in: value.MustDecimal("3.1234"), want: wire.Numeric("3.1")},
		{name: "decimal rounds half up", nt: pg("Decimal", "5", "2"), in: value.MustDecimal("2.345"), want: wire.Numeric("2.35")},
		{name: "decimal pads to scale", nt: pg("Decimal", "5", "2"), in: value.Int(7), want: wire.Numeric("7.00")},
		{name: "unconstrained decimal passes through", nt: pg("Decimal"), in: value.MustDecimal("1.23456789012345678901234567890"), want: wire.Numeric("1.23456789012345678901234567890")},
		{name: "money", nt: pg("Money"), in: value.String("$1,234.5"), want: wire.Numeric("1234.50")},
		{name: "snowflake number accepts int", nt: catalog.MustResolve(types.Snowflake, "Number", "38", "0"), in: value.Int(42), want: wire.Numeric("42")},
		{name: "char is not padded", nt: pg("Char", "5"), in: value.String("ab"), want: wire.Text("ab")},
		{name: "varchar counts runes", nt: pg("VarChar", "3"), in: value.String("äöü"), want: wire.Text("äöü")},
		{name: "bit", nt: pg("Bit", "3"), in: value.String("101"), want: wire.Text("101")},
		{name: "varbit", nt: pg("VarBit", "8"), in: value.String("10"), want: wire.Text("10")},
		{name: "mysql bit(1) accepts boolean", nt: mysql("Bit", "1"), in: value.Bool(true), want: wire.Bytes([]byte{1})},
		{name: "mysql bit packs big endian", nt: mysql("Bit", "12"), in: value.String("100000000001"), want: wire.Bytes([]byte{0x08, 0x01})},
		{name: "uuid normalized", nt: pg("Uuid"), in: value.String("5E1E5F0E-4C5A-4F1F-9D3A-1B2C3D4E5F60"), want: wire.UUID("5e1e5f0e-4c5a-4f1f-9d3a-1b2c3d4e5f60")},
		{name: "inet prefix", nt: pg("Inet"), in: value.String("10.1.0.0/16"), want: wire.Text("10.1.0.0/16")},
		{name: "inet address", nt: pg("Inet"), in: value.String("2001:DB8::1"), want: wire.Text("2001:db8::1")},
		{name: "boolean from literal", nt: pg("Boolean"), in: value.String("t"), want: wire.Boolean(true)},
		{name: "bytes", nt: pg("ByteA"), in: value.Bytes{0, 1, 2}, want: wire.Bytes([]byte{0, 1, 2})},
		{name: "json keeps literal", nt: pg("Json"), in: value.String(`{"b": 1, "a": 2}`), want: wire.JSON(`{"b": 1, "a": 2}`)},
		{name: "jsonb normalizes literal", nt: pg("JsonB"), in: value.String(`{"b": 1, "a": 2}`), want: wire.JSON(`{"a":2,"b":1}`)},
		{name: "json tree", nt: pg("JsonB"), in: value.MustJSON(`[1, {"x": null}]`), want: wire.JSON(`[1,{"x":null}]`)},
		{
			name: "time drops date and offset",
			nt:   pg("Time", "3"),
			in:   value.String("1111-11-11T13:02:20.321+03:00"),
			want: wire.Time(utc("1970-01-01T10:02:20.321Z")),
		},
		{
			name: "timestamp truncates fractional digits",
			nt:   pg("Timestamp", "3"),
			in:   value.MustDateTime("2024-03-01T10:20:30.123999+02:00"),
			want: wire.DateTime(utc("2024-03-01T08:20:30.123Z")),
		},
		{
			name: "date takes the UTC calendar day",
			nt:   pg("Date"),
			in:   value.MustDateTime("2024-03-01T01:00:00+03:00"),
			want: wire.Date(utc("2024-02-29T00:00:00Z")),
		},
		{
			name: "snowflake timestamp keeps nanoseconds",
			nt:   catalog.MustResolve(types.Snowflake, "TimestampNtz"),
			in:   value.MustDateTime("2024-03-01T10:20:30.123456789Z"),
			want: wire.DateTime(utc("2024-03-01T10:20:30.123456789Z")),
		},
		{
			name: "geometry literal keeps SRID",
			nt:   pg("Geometry"),
			in:   value.String("SRID=3857;POINT(1 2)"),
			want: wire.Geometry("SRID=3857;POINT(1 2)"),
		},
		{
			name: "geography inherits column SRID",
			nt:   pg("Geography", "Point"),
			in:   value.NewGeometry(point(13.4, 52.5), geometry.FormatEWKT),
			want: wire.Geometry("SRID=4326;POINT(13.4 52.5)"),
		},
		{
			name: "geojson literal into point column",
			nt:   pg("Geometry", "Point", "3857"),
			in:   value.String(`{"type":"Point","coordinates":[1,2]}`),
			want: wire.Geometry("SRID=3857;POINT(1 2)"),
		},
		{
			name: "sqlite stores geojson",
			nt:   catalog.MustResolve(types.SQLite, "Geometry"),
			in:   value.String("SRID=4326;POINT(1 2)"),
			want: wire.Geometry(`{"type":"Point","coordinates":[1,2]}`),
		},
		{
			name: "dimension constrained subtype",
			nt:   pg("Geometry", "PolyhedralSurfaceZ"),
			in:   value.String("POLYHEDRALSURFACE Z (((0 0 0,0 1 0,1 1 0,0 0 0)))"),
			want: wire.Geometry("POLYHEDRALSURFACE(((0 0 0,0 1 0,1 1 0,0 0 0)))"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.nt, tt.in)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Encode() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEncode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		nt      catalog.NativeType
		in      value.Value
		wantErr error
	}{
		{name: "smallint overflow", nt: pg("SmallInt"), in: value.Int(32768), wantErr: ErrOutOfRange},
		{name: "integer overflow", nt: pg("Integer"), in: value.Int(math.MaxInt32 + 1), wantErr: ErrOutOfRange},
		{name: "bigint literal overflow", nt: pg("BigInt"), in: value.String("9223372036854775808"), wantErr: ErrOutOfRange},
		{name: "unsigned negative", nt: mysql("UnsignedTinyInt"), in: value.Int(-1), wantErr: ErrOutOfRange},
		{name: "mediumint overflow", nt: mysql("MediumInt"), in: value.Int(8388608), wantErr: ErrOutOfRange},
		{name: "unsigned mediumint max", nt: mysql("UnsignedMediumInt"), in: value.Int(16777216), wantErr: ErrOutOfRange},
		{name: "unsigned bigint overflow", nt: mysql("UnsignedBigInt"), in: value.String("18446744073709551616"), wantErr: ErrOutOfRange},
		{name: "fractional integer", nt: pg("Integer"), in: value.MustDecimal("1.5"), wantErr: ErrInvalidValue},
		{name: "year out of range", nt: mysql("Year"), in: value.Int(1900), wantErr: ErrOutOfRange},
		{name: "real overflow", nt: pg("Real"), in: value.Float(1e39), wantErr: ErrOutOfRange},
		{name: "decimal precision exceeded", nt: pg("Decimal", "5", "2"), in: value.MustDecimal("1234.5"), wantErr: ErrOutOfRange},
		{name: "decimal rounding overflows precision", nt: pg("Decimal", "2", "1"), in: value.MustDecimal("9.96"), wantErr: ErrOutOfRange},
		{name: "varchar too long", nt: pg("VarChar", "3"), in: value.String("abcd"), wantErr: ErrOutOfRange},
		{name: "bit exact length", nt: pg("Bit", "3"), in: value.String("10"), wantErr: ErrOutOfRange},
		{name: "bit digits", nt: pg("Bit", "3"), in: value.String("102"), wantErr: ErrInvalidValue},
		{name: "bad uuid", nt: pg("Uuid"), in: value.String("not-a-uuid"), wantErr: ErrInvalidValue},
		{name: "bad inet", nt: pg("Inet"), in: value.String("300.1.1.1"), wantErr: ErrInvalidValue},
		{name: "boolean out of range", nt: pg("Boolean"), in: value.Int(2), wantErr: ErrOutOfRange},
		{name: "binary too long", nt: mysql("Binary", "2"), in: value.Bytes{1, 2, 3}, wantErr: ErrOutOfRange},
		{name: "invalid json literal", nt: pg("JsonB"), in: value.String(`{"a":`), wantErr: ErrInvalidValue},
		{name: "invalid datetime literal", nt: pg("Timestamp"), in: value.String("yesterday"), wantErr: ErrInvalidValue},
		{name: "wrong canonical kind", nt: pg("Text"), in: value.Int(1), wantErr: ErrInvalidValue},
		{
			name:    "geojson linestring into point column",
			nt:      pg("Geometry", "Point"),
			in:      value.String(`{"type":"LineString","coordinates":[[0,0],[1,1]]}`),
			wantErr: ErrSubtypeMismatch,
		},
		{
			name:    "collection into point column",
			nt:      pg("Geometry", "Point"),
			in:      value.String("GEOMETRYCOLLECTION(POINT(1 2))"),
			wantErr: ErrSubtypeMismatch,
		},
		{
			name:    "missing dimension",
			nt:      pg("Geometry", "PolyhedralSurfaceZ"),
			in:      value.String("POLYHEDRALSURFACE(((0 0,0 1,1 1,0 0)))"),
			wantErr: ErrSubtypeMismatch,
		},
		{
			name:    "SRID differs from column",
			nt:      pg("Geography"),
			in:      value.String("SRID=3857;POINT(1 2)"),
			wantErr: ErrSRIDMismatch,
		},
		{
			name:    "extended kind into geojson storage",
			nt:      catalog.MustResolve(types.SQLite, "Geometry"),
			in:      value.String("CIRCULARSTRING(0 0,1 1,2 0)"),
			wantErr: ErrUnsupportedFormat,
		},
		{
			name:    "empty multipoint member into geojson storage",
			nt:      catalog.MustResolve(types.SQLite, "Geometry"),
			in:      value.String("MULTIPOINT(EMPTY,1 2)"),
			wantErr: geometry.ErrUnsupportedFormat,
		},
		{
			name:    "unclosed ring",
			nt:      pg("Geometry"),
			in:      value.String("POLYGON((0 0,1 0,1 1,0 1))"),
			wantErr: geometry.ErrUnclosedRing,
		},
		{
			name:    "geography bounds",
			nt:      pg("Geography"),
			in:      value.NewGeometry(point(181, 0), geometry.FormatEWKT),
			wantErr: geometry.ErrOutOfBounds,
		},
		{
			name: "built point with members",
			nt:   pg("Geometry"),
			in: value.NewGeometry(geometry.Geometry{
				Kind:     geometry.KindPoint,
				Children: []geometry.Geometry{point(1, 2)},
			}, geometry.FormatEWKT),
			wantErr: geometry.ErrSyntax,
		},
		{
			name: "built geography position with one ordinate",
			nt:   pg("Geography"),
			in: value.NewGeometry(geometry.Geometry{
				Kind:   geometry.KindPoint,
				Coords: []geometry.Coord{{5}},
			}, geometry.FormatEWKT),
			wantErr: geometry.ErrMixedDimensions,
		},
		{
			name: "built unclosed polygon",
			nt:   pg("Geometry"),
			in: value.NewGeometry(geometry.Geometry{
				Kind: geometry.KindPolygon,
				Children: []geometry.Geometry{{
					Kind:   geometry.KindLineString,
					Coords: []geometry.Coord{{0, 0}, {1, 0}, {1, 1}, {2, 2}},
				}},
			}, geometry.FormatEWKT),
			wantErr: geometry.ErrUnclosedRing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Encode(tt.nt, tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Encode() error = %v, want %v", err, tt.wantErr)
			}
			var ee *EncodeError
			if !errors.As(err, &ee) {
				t.Errorf("Encode() error = %T, want *EncodeError", err)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		nt   catalog.NativeType
		raw  any
		want value.Value
	}{
		{name: "null", nt: pg("Text"), raw: nil, want: value.Null{}},
		{name: "int from int32", nt: pg("Integer"), raw: int32(7), want: value.Int(7)},
		{name: "int from text", nt: pg("BigInt"), raw: []byte("-12"), want: value.Int(-12)},
		{name: "int from integral float", nt: pg("BigInt"), raw: float64(12), want: value.Int(12)},
		{name: "unsigned beyond int64", nt: mysql("UnsignedBigInt"), raw: uint64(math.MaxUint64), want: value.MustDecimal("18446744073709551615")},
		{name: "float32 widened shortest", nt: pg("Real"), raw: float32(1.1), want: value.Float(1.1)},
		{name: "decimal keeps driver scale", nt: pg("Decimal", "10", "2"), raw: "3.1", want: value.MustDecimal("3.1")},
		{name: "decimal trims zeros past scale", nt: pg("Decimal", "10", "2"), raw: "3.1000", want: value.MustDecimal("3.10")},
		{name: "decimal keeps significant digits", nt: pg("Decimal", "10", "2"), raw: "3.1234", want: value.MustDecimal("3.1234")},
		{name: "money strips symbols", nt: pg("Money"), raw: "-$1,234.50", want: value.MustDecimal("-1234.50")},
		{name: "char keeps padding", nt: pg("Char", "5"), raw: "ab   ", want: value.String("ab   ")},
		{name: "mysql bit(1) to boolean", nt: mysql("Bit", "1"), raw: []byte{1}, want: value.Bool(true)},
		{name: "mysql bit to bit string", nt: mysql("Bit", "12"), raw: []byte{0x08, 0x01}, want: value.String("100000000001")},
		{name: "uuid from bytes", nt: pg("Uuid"), raw: [16]byte{0x5e, 0x1e, 0x5f, 0x0e, 0x4c, 0x5a, 0x4f, 0x1f, 0x9d, 0x3a, 0x1b, 0x2c, 0x3d, 0x4e, 0x5f, 0x60}, want: value.String("5e1e5f0e-4c5a-4f1f-9d3a-1b2c3d4e5f60")},
		{name: "boolean from text", nt: pg("Boolean"), raw: "f", want: value.Bool(false)},
		{name: "mysql bit from int", nt: mysql("Bit", "2"), raw: int64(1), want: value.String("01")},
		{name: "bytes copied", nt: pg("ByteA"), raw: []byte{9, 8}, want: value.Bytes{9, 8}},
		{name: "jsonb binary format", nt: pg("JsonB"), raw: append([]byte{jsonbVersion}, `{"a":1}`...), want: value.MustJSON(`{"a":1}`)},
		{name: "json text", nt: pg("Json"), raw: `[true, 1.50]`, want: value.MustJSON(`[true,1.50]`)},
		{name: "naive timestamp is UTC", nt: pg("Timestamp"), raw: "2024-03-01 10:20:30.5", want: value.NewDateTime(utc("2024-03-01T10:20:30.5Z"))},
		{name: "aware timestamp to UTC", nt: pg("Timestamptz"), raw: time.Date(2024, 3, 1, 12, 0, 0, 0, time.FixedZone("", 2*3600)), want: value.NewDateTime(utc("2024-03-01T10:00:00Z"))},
		{name: "time on epoch date", nt: pg("Time"), raw: "10:02:20.321", want: value.NewDateTime(utc("1970-01-01T10:02:20.321Z"))},
		{name: "timetz with offset", nt: pg("Timetz"), raw: "13:02:20+03", want: value.NewDateTime(utc("1970-01-01T10:02:20Z"))},
		{name: "date", nt: pg("Date"), raw: time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), want: value.NewDateTime(utc("2024-02-29T00:00:00Z"))},
		{
			name: "geometry applies column SRID",
			nt:   pg("Geometry", "Point", "3857"),
			raw:  "POINT(1 2)",
			want: value.NewGeometry(point(1, 2).WithSRID(geometry.NewSRID(3857)), geometry.FormatEWKT),
		},
		{
			name: "geojson remembers format",
			nt:   catalog.MustResolve(types.SQLite, "Geometry"),
			raw:  []byte(`{"type":"Point","coordinates":[1,2]}`),
			want: value.NewGeometry(point(1, 2), geometry.FormatGeoJSON),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.nt, tt.raw)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		nt   catalog.NativeType
		raw  any
	}{
		{name: "int from text", nt: pg("Integer"), raw: "twelve"},
		{name: "int from fraction", nt: pg("Integer"), raw: 1.5},
		{name: "decimal from bool", nt: pg("Decimal"), raw: true},
		{name: "boolean from 2", nt: pg("Boolean"), raw: int64(2)},
		{name: "uuid text", nt: pg("Uuid"), raw: "xyz"},
		{name: "json garbage", nt: pg("Json"), raw: "{"},
		{name: "timestamp garbage", nt: pg("Timestamp"), raw: "soon"},
		{name: "geometry garbage", nt: pg("Geometry"), raw: "POINT(1"},
		{name: "geometry from int", nt: pg("Geometry"), raw: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.nt, tt.raw)
			if !errors.Is(err, ErrDecode) {
				t.Fatalf("Decode() error = %v, want a DecodeError", err)
			}
		})
	}
}

// TestRoundTrip decodes every encoded wire value as a driver would return
// it and expects the canonical value back.
func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		nt   catalog.NativeType
		in   value.Value
		want value.Value
	}{
		{name: "smallint", nt: pg("SmallInt"), in: value.Int(-7)},
		{name: "bigint", nt: pg("BigInt"), in: value.Int(math.MinInt64)},
		{name: "unsigned int", nt: mysql("UnsignedInt"), in: value.Int(math.MaxUint32)},
		{name: "unsigned bigint", nt: mysql("UnsignedBigInt"), in: value.MustDecimal("18446744073709551615")},
		{name: "double", nt: pg("DoublePrecision"), in: value.Float(0.1)},
		{name: "real", nt: pg("Real"), in: value.Float(1.1)},
		{name: "decimal at declared scale", nt: pg("Decimal", "2", "1"), in: value.MustDecimal("3.1234"), want: value.MustDecimal("3.1")},
		{name: "snowflake number", nt: catalog.MustResolve(types.Snowflake, "Number", "38", "10"), in: value.MustDecimal("-0.0000000001")},
		{name: "text", nt: pg("Text"), in: value.String("héllo")},
		{name: "boolean", nt: pg("Boolean"), in: value.Bool(true)},
		{name: "mysql bit boolean", nt: mysql("Bit", "1"), in: value.Bool(false)},
		{name: "bytes", nt: pg("ByteA"), in: value.Bytes{0, 255, 10}},
		{name: "jsonb", nt: pg("JsonB"), in: value.MustJSON(`{"a":[1,2.5,"x"],"b":null}`)},
		{name: "uuid", nt: pg("Uuid"), in: value.String("5e1e5f0e-4c5a-4f1f-9d3a-1b2c3d4e5f60")},
		{
			name: "timestamp truncated",
			nt:   pg("Timestamp", "3"),
			in:   value.MustDateTime("2024-03-01T10:20:30.123999Z"),
			want: value.MustDateTime("2024-03-01T10:20:30.123Z"),
		},
		{
			name: "time",
			nt:   pg("Time", "3"),
			in:   value.String("1111-11-11T13:02:20.321+03:00"),
			want: value.MustDateTime("1970-01-01T10:02:20.321Z"),
		},
		{
			name: "geometry",
			nt:   pg("Geometry"),
			in:   value.NewGeometry(geometry.Geometry{Kind: geometry.KindLineString, SRID: geometry.NewSRID(3857), Coords: []geometry.Coord{{1, 2}, {3.25, -4}}}, geometry.FormatEWKT),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := Encode(tt.nt, tt.in)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			got, err := Decode(tt.nt, w.V)
			if err != nil {
				t.Fatalf("Decode(%v) error = %v", w, err)
			}
			want := tt.want
			if want == nil {
				want = tt.in
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEncodeAll(t *testing.T) {
	nts := []catalog.NativeType{pg("Integer"), pg("Text")}

	got, err := EncodeAll(nts, []value.Value{value.Int(1), value.Null{}})
	if err != nil {
		t.Fatalf("EncodeAll() error = %v", err)
	}
	if diff := cmp.Diff([]wire.Value{wire.Int32(1), wire.Null}, got); diff != "" {
		t.Errorf("EncodeAll() mismatch (-want +got):\n%s", diff)
	}

	if _, err := EncodeAll(nts, []value.Value{value.Int(1)}); err == nil {
		t.Error("EncodeAll() with missing value should fail")
	}
	if _, err := EncodeAll(nts, []value.Value{value.String("x"), value.Null{}}); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("EncodeAll() error = %v, want %v", err, ErrInvalidValue)
	}
}

func TestDecodeRow(t *testing.T) {
	nts := []catalog.NativeType{pg("BigInt"), pg("Decimal", "4", "2"), pg("Text")}

	got, err := DecodeRow(nts, []any{int64(5), "1.50", nil})
	if err != nil {
		t.Fatalf("DecodeRow() error = %v", err)
	}
	want := []value.Value{value.Int(5), value.MustDecimal("1.50"), value.Null{}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DecodeRow() mismatch (-want +got):\n%s", diff)
	}

	if _, err := DecodeRow(nts, []any{int64(5)}); err == nil {
		t.Error("DecodeRow() with missing cell should fail")
	}
}

func TestEncodeError_Message(t *testing.T) {
	_, err := Encode(pg("SmallInt"), value.Int(40000))
	var ee *EncodeError
	if !errors.As(err, &ee) {
		t.Fatalf("Encode() error = %v, want *EncodeError", err)
	}
	want := "encode postgres SmallInt [OUT_OF_RANGE]: 40000 does not fit in 16-bit integer"
	if diff := cmp.Diff(want, ee.Error()); diff != "" {
		t.Errorf("Error() mismatch (-want +got):\n%s", diff)
	}
}

// TestRoundTrip_Defaults round-trips a value of every logical type through
// the native type each connector picks when a field has no annotation.
func TestRoundTrip_Defaults(t *testing.T) {
	samples := map[types.LogicalType]value.Value{
		types.TypeInt:      value.Int(42),
		types.TypeBigInt:   value.Int(1 << 40),
		types.TypeFloat:    value.Float(0.5),
		types.TypeDecimal:  value.MustDecimal("1.5"),
		types.TypeString:   value.String("héllo"),
		types.TypeBoolean:  value.Bool(true),
		types.TypeBytes:    value.Bytes{0, 255, 10},
		types.TypeJSON:     value.MustJSON(`{"a":[1,"x"]}`),
		types.TypeDateTime: value.MustDateTime("2024-03-01T10:20:30.123Z"),
		types.TypeGeometry: value.NewGeometry(point(1, 2), geometry.FormatEWKT),
		types.TypeGeoJSON:  value.NewGeometry(point(1, 2), geometry.FormatGeoJSON),
	}

	for _, c := range types.Connectors() {
		for _, lt := range types.LogicalTypes() {
			nt, ok := catalog.Default(c, lt)
			if !ok {
				continue
			}
			t.Run(string(c)+"/"+string(lt), func(t *testing.T) {
				in := samples[lt]
				w, err := Encode(nt, in)
				if err != nil {
					t.Fatalf("Encode(%s) error = %v", nt, err)
				}
				got, err := Decode(nt, w.V)
				if err != nil {
					t.Fatalf("Decode(%s, %v) error = %v", nt, w, err)
				}

				switch want := in.(type) {
				case *value.Decimal:
					d, ok := got.(*value.Decimal)
					if !ok || d.Cmp(&want.Decimal) != 0 {
						t.Errorf("round trip = %#v, want %s", got, want)
					}
				case value.Geometry:
					g, ok := got.(value.Geometry)
					if !ok {
						t.Fatalf("round trip = %T, want value.Geometry", got)
					}
					if diff := cmp.Diff(want.G, g.G.WithSRID(geometry.SRID{})); diff != "" {
						t.Errorf("round trip mismatch (-want +got):\n%s", diff)
					}
				default:
					if diff := cmp.Diff(in, got); diff != "" {
						t.Errorf("round trip mismatch (-want +got):\n%s", diff)
					}
				}
			})
		}
	}
}

func TestDecode_LogicalType(t *testing.T) {
	tinyBool := mysql("TinyInt").WithLogical(types.TypeBoolean)
	number := catalog.MustResolve(types.Snowflake, "Number", "38", "0").WithLogical(types.TypeBigInt)

	tests := []struct {
		name string
		nt   catalog.NativeType
		raw  any
		want value.Value
	}{
		{name: "tinyint boolean true", nt: tinyBool, raw: int32(1), want: value.Bool(true)},
		{name: "tinyint boolean false", nt: tinyBool, raw: int64(0), want: value.Bool(false)},
		{name: "tinyint boolean from text", nt: tinyBool, raw: []byte("1"), want: value.Bool(true)},
		{name: "tinyint int field", nt: mysql("TinyInt").WithLogical(types.TypeInt), raw: int32(1), want: value.Int(1)},
		{name: "number bigint", nt: number, raw: "5", want: value.Int(5)},
		{name: "number bigint with zero scale digits", nt: number, raw: "-12.000", want: value.Int(-12)},
		{name: "number decimal field", nt: catalog.MustResolve(types.Snowflake, "Number", "38", "0").WithLogical(types.TypeDecimal), raw: "5", want: value.MustDecimal("5")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.nt, tt.raw)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
			}
		})
	}

	for _, raw := range []any{"1.5", "99999999999999999999"} {
		if _, err := Decode(number, raw); !errors.Is(err, ErrDecode) {
			t.Errorf("Decode(%q) error = %v, want a DecodeError", raw, err)
		}
	}
}
