package catalog

import (
	"sort"
	"strings"

	"github.com/lib/pq/oid"

	"github.com/nnnkkk7/typebridge/pkg/geometry"
	"github.com/nnnkkk7/typebridge/pkg/types"
)

const (
	maxSRID          = 999999
	maxPgCharLength  = 10485760
	maxPgBitLength   = 83886080
	maxPgPrecision   = 1000
	maxSnowflakeText = 16777216
	maxSnowflakeBin  = 8388608
)

var (
	intLogical      = []types.LogicalType{types.TypeInt}
	bigIntLogical   = []types.LogicalType{types.TypeBigInt}
	floatLogical    = []types.LogicalType{types.TypeFloat}
	decimalLogical  = []types.LogicalType{types.TypeDecimal}
	stringLogical   = []types.LogicalType{types.TypeString}
	boolLogical     = []types.LogicalType{types.TypeBoolean}
	bytesLogical    = []types.LogicalType{types.TypeBytes}
	jsonLogical     = []types.LogicalType{types.TypeJSON}
	dateTimeLogical = []types.LogicalType{types.TypeDateTime}
	spatialLogical  = []types.LogicalType{types.TypeGeometry, types.TypeGeoJSON}
)

func lengthParam(minLen, maxLen int) []Param {
	return []Param{{Name: ParamLength, Min: minLen, Max: maxLen}}
}

func decimalParams(maxPrecision, maxScale int) []Param {
	return []Param{
		{Name: ParamPrecision, Min: 1, Max: maxPrecision},
		{Name: ParamScale, Min: 0, Max: maxScale},
	}
}

func digitsParam(maxDigits int) []Param {
	return []Param{{Name: ParamDigits, Min: 0, Max: maxDigits}}
}

var spatialParams = []Param{
	{Name: ParamSubtype, Kind: ParamGeometrySubtype},
	{Name: ParamSRID, Min: 0, Max: maxSRID},
}

func intSpec(name string, width int, unsigned bool, o oid.Oid, logical []types.LogicalType) *TypeSpec {
	return &TypeSpec{Name: name, Family: FamilyInt, Width: width, Unsigned: unsigned, OID: o, Logical: logical}
}

func floatSpec(name string, width int, o oid.Oid) *TypeSpec {
	return &TypeSpec{Name: name, Family: FamilyFloat, Width: width, OID: o, Logical: floatLogical}
}

func simpleSpec(name string, family Family, o oid.Oid, logical []types.LogicalType) *TypeSpec {
	return &TypeSpec{Name: name, Family: family, OID: o, Logical: logical}
}

func temporalSpec(name string, family Family, o oid.Oid, maxDigits, defaultDigits int) *TypeSpec {
	return &TypeSpec{
		Name:     name,
		Family:   family,
		OID:      o,
		Arity:    ArityZeroOrOne,
		Params:   digitsParam(maxDigits),
		Defaults: Defaults{Digits: defaultDigits},
		Logical:  dateTimeLogical,
	}
}

func spatialSpec(name string, family Family, format geometry.Format) *TypeSpec {
	s := &TypeSpec{
		Name:           name,
		Family:         family,
		Arity:          ArityPrefix,
		Params:         spatialParams,
		Logical:        spatialLogical,
		GeometryFormat: format,
	}
	if family == FamilyGeography {
		s.Defaults.SRID = geometry.WGS84
	}
	return s
}

func index(specs ...*TypeSpec) map[string]*TypeSpec {
	m := make(map[string]*TypeSpec, len(specs))
	for _, s := range specs {
		m[strings.ToLower(s.Name)] = s
	}
	return m
}

func sortedNames(m map[string]*TypeSpec) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var tables = map[types.Connector]map[string]*TypeSpec{
	types.Postgres: index(
		intSpec("SmallInt", 16, false, oid.T_int2, intLogical),
		intSpec("Integer", 32, false, oid.T_int4, intLogical),
		intSpec("BigInt", 64, false, oid.T_int8, bigIntLogical),
		intSpec("Oid", 32, true, oid.T_oid, intLogical),
		floatSpec("Real", 32, oid.T_float4),
		floatSpec("DoublePrecision", 64, oid.T_float8),
		&TypeSpec{Name: "Decimal", Family: FamilyDecimal, OID: oid.T_numeric, Arity: ArityTuple,
			Params: decimalParams(maxPgPrecision, maxPgPrecision), Logical: decimalLogical},
		simpleSpec("Money", FamilyMoney, oid.T_money, decimalLogical),
		&TypeSpec{Name: "Char", Family: FamilyChar, OID: oid.T_bpchar, Arity: ArityZeroOrOne,
			Params: lengthParam(1, maxPgCharLength), Logical: stringLogical},
		&TypeSpec{Name: "VarChar", Family: FamilyVarChar, OID: oid.T_varchar, Arity: ArityZeroOrOne,
			Params: lengthParam(1, maxPgCharLength), Logical: stringLogical},
		simpleSpec("Text", FamilyText, oid.T_text, stringLogical),
		&TypeSpec{Name: "Bit", Family: FamilyBit, OID: oid.T_bit, Arity: ArityZeroOrOne,
			Params: lengthParam(1, maxPgBitLength), Logical: stringLogical},
		&TypeSpec{Name: "VarBit", Family: FamilyVarBit, OID: oid.T_varbit, Arity: ArityZeroOrOne,
			Params: lengthParam(1, maxPgBitLength), Logical: stringLogical},
		simpleSpec("Uuid", FamilyUUID, oid.T_uuid, stringLogical),
		simpleSpec("Inet", FamilyInet, oid.T_inet, stringLogical),
		simpleSpec("Citext", FamilyText, 0, stringLogical),
		simpleSpec("Xml", FamilyText, oid.T_xml, stringLogical),
		simpleSpec("Boolean", FamilyBool, oid.T_bool, boolLogical),
		simpleSpec("ByteA", FamilyBytes, oid.T_bytea, bytesLogical),
		simpleSpec("Json", FamilyJSON, oid.T_json, jsonLogical),
		simpleSpec("JsonB", FamilyJSONB, oid.T_jsonb, jsonLogical),
		simpleSpec("Date", FamilyDate, oid.T_date, dateTimeLogical),
		temporalSpec("Time", FamilyTime, oid.T_time, 6, 6),
		temporalSpec("Timetz", FamilyTimeTZ, oid.T_timetz, 6, 6),
		temporalSpec("Timestamp", FamilyTimestamp, oid.T_timestamp, 6, 6),
		temporalSpec("Timestamptz", FamilyTimestampTZ, oid.T_timestamptz, 6, 6),
		spatialSpec("Geometry", FamilyGeometry, geometry.FormatEWKT),
		spatialSpec("Geography", FamilyGeography, geometry.FormatEWKT),
	),

	types.CockroachDB: index(
		intSpec("Int2", 16, false, oid.T_int2, intLogical),
		intSpec("Int4", 32, false, oid.T_int4, intLogical),
		intSpec("Int8", 64, false, oid.T_int8, bigIntLogical),
		floatSpec("Float4", 32, oid.T_float4),
		floatSpec("Float8", 64, oid.T_float8),
		&TypeSpec{Name: "Decimal", Family: FamilyDecimal, OID: oid.T_numeric, Arity: ArityTuple,
			Params: decimalParams(maxPgPrecision, maxPgPrecision), Logical: decimalLogical},
		&TypeSpec{Name: "Char", Family: FamilyChar, OID: oid.T_bpchar, Arity: ArityZeroOrOne,
			Params: lengthParam(1, maxPgCharLength), Logical: stringLogical},
		&TypeSpec{Name: "String", Family: FamilyVarChar, OID: oid.T_text, Arity: ArityZeroOrOne,
			Params: lengthParam(1, maxPgCharLength), Logical: stringLogical},
		&TypeSpec{Name: "CatalogSingleChar", Family: FamilyChar, OID: oid.T_char, Logical: stringLogical},
		&TypeSpec{Name: "Bit", Family: FamilyBit, OID: oid.T_bit, Arity: ArityZeroOrOne,
			Params: lengthParam(1, maxPgBitLength), Logical: stringLogical},
		&TypeSpec{Name: "VarBit", Family: FamilyVarBit, OID: oid.T_varbit, Arity: ArityZeroOrOne,
			Params: lengthParam(1, maxPgBitLength), Logical: stringLogical},
		simpleSpec("Uuid", FamilyUUID, oid.T_uuid, stringLogical),
		simpleSpec("Inet", FamilyInet, oid.T_inet, stringLogical),
		simpleSpec("Bool", FamilyBool, oid.T_bool, boolLogical),
		simpleSpec("Bytes", FamilyBytes, oid.T_bytea, bytesLogical),
		simpleSpec("JsonB", FamilyJSONB, oid.T_jsonb, jsonLogical),
		simpleSpec("Date", FamilyDate, oid.T_date, dateTimeLogical),
		temporalSpec("Time", FamilyTime, oid.T_time, 6, 6),
		temporalSpec("Timetz", FamilyTimeTZ, oid.T_timetz, 6, 6),
		temporalSpec("Timestamp", FamilyTimestamp, oid.T_timestamp, 6, 6),
		temporalSpec("Timestamptz", FamilyTimestampTZ, oid.T_timestamptz, 6, 6),
		spatialSpec("Geometry", FamilyGeometry, geometry.FormatEWKT),
		spatialSpec("Geography", FamilyGeography, geometry.FormatEWKT),
	),

	types.MySQL: index(
		intSpec("TinyInt", 8, false, 0, []types.LogicalType{types.TypeInt, types.TypeBoolean}),
		intSpec("UnsignedTinyInt", 8, true, 0, []types.LogicalType{types.TypeInt, types.TypeBoolean}),
		intSpec("SmallInt", 16, false, 0, intLogical),
		intSpec("UnsignedSmallInt", 16, true, 0, intLogical),
		intSpec("MediumInt", 24, false, 0, intLogical),
		intSpec("UnsignedMediumInt", 24, true, 0, intLogical),
		intSpec("Int", 32, false, 0, intLogical),
		intSpec("UnsignedInt", 32, true, 0, intLogical),
		intSpec("BigInt", 64, false, 0, bigIntLogical),
		intSpec("UnsignedBigInt", 64, true, 0, bigIntLogical),
		floatSpec("Float", 32, 0),
		floatSpec("Double", 64, 0),
		&TypeSpec{Name: "Decimal", Family: FamilyDecimal, Arity: ArityTuple,
			Params: decimalParams(65, 30), Logical: decimalLogical},
		&TypeSpec{Name: "Char", Family: FamilyChar, Arity: ArityOne,
			Params: lengthParam(1, 255), Logical: stringLogical},
		&TypeSpec{Name: "VarChar", Family: FamilyVarChar, Arity: ArityOne,
			Params: lengthParam(1, 65535), Logical: stringLogical},
		simpleSpec("Text", FamilyText, 0, stringLogical),
		&TypeSpec{Name: "Bit", Family: FamilyBit, Arity: ArityOne,
			Params: lengthParam(1, 64), Logical: []types.LogicalType{types.TypeBoolean, types.TypeBytes, types.TypeString}},
		&TypeSpec{Name: "Binary", Family: FamilyBytes, Arity: ArityOne,
			Params: lengthParam(1, 255), Logical: bytesLogical},
		&TypeSpec{Name: "VarBinary", Family: FamilyBytes, Arity: ArityOne,
			Params: lengthParam(1, 65535), Logical: bytesLogical},
		simpleSpec("Blob", FamilyBytes, 0, bytesLogical),
		simpleSpec("Json", FamilyJSON, 0, jsonLogical),
		simpleSpec("Date", FamilyDate, 0, dateTimeLogical),
		temporalSpec("Time", FamilyTime, 0, 6, 0),
		temporalSpec("DateTime", FamilyTimestamp, 0, 6, 0),
		temporalSpec("Timestamp", FamilyTimestamp, 0, 6, 0),
		simpleSpec("Year", FamilyYear, 0, intLogical),
	),

	types.SQLite: index(
		intSpec("Integer", 64, false, 0, []types.LogicalType{types.TypeInt, types.TypeBigInt}),
		floatSpec("Real", 64, 0),
		simpleSpec("Numeric", FamilyDecimal, 0, decimalLogical),
		simpleSpec("Text", FamilyText, 0, stringLogical),
		simpleSpec("Blob", FamilyBytes, 0, bytesLogical),
		simpleSpec("Boolean", FamilyBool, 0, boolLogical),
		simpleSpec("Json", FamilyJSON, 0, jsonLogical),
		&TypeSpec{Name: "DateTime", Family: FamilyTimestampTZ, Defaults: Defaults{Digits: 3}, Logical: dateTimeLogical},
		spatialSpec("Geometry", FamilyGeometry, geometry.FormatGeoJSON),
	),

	types.DuckDB: index(
		intSpec("TinyInt", 8, false, 0, intLogical),
		intSpec("SmallInt", 16, false, 0, intLogical),
		intSpec("Integer", 32, false, 0, intLogical),
		intSpec("BigInt", 64, false, 0, bigIntLogical),
		floatSpec("Real", 32, 0),
		floatSpec("Double", 64, 0),
		&TypeSpec{Name: "Decimal", Family: FamilyDecimal, Arity: ArityTuple,
			Params: decimalParams(38, 38), Logical: decimalLogical},
		simpleSpec("VarChar", FamilyText, 0, stringLogical),
		simpleSpec("Boolean", FamilyBool, 0, boolLogical),
		simpleSpec("Blob", FamilyBytes, 0, bytesLogical),
		simpleSpec("Json", FamilyJSON, 0, jsonLogical),
		simpleSpec("Uuid", FamilyUUID, 0, stringLogical),
		simpleSpec("Date", FamilyDate, 0, dateTimeLogical),
		&TypeSpec{Name: "Time", Family: FamilyTime, Defaults: Defaults{Digits: 6}, Logical: dateTimeLogical},
		&TypeSpec{Name: "Timestamp", Family: FamilyTimestamp, Defaults: Defaults{Digits: 6}, Logical: dateTimeLogical},
		&TypeSpec{Name: "TimestampTz", Family: FamilyTimestampTZ, Defaults: Defaults{Digits: 6}, Logical: dateTimeLogical},
		spatialSpec("Geometry", FamilyGeometry, geometry.FormatEWKT),
	),

	types.Snowflake: index(
		&TypeSpec{Name: "Number", Family: FamilyDecimal, Arity: ArityPrefix,
			Params:  decimalParams(38, 37),
			Logical: []types.LogicalType{types.TypeInt, types.TypeBigInt, types.TypeDecimal}},
		floatSpec("Float", 64, 0),
		&TypeSpec{Name: "Varchar", Family: FamilyVarChar, Arity: ArityZeroOrOne,
			Params: lengthParam(1, maxSnowflakeText), Logical: stringLogical},
		simpleSpec("Boolean", FamilyBool, 0, boolLogical),
		&TypeSpec{Name: "Binary", Family: FamilyBytes, Arity: ArityZeroOrOne,
			Params: lengthParam(1, maxSnowflakeBin), Logical: bytesLogical},
		simpleSpec("Date", FamilyDate, 0, dateTimeLogical),
		temporalSpec("Time", FamilyTime, 0, 9, 9),
		temporalSpec("TimestampNtz", FamilyTimestamp, 0, 9, 9),
		temporalSpec("TimestampLtz", FamilyTimestampTZ, 0, 9, 9),
		temporalSpec("TimestampTz", FamilyTimestampTZ, 0, 9, 9),
		simpleSpec("Variant", FamilyJSON, 0, jsonLogical),
		simpleSpec("Object", FamilyJSON, 0, jsonLogical),
		simpleSpec("Array", FamilyJSON, 0, jsonLogical),
		spatialSpec("Geography", FamilyGeography, geometry.FormatEWKT),
		spatialSpec("Geometry", FamilyGeometry, geometry.FormatEWKT),
	),
}

type defaultType struct {
	name string
	args []string
}

// defaults maps an unannotated field to the native type the connector
// creates for it.
var defaults = map[types.Connector]map[types.LogicalType]defaultType{
	types.Postgres: {
		types.TypeInt:      {name: "Integer"},
		types.TypeBigInt:   {name: "BigInt"},
		types.TypeFloat:    {name: "DoublePrecision"},
		types.TypeDecimal:  {name: "Decimal", args: []string{"65", "30"}},
		types.TypeString:   {name: "Text"},
		types.TypeBoolean:  {name: "Boolean"},
		types.TypeBytes:    {name: "ByteA"},
		types.TypeJSON:     {name: "JsonB"},
		types.TypeDateTime: {name: "Timestamp", args: []string{"3"}},
		types.TypeGeometry: {name: "Geometry"},
		types.TypeGeoJSON:  {name: "Geometry"},
	},
	types.CockroachDB: {
		types.TypeInt:      {name: "Int4"},
		types.TypeBigInt:   {name: "Int8"},
		types.TypeFloat:    {name: "Float8"},
		types.TypeDecimal:  {name: "Decimal", args: []string{"65", "30"}},
		types.TypeString:   {name: "String"},
		types.TypeBoolean:  {name: "Bool"},
		types.TypeBytes:    {name: "Bytes"},
		types.TypeJSON:     {name: "JsonB"},
		types.TypeDateTime: {name: "Timestamp", args: []string{"3"}},
		types.TypeGeometry: {name: "Geometry"},
		types.TypeGeoJSON:  {name: "Geometry"},
	},
	types.MySQL: {
		types.TypeInt:      {name: "Int"},
		types.TypeBigInt:   {name: "BigInt"},
		types.TypeFloat:    {name: "Double"},
		types.TypeDecimal:  {name: "Decimal", args: []string{"65", "30"}},
		types.TypeString:   {name: "VarChar", args: []string{"191"}},
		types.TypeBoolean:  {name: "TinyInt"},
		types.TypeBytes:    {name: "Blob"},
		types.TypeJSON:     {name: "Json"},
		types.TypeDateTime: {name: "DateTime", args: []string{"3"}},
	},
	types.SQLite: {
		types.TypeInt:      {name: "Integer"},
		types.TypeBigInt:   {name: "Integer"},
		types.TypeFloat:    {name: "Real"},
		types.TypeDecimal:  {name: "Numeric"},
		types.TypeString:   {name: "Text"},
		types.TypeBoolean:  {name: "Boolean"},
		types.TypeBytes:    {name: "Blob"},
		types.TypeJSON:     {name: "Json"},
		types.TypeDateTime: {name: "DateTime"},
		types.TypeGeometry: {name: "Geometry"},
		types.TypeGeoJSON:  {name: "Geometry"},
	},
	types.DuckDB: {
		types.TypeInt:      {name: "Integer"},
		types.TypeBigInt:   {name: "BigInt"},
		types.TypeFloat:    {name: "Double"},
		types.TypeDecimal:  {name: "Decimal", args: []string{"38", "10"}},
		types.TypeString:   {name: "VarChar"},
		types.TypeBoolean:  {name: "Boolean"},
		types.TypeBytes:    {name: "Blob"},
		types.TypeJSON:     {name: "Json"},
		types.TypeDateTime: {name: "TimestampTz"},
		types.TypeGeometry: {name: "Geometry"},
		types.TypeGeoJSON:  {name: "Geometry"},
	},
	types.Snowflake: {
		types.TypeInt:      {name: "Number", args: []string{"38", "0"}},
		types.TypeBigInt:   {name: "Number", args: []string{"38", "0"}},
		types.TypeFloat:    {name: "Float"},
		types.TypeDecimal:  {name: "Number", args: []string{"38", "10"}},
		types.TypeString:   {name: "Varchar"},
		types.TypeBoolean:  {name: "Boolean"},
		types.TypeBytes:    {name: "Binary"},
		types.TypeJSON:     {name: "Variant"},
		types.TypeDateTime: {name: "TimestampNtz"},
		types.TypeGeometry: {name: "Geometry"},
		types.TypeGeoJSON:  {name: "Geography"},
	},
}
