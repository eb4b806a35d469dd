package wire

import (
	"database/sql"
	"strings"
)

// TypeMapper maps driver column type names to wire types.
type TypeMapper struct {
	typeMapping map[string]Type
}

// NewTypeMapper creates a type mapper covering the DuckDB, Postgres,
// MySQL and Snowflake driver type names.
func NewTypeMapper() *TypeMapper {
	return &TypeMapper{
		typeMapping: map[string]Type{
			// DuckDB
			"TINYINT":                  TypeInt32,
			"SMALLINT":                 TypeInt32,
			"INTEGER":                  TypeInt32,
			"INT":                      TypeInt32,
			"BIGINT":                   TypeInt64,
			"HUGEINT":                  TypeNumeric,
			"UTINYINT":                 TypeInt32,
			"USMALLINT":                TypeInt32,
			"UINTEGER":                 TypeInt64,
			"UBIGINT":                  TypeUint64,
			"FLOAT":                    TypeFloat32,
			"REAL":                     TypeFloat32,
			"DOUBLE":                   TypeFloat64,
			"DECIMAL":                  TypeNumeric,
			"NUMERIC":                  TypeNumeric,
			"VARCHAR":                  TypeText,
			"TEXT":                     TypeText,
			"STRING":                   TypeText,
			"BLOB":                     TypeBytes,
			"BOOLEAN":                  TypeBoolean,
			"BOOL":                     TypeBoolean,
			"DATE":                     TypeDate,
			"TIME":                     TypeTime,
			"TIMETZ":                   TypeTime,
			"TIME WITH TIME ZONE":      TypeTime,
			"TIMESTAMP":                TypeDateTime,
			"TIMESTAMP_NS":             TypeDateTime,
			"TIMESTAMP_MS":             TypeDateTime,
			"TIMESTAMP_S":              TypeDateTime,
			"TIMESTAMPTZ":              TypeDateTime,
			"TIMESTAMP WITH TIME ZONE": TypeDateTime,
			"UUID":                     TypeUUID,
			"JSON":                     TypeJSON,
			"INTERVAL":                 TypeText,

			// Postgres
			"INT2":      TypeInt32,
			"INT4":      TypeInt32,
			"INT8":      TypeInt64,
			"OID":       TypeInt64,
			"FLOAT4":    TypeFloat32,
			"FLOAT8":    TypeFloat64,
			"MONEY":     TypeNumeric,
			"BPCHAR":    TypeText,
			"CHAR":      TypeText,
			"CITEXT":    TypeText,
			"XML":       TypeText,
			"INET":      TypeText,
			"BIT":       TypeText,
			"VARBIT":    TypeText,
			"BYTEA":     TypeBytes,
			"JSONB":     TypeJSON,
			"GEOMETRY":  TypeGeometry,
			"GEOGRAPHY": TypeGeometry,

			// MySQL
			"MEDIUMINT": TypeInt32,
			"YEAR":      TypeInt32,
			"DATETIME":  TypeDateTime,
			"BINARY":    TypeBytes,
			"VARBINARY": TypeBytes,

			// Snowflake
			"FIXED":         TypeNumeric,
			"TIMESTAMP_NTZ": TypeDateTime,
			"TIMESTAMP_LTZ": TypeDateTime,
			"TIMESTAMP_TZ":  TypeDateTime,
			"VARIANT":       TypeJSON,
			"OBJECT":        TypeJSON,
			"ARRAY":         TypeJSON,
		},
	}
}

// MapDatabaseType converts a driver type name such as "DECIMAL(10,2)" or
// "TIMESTAMP WITH TIME ZONE" to its wire type. Unknown names map to text.
func (m *TypeMapper) MapDatabaseType(name string) Type {
	name = strings.ToUpper(strings.TrimSpace(name))
	if i := strings.IndexByte(name, '('); i >= 0 {
		name = strings.TrimSpace(name[:i])
	}
	if t, ok := m.typeMapping[name]; ok {
		return t
	}
	return TypeText
}

// ColumnTypes returns the wire type of every column of rows. Columns whose
// driver type is unavailable map to text.
func (m *TypeMapper) ColumnTypes(rows *sql.Rows) ([]Type, error) {
	cols, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}
	out := make([]Type, len(cols))
	for i, col := range cols {
		out[i] = m.MapDatabaseType(col.DatabaseTypeName())
	}
	return out, nil
}

var defaultTypeMapper = NewTypeMapper()

// MapDatabaseType is a convenience function using the default mapper.
func MapDatabaseType(name string) Type {
	return defaultTypeMapper.MapDatabaseType(name)
}
