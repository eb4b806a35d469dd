package catalog

import "fmt"

const maxDuckDBPrecision = 38

// DuckDBType returns the DuckDB column type that stores values of nt
// without loss. It is used by the native backend.
func (nt NativeType) DuckDBType() string {
	switch nt.Family {
	case FamilyInt:
		return duckDBInt(nt.Width, nt.Unsigned)
	case FamilyYear:
		return "SMALLINT"
	case FamilyFloat:
		if nt.Width == 32 {
			return "REAL"
		}
		return "DOUBLE"
	case FamilyDecimal:
		// Unconstrained and very wide decimals keep their exact text.
		if nt.Precision == 0 || nt.Precision > maxDuckDBPrecision {
			return "VARCHAR"
		}
		return fmt.Sprintf("DECIMAL(%d,%d)", nt.Precision, nt.Scale)
	case FamilyMoney:
		return "DECIMAL(19,2)"
	case FamilyUUID:
		return "UUID"
	case FamilyBool:
		return "BOOLEAN"
	case FamilyBytes:
		return "BLOB"
	case FamilyJSON, FamilyJSONB:
		return "JSON"
	case FamilyDate:
		return "DATE"
	case FamilyTime:
		return "TIME"
	case FamilyTimeTZ:
		return "TIMETZ"
	case FamilyTimestamp:
		return "TIMESTAMP"
	case FamilyTimestampTZ:
		return "TIMESTAMPTZ"
	default:
		// char, varchar, text, bit, inet and spatial text
		return "VARCHAR"
	}
}

func duckDBInt(width int, unsigned bool) string {
	var name string
	switch {
	case width <= 8:
		name = "TINYINT"
	case width <= 16:
		name = "SMALLINT"
	case width <= 32:
		name = "INTEGER"
	default:
		name = "BIGINT"
	}
	if unsigned {
		return "U" + name
	}
	return name
}
