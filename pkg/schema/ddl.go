package schema

import (
	"fmt"
	"strings"
)

// DuckDBTable returns a CREATE TABLE statement that stores fields in a
// native DuckDB database. Columns are named after the fields.
func DuckDBTable(table string, fields []Field) string {
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = fmt.Sprintf("%s %s", quoteIdent(f.Descriptor.Name), f.Native.DuckDBType())
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(table), strings.Join(cols, ", "))
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
