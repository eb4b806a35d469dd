package types

import "strings"

// Connector identifies a database a schema targets. Each connector
// contributes its own closed set of native types to the catalog.
type Connector string

// Supported connectors.
const (
	Postgres    Connector = "postgres"
	CockroachDB Connector = "cockroachdb"
	MySQL       Connector = "mysql"
	SQLite      Connector = "sqlite"
	DuckDB      Connector = "duckdb"
	Snowflake   Connector = "snowflake"
)

// Connectors lists every supported connector in a stable order.
func Connectors() []Connector {
	return []Connector{Postgres, CockroachDB, MySQL, SQLite, DuckDB, Snowflake}
}

// ParseConnector resolves a connector name ("postgresql" is accepted as an alias).
func ParseConnector(name string) (Connector, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "postgresql" {
		return Postgres, true
	}
	for _, c := range Connectors() {
		if string(c) == n {
			return c, true
		}
	}
	return "", false
}

// SupportsSpatial returns true if the connector has geometry native types.
func (c Connector) SupportsSpatial() bool {
	switch c {
	case Postgres, CockroachDB, SQLite, DuckDB, Snowflake:
		return true
	default:
		return false
	}
}
