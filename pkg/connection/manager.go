// Package connection runs raw statements against a database/sql handle and
// frames their results as wire values.
package connection

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/cockroachdb/apd/v3"
	"github.com/duckdb/duckdb-go/v2"

	"github.com/nnnkkk7/typebridge/pkg/wire"
)

// Manager guards a database handle.
//
// Reads run concurrently. Writes are serialized with a mutex, since an
// embedded DuckDB file allows a single writer.
type Manager struct {
	db      *sql.DB
	mapper  *wire.TypeMapper
	writeMu sync.Mutex
}

// NewManager creates a connection manager for db.
func NewManager(db *sql.DB) *Manager {
	return &Manager{db: db, mapper: wire.NewTypeMapper()}
}

// Query runs a row-returning statement and returns every row, each cell
// normalized to its column's wire type.
func (m *Manager) Query(ctx context.Context, query string, args []wire.Value) (*wire.ResultSet, error) {
	rows, err := m.db.QueryContext(ctx, query, wire.Args(args)...)
	if err != nil {
		return nil, fmt.Errorf("query execution error: %w", err)
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}
	// Column types are read before iterating; some drivers drop them after.
	columnTypes, err := m.mapper.ColumnTypes(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to get column types: %w", err)
	}

	result := &wire.ResultSet{Columns: columns, ColumnTypes: columnTypes}
	for rows.Next() {
		values := make([]any, len(columns))
		valuePtrs := make([]any, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		for i, v := range values {
			values[i] = driverCell(v)
		}
		if err := wire.NormalizeRow(columnTypes, values); err != nil {
			return nil, fmt.Errorf("row %d: %w", len(result.Rows), err)
		}
		result.Rows = append(result.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return result, nil
}

// Exec runs a statement that returns no rows and reports the number of rows
// it affected. Calls are serialized.
func (m *Manager) Exec(ctx context.Context, query string, args []wire.Value) (int64, error) {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	result, err := m.db.ExecContext(ctx, query, wire.Args(args)...)
	if err != nil {
		return 0, fmt.Errorf("execution error: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

// DB returns the underlying database handle.
func (m *Manager) DB() *sql.DB {
	return m.db
}

// Close closes the underlying database handle.
func (m *Manager) Close() error {
	return m.db.Close()
}

// driverCell rewrites driver-specific scan types that wire.Normalize does
// not know. DuckDB returns DECIMAL columns as an unscaled big integer.
func driverCell(v any) any {
	switch d := v.(type) {
	case duckdb.Decimal:
		return decimalText(d)
	case *duckdb.Decimal:
		if d == nil {
			return nil
		}
		return decimalText(*d)
	}
	return v
}

func decimalText(d duckdb.Decimal) string {
	if d.Value == nil {
		return "0"
	}
	return apd.NewWithBigInt(new(apd.BigInt).SetMathBigInt(d.Value), -int32(d.Scale)).Text('f')
}
