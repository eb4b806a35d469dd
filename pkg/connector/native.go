package connector

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/duckdb/duckdb-go/v2"

	"github.com/nnnkkk7/typebridge/pkg/connection"
	"github.com/nnnkkk7/typebridge/pkg/wire"
)

// NativeBackend drives an embedded DuckDB database in-process.
type NativeBackend struct {
	mgr *connection.Manager
}

// NewNativeBackend wraps an open database handle. The backend owns db and
// closes it on Close.
func NewNativeBackend(db *sql.DB) *NativeBackend {
	return &NativeBackend{mgr: connection.NewManager(db)}
}

// OpenNative opens the DuckDB database at path. An empty path opens an
// in-memory database.
func OpenNative(path string) (*NativeBackend, error) {
	c, err := duckdb.NewConnector(path, nil)
	if err != nil {
		return nil, fmt.Errorf("open duckdb %q: %w", path, err)
	}
	db := sql.OpenDB(c)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping duckdb %q: %w", path, err)
	}
	return NewNativeBackend(db), nil
}

// QueryRaw runs q. Reads may run concurrently.
func (b *NativeBackend) QueryRaw(ctx context.Context, q Query) (*wire.ResultSet, error) {
	return b.mgr.Query(ctx, q.SQL, q.Args)
}

// ExecuteRaw runs q. Writes are serialized.
func (b *NativeBackend) ExecuteRaw(ctx context.Context, q Query) (int64, error) {
	return b.mgr.Exec(ctx, q.SQL, q.Args)
}

// DB returns the underlying database handle.
func (b *NativeBackend) DB() *sql.DB {
	return b.mgr.DB()
}

func (b *NativeBackend) Close() error {
	return b.mgr.Close()
}
