package connector

import (
	"context"
	"errors"
	"fmt"

	"github.com/nnnkkk7/typebridge/pkg/wire"
)

// Query is a statement and its encoded arguments.
type Query struct {
	SQL  string
	Args []wire.Value
}

// Backend issues statements to a database.
type Backend interface {
	// QueryRaw runs a row-returning statement.
	QueryRaw(ctx context.Context, q Query) (*wire.ResultSet, error)
	// ExecuteRaw runs a statement and reports the rows it affected.
	ExecuteRaw(ctx context.Context, q Query) (int64, error)
	Close() error
}

// ErrClosed is returned by a Dispatcher after Close.
var ErrClosed = errors.New("connector is closed")

// ConnectorError reports a failure below the codec: the connection, the
// driver or the bridge. Err is the backend's error, unchanged.
type ConnectorError struct {
	Mode Mode
	Op   string
	Err  error
}

func (e *ConnectorError) Error() string {
	return fmt.Sprintf("connector %s %s: %v", e.Mode, e.Op, e.Err)
}

func (e *ConnectorError) Unwrap() error { return e.Err }
