// Package engine is the executor-facing entry point: it encodes canonical
// parameters, dispatches the statement and decodes the returned rows.
package engine

import (
	"context"
	"fmt"

	"github.com/nnnkkk7/typebridge/pkg/catalog"
	"github.com/nnnkkk7/typebridge/pkg/codec"
	"github.com/nnnkkk7/typebridge/pkg/connector"
	"github.com/nnnkkk7/typebridge/pkg/schema"
	"github.com/nnnkkk7/typebridge/pkg/value"
	"github.com/nnnkkk7/typebridge/pkg/wire"
)

// Param is a statement argument and the native type it binds to.
type Param struct {
	Type  catalog.NativeType
	Value value.Value
}

// Engine runs statements through one dispatcher.
type Engine struct {
	dispatcher *connector.Dispatcher
}

// New creates an engine over d.
func New(d *connector.Dispatcher) *Engine {
	return &Engine{dispatcher: d}
}

// Mode reports the connector mode of the underlying dispatcher.
func (e *Engine) Mode() connector.Mode {
	return e.dispatcher.Mode()
}

// Query runs a row-returning statement and decodes each row against
// columns. An encode error aborts before anything is sent.
func (e *Engine) Query(ctx context.Context, sql string, params []Param, columns []catalog.NativeType) ([][]value.Value, error) {
	q, err := e.encode(sql, params)
	if err != nil {
		return nil, err
	}
	rs, err := e.dispatcher.QueryRaw(ctx, q)
	if err != nil {
		return nil, err
	}
	return decodeRows(rs, columns)
}

// QueryFields is Query with the columns given as validated schema fields.
// Spatial values render in each field's format.
func (e *Engine) QueryFields(ctx context.Context, sql string, params []Param, fields []schema.Field) ([][]value.Value, error) {
	columns := make([]catalog.NativeType, len(fields))
	for i, f := range fields {
		columns[i] = f.Native
	}
	rows, err := e.Query(ctx, sql, params, columns)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		for i, v := range row {
			if g, ok := v.(value.Geometry); ok {
				row[i] = value.NewGeometry(g.G, fields[i].Format())
			}
		}
	}
	return rows, nil
}

// Execute runs a statement that returns no rows and reports the rows it
// affected.
func (e *Engine) Execute(ctx context.Context, sql string, params []Param) (int64, error) {
	q, err := e.encode(sql, params)
	if err != nil {
		return 0, err
	}
	return e.dispatcher.ExecuteRaw(ctx, q)
}

// Close closes the dispatcher.
func (e *Engine) Close() error {
	return e.dispatcher.Close()
}

func (e *Engine) encode(sql string, params []Param) (connector.Query, error) {
	nts := make([]catalog.NativeType, len(params))
	vals := make([]value.Value, len(params))
	for i, p := range params {
		nts[i] = p.Type
		vals[i] = p.Value
	}
	args, err := codec.EncodeAll(nts, vals)
	if err != nil {
		return connector.Query{}, err
	}
	return connector.Query{SQL: sql, Args: args}, nil
}

func decodeRows(rs *wire.ResultSet, columns []catalog.NativeType) ([][]value.Value, error) {
	if len(rs.ColumnTypes) != len(columns) {
		return nil, fmt.Errorf("result has %d columns, want %d", len(rs.ColumnTypes), len(columns))
	}
	out := make([][]value.Value, 0, len(rs.Rows))
	for i, row := range rs.Rows {
		vals, err := codec.DecodeRow(columns, row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		out = append(out, vals)
	}
	return out, nil
}
