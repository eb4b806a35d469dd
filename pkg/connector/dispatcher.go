package connector

import (
	"context"
	"sync/atomic"

	"github.com/nnnkkk7/typebridge/pkg/config"
	"github.com/nnnkkk7/typebridge/pkg/wire"
)

// Dispatcher routes encoded statements to the backend of its mode. It is
// safe for concurrent use.
type Dispatcher struct {
	mode       Mode
	backend    Backend
	classifier *Classifier
	closed     atomic.Bool
}

// Result is the outcome of Run. Rows is set for row-returning statements,
// RowsAffected otherwise.
type Result struct {
	Statement    ClassifyResult
	Rows         *wire.ResultSet
	RowsAffected int64
}

// New creates a Dispatcher that sends every statement to backend.
func New(mode Mode, backend Backend) *Dispatcher {
	return &Dispatcher{mode: mode, backend: backend, classifier: DefaultClassifier}
}

// Open builds the backend cfg selects: an embedded DuckDB database in
// native mode, or an HTTP client for cfg.BridgeURL in bridged mode.
func Open(cfg *config.Config) (*Dispatcher, error) {
	mode, err := ParseMode(cfg.Mode)
	if err != nil {
		return nil, err
	}
	switch mode {
	case Bridged:
		return New(mode, NewBridgeBackend(cfg.BridgeURL, cfg.BridgeTimeout)), nil
	default:
		b, err := OpenNative(cfg.DuckDBPath)
		if err != nil {
			return nil, &ConnectorError{Mode: mode, Op: "open", Err: err}
		}
		return New(mode, b), nil
	}
}

// Mode returns the mode chosen at construction.
func (d *Dispatcher) Mode() Mode { return d.mode }

// QueryRaw runs a row-returning statement.
func (d *Dispatcher) QueryRaw(ctx context.Context, q Query) (*wire.ResultSet, error) {
	if d.closed.Load() {
		return nil, d.fail("query", ErrClosed)
	}
	rs, err := d.backend.QueryRaw(ctx, q)
	if err != nil {
		return nil, d.fail("query", err)
	}
	return rs, nil
}

// ExecuteRaw runs a statement and reports the rows it affected.
func (d *Dispatcher) ExecuteRaw(ctx context.Context, q Query) (int64, error) {
	if d.closed.Load() {
		return 0, d.fail("execute", ErrClosed)
	}
	n, err := d.backend.ExecuteRaw(ctx, q)
	if err != nil {
		return 0, d.fail("execute", err)
	}
	return n, nil
}

// Run classifies q and sends it to QueryRaw or ExecuteRaw.
func (d *Dispatcher) Run(ctx context.Context, q Query) (*Result, error) {
	class := d.classifier.Classify(q.SQL)
	res := &Result{Statement: class}
	if class.ReturnsRows {
		rs, err := d.QueryRaw(ctx, q)
		if err != nil {
			return nil, err
		}
		res.Rows = rs
		return res, nil
	}
	n, err := d.ExecuteRaw(ctx, q)
	if err != nil {
		return nil, err
	}
	res.RowsAffected = n
	return res, nil
}

// Close closes the backend. Later calls fail with ErrClosed.
func (d *Dispatcher) Close() error {
	if d.closed.Swap(true) {
		return nil
	}
	if err := d.backend.Close(); err != nil {
		return d.fail("close", err)
	}
	return nil
}

func (d *Dispatcher) fail(op string, err error) error {
	return &ConnectorError{Mode: d.mode, Op: op, Err: err}
}
