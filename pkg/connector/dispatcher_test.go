package connector

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/stretchr/testify/require"

	"github.com/nnnkkk7/typebridge/pkg/config"
	"github.com/nnnkkk7/typebridge/pkg/connection"
	"github.com/nnnkkk7/typebridge/pkg/wire"
	"github.com/nnnkkk7/typebridge/server/apierror"
	"github.com/nnnkkk7/typebridge/server/handlers"
)

// setupTestDuckDB opens an in-memory DuckDB database with a seeded table.
func setupTestDuckDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("duckdb", "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE readings (
		id BIGINT PRIMARY KEY,
		label VARCHAR,
		value DECIMAL(12,3),
		taken_at TIMESTAMP,
		day DATE,
		raw BLOB
	)`)
	require.NoError(t, err)
	return db
}

// setupBridge serves db through a bridge host and returns a bridged
// dispatcher pointed at it.
func setupBridge(t *testing.T, db *sql.DB) *Dispatcher {
	t.Helper()
	srv := httptest.NewServer(handlers.NewRouter(handlers.NewBridgeHandler(connection.NewManager(db), "duckdb")))
	t.Cleanup(srv.Close)
	return New(Bridged, NewBridgeBackend(srv.URL, 5*time.Second))
}

// recordingBackend records the queries it receives.
type recordingBackend struct {
	mu      sync.Mutex
	queries []Query
	rows    *wire.ResultSet
	err     error
	closed  int
}

func (b *recordingBackend) QueryRaw(_ context.Context, q Query) (*wire.ResultSet, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.queries = append(b.queries, q)
	return b.rows, b.err
}

func (b *recordingBackend) ExecuteRaw(_ context.Context, q Query) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.queries = append(b.queries, q)
	return int64(len(q.Args)), b.err
}

func (b *recordingBackend) Close() error {
	b.closed++
	return nil
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{in: "native", want: Native},
		{in: " Bridged ", want: Bridged},
		{in: "hybrid", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestDispatcher_Run_Routes(t *testing.T) {
	rec := &recordingBackend{rows: &wire.ResultSet{Columns: []string{"x"}, ColumnTypes: []wire.Type{wire.TypeInt32}}}
	d := New(Native, rec)
	ctx := context.Background()

	res, err := d.Run(ctx, Query{SQL: "SELECT 1"})
	require.NoError(t, err)
	require.True(t, res.Statement.ReturnsRows)
	require.Same(t, rec.rows, res.Rows)

	res, err = d.Run(ctx, Query{SQL: "DELETE FROM t WHERE a = ? AND b = ?", Args: []wire.Value{wire.Int32(1), wire.Text("b")}})
	require.NoError(t, err)
	require.Nil(t, res.Rows)
	require.Equal(t, int64(2), res.RowsAffected)
	require.Equal(t, StatementTypeDML, res.Statement.Type)
}

func TestDispatcher_ErrorPassThrough(t *testing.T) {
	backendErr := errors.New("connection refused")
	d := New(Bridged, &recordingBackend{err: backendErr})

	_, err := d.QueryRaw(context.Background(), Query{SQL: "SELECT 1"})
	require.Error(t, err)

	var cErr *ConnectorError
	require.ErrorAs(t, err, &cErr)
	require.Equal(t, Bridged, cErr.Mode)
	require.Equal(t, "query", cErr.Op)
	require.Same(t, backendErr, cErr.Err)
	require.ErrorIs(t, err, backendErr)
	require.Equal(t, "connector bridged query: connection refused", err.Error())
}

func TestDispatcher_NoRetry(t *testing.T) {
	rec := &recordingBackend{err: errors.New("protocol error")}
	d := New(Native, rec)

	_, err := d.ExecuteRaw(context.Background(), Query{SQL: "INSERT INTO t VALUES (1)"})
	require.Error(t, err)
	require.Len(t, rec.queries, 1)
}

func TestDispatcher_Close(t *testing.T) {
	rec := &recordingBackend{}
	d := New(Native, rec)

	require.NoError(t, d.Close())
	require.NoError(t, d.Close())
	require.Equal(t, 1, rec.closed)

	_, err := d.QueryRaw(context.Background(), Query{SQL: "SELECT 1"})
	require.ErrorIs(t, err, ErrClosed)
	_, err = d.ExecuteRaw(context.Background(), Query{SQL: "DELETE FROM t"})
	require.ErrorIs(t, err, ErrClosed)
}

// The same encoded arguments must produce the same stored values and the
// same framed results whichever backend carries them.
func TestDispatcher_ModeIndependence(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2024, 2, 29, 10, 2, 20, 321000000, time.UTC)

	insert := Query{
		SQL: "INSERT INTO readings VALUES (?, ?, ?, ?, ?, ?)",
		Args: []wire.Value{
			wire.Int64(9007199254740993),
			wire.Text("héllo"),
			wire.Numeric("-12.500"),
			wire.DateTime(at),
			wire.Date(at),
			wire.Bytes([]byte{0, 1, 0xff}),
		},
	}
	selectAll := Query{SQL: "SELECT id, label, value, taken_at, day, raw FROM readings WHERE id = ?", Args: []wire.Value{wire.Int64(9007199254740993)}}

	nativeDB := setupTestDuckDB(t)
	native := New(Native, NewNativeBackend(nativeDB))
	bridged := setupBridge(t, setupTestDuckDB(t))

	var results []*wire.ResultSet
	for _, d := range []*Dispatcher{native, bridged} {
		res, err := d.Run(ctx, insert)
		require.NoError(t, err, "mode %s", d.Mode())
		require.Equal(t, int64(1), res.RowsAffected, "mode %s", d.Mode())

		res, err = d.Run(ctx, selectAll)
		require.NoError(t, err, "mode %s", d.Mode())
		results = append(results, res.Rows)
	}

	want := &wire.ResultSet{
		Columns:     []string{"id", "label", "value", "taken_at", "day", "raw"},
		ColumnTypes: []wire.Type{wire.TypeInt64, wire.TypeText, wire.TypeNumeric, wire.TypeDateTime, wire.TypeDate, wire.TypeBytes},
		Rows: [][]any{{
			int64(9007199254740993),
			"héllo",
			"-12.500",
			at,
			time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
			[]byte{0, 1, 0xff},
		}},
	}
	require.Equal(t, want, results[0], "native")
	require.Equal(t, want, results[1], "bridged")
}

func TestBridgeBackend_RemoteError(t *testing.T) {
	d := setupBridge(t, setupTestDuckDB(t))

	_, err := d.QueryRaw(context.Background(), Query{SQL: "SELECT * FROM no_such_table"})
	require.Error(t, err)

	var bErr *apierror.BridgeError
	require.ErrorAs(t, err, &bErr)
	require.Equal(t, apierror.CodeObjectNotFound, bErr.Code)
	require.ErrorIs(t, err, apierror.NewBridgeError(apierror.CodeObjectNotFound, ""))
}

func TestBridgeBackend_RequestID(t *testing.T) {
	ids := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids <- r.Header.Get("X-Request-Id")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"rowsAffected":7}}`))
	}))
	t.Cleanup(srv.Close)

	b := NewBridgeBackend(srv.URL+"/", time.Second)
	n, err := b.ExecuteRaw(context.Background(), Query{SQL: "DELETE FROM t"})
	require.NoError(t, err)
	require.Equal(t, int64(7), n)
	require.Len(t, <-ids, 36)
}

func TestBridgeBackend_BadResponses(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "NotJSON", status: http.StatusBadGateway, body: "<html>bad gateway</html>"},
		{name: "FailureWithoutCode", status: http.StatusInternalServerError, body: `{"success":false}`},
		{name: "SuccessWithoutData", status: http.StatusOK, body: `{"success":true}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			t.Cleanup(srv.Close)

			_, err := NewBridgeBackend(srv.URL, time.Second).ExecuteRaw(context.Background(), Query{SQL: "DELETE FROM t"})
			require.Error(t, err)
		})
	}
}

func TestBridgeBackend_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	d := New(Bridged, NewBridgeBackend(url, time.Second))
	_, err := d.QueryRaw(context.Background(), Query{SQL: "SELECT 1"})

	var cErr *ConnectorError
	require.ErrorAs(t, err, &cErr)
	require.Equal(t, "query", cErr.Op)
}

func TestOpen(t *testing.T) {
	t.Run("Native", func(t *testing.T) {
		d, err := Open(&config.Config{Mode: config.ModeNative})
		require.NoError(t, err)
		t.Cleanup(func() { _ = d.Close() })
		require.Equal(t, Native, d.Mode())

		res, err := d.Run(context.Background(), Query{SQL: "SELECT 42 AS answer"})
		require.NoError(t, err)
		require.Equal(t, [][]any{{int32(42)}}, res.Rows.Rows)
	})

	t.Run("Bridged", func(t *testing.T) {
		d, err := Open(&config.Config{Mode: config.ModeBridged, BridgeURL: "http://127.0.0.1:1", BridgeTimeout: time.Second})
		require.NoError(t, err)
		require.Equal(t, Bridged, d.Mode())
		require.NoError(t, d.Close())
	})

	t.Run("UnknownMode", func(t *testing.T) {
		_, err := Open(&config.Config{Mode: "hybrid"})
		require.Error(t, err)
	})
}
