// Example: running the same statements in native and bridged mode
//
// This example validates a small model, creates its table in an in-memory
// DuckDB database and writes and reads it twice: once through the native
// connector and once through a bridge host served in-process.
//
// Run this example:
//
//	go run ./example/embedded
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http/httptest"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/nnnkkk7/typebridge/pkg/connection"
	"github.com/nnnkkk7/typebridge/pkg/connector"
	"github.com/nnnkkk7/typebridge/pkg/engine"
	"github.com/nnnkkk7/typebridge/pkg/schema"
	"github.com/nnnkkk7/typebridge/pkg/types"
	"github.com/nnnkkk7/typebridge/pkg/value"
	"github.com/nnnkkk7/typebridge/server/handlers"
)

func main() {
	fmt.Println("=== typebridge embedded example ===")

	fields, err := schema.Validator{Connector: types.DuckDB}.ValidateModel([]schema.FieldDescriptor{
		{Model: "Place", Name: "id", Type: types.TypeBigInt},
		{Model: "Place", Name: "price", Type: types.TypeDecimal, Native: &schema.NativeAnnotation{Name: "Decimal", Args: []string{"10", "2"}}},
		{Model: "Place", Name: "opened_at", Type: types.TypeDateTime, Native: &schema.NativeAnnotation{Name: "Timestamp"}},
		{Model: "Place", Name: "pos", Type: types.TypeGeoJSON, Native: &schema.NativeAnnotation{Name: "Geometry", Args: []string{"Point", "4326"}}},
	})
	if err != nil {
		log.Fatalf("Invalid model: %v", err)
	}

	for _, mode := range []connector.Mode{connector.Native, connector.Bridged} {
		if err := run(mode, fields); err != nil {
			log.Fatalf("%s: %v", mode, err)
		}
	}
}

func run(mode connector.Mode, fields []schema.Field) error {
	ctx := context.Background()

	db, err := sql.Open("duckdb", "")
	if err != nil {
		return fmt.Errorf("open duckdb: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(schema.DuckDBTable("places", fields)); err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	var backend connector.Backend
	switch mode {
	case connector.Native:
		backend = connector.NewNativeBackend(db)
	case connector.Bridged:
		srv := httptest.NewServer(handlers.NewRouter(handlers.NewBridgeHandler(connection.NewManager(db), "duckdb")))
		defer srv.Close()
		backend = connector.NewBridgeBackend(srv.URL, 10*time.Second)
	}

	e := engine.New(connector.New(mode, backend))
	defer e.Close()

	params := []engine.Param{
		{Type: fields[0].Native, Value: value.Int(1)},
		{Type: fields[1].Native, Value: value.MustDecimal("12.5")},
		{Type: fields[2].Native, Value: value.MustDateTime("2024-05-01T09:30:00.123456789Z")},
		{Type: fields[3].Native, Value: value.String("POINT(13.4 52.5)")},
	}
	if _, err := e.Execute(ctx, `INSERT INTO places VALUES (?, ?, ?, ?)`, params); err != nil {
		return err
	}

	rows, err := e.QueryFields(ctx, `SELECT id, price, opened_at, pos FROM places`, nil, fields)
	if err != nil {
		return err
	}

	fmt.Printf("\n--- %s ---\n", mode)
	for _, row := range rows {
		for i, v := range row {
			fmt.Printf("  %-10s %s\n", fields[i].Descriptor.Name, v)
		}
	}
	return nil
}
