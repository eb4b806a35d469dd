// Package main runs a bridge host: an HTTP service that executes raw
// statements for bridged connectors against a local database driver.
package main

import (
	"database/sql"
	"log"
	"net/http"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	_ "github.com/snowflakedb/gosnowflake"

	"github.com/nnnkkk7/typebridge/pkg/config"
	"github.com/nnnkkk7/typebridge/pkg/connection"
	"github.com/nnnkkk7/typebridge/server/handlers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	driver, dsn, err := cfg.BridgeDSN()
	if err != nil {
		log.Fatalf("Failed to build data source name: %v", err)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Failed to close database: %v", err)
		}
	}()

	connMgr := connection.NewManager(db)
	bridgeHandler := handlers.NewBridgeHandler(connMgr, driver)

	server := &http.Server{
		Addr:         cfg.BridgeAddr,
		Handler:      handlers.NewRouter(bridgeHandler),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Starting bridge host for %s on %s", driver, cfg.BridgeAddr)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("Server failed: %v", err) //nolint:gocritic // exitAfterDefer: intentional - OS cleans up on exit
	}
}
