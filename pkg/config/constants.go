// Package config provides configuration for typebridge connectors and
// bridge hosts.
package config

import "time"

// Connector modes.
const (
	ModeNative  = "native"
	ModeBridged = "bridged"
)

// Drivers a bridge host can wrap.
const (
	DriverDuckDB    = "duckdb"
	DriverSnowflake = "snowflake"
)

// Defaults.
const (
	DefaultMode          = ModeNative
	DefaultDuckDBPath    = "" // in-memory
	DefaultBridgeAddr    = ":8765"
	DefaultBridgeDriver  = DriverDuckDB
	DefaultBridgeTimeout = 30 * time.Second

	DefaultSnowflakeProtocol = "https"
	DefaultSnowflakePort     = 443
)

// Environment variable names.
const (
	EnvMode          = "TYPEBRIDGE_MODE"
	EnvDuckDBPath    = "DUCKDB_PATH"
	EnvBridgeURL     = "BRIDGE_URL"
	EnvBridgeAddr    = "BRIDGE_ADDR"
	EnvBridgeDriver  = "BRIDGE_DRIVER"
	EnvBridgeTimeout = "BRIDGE_TIMEOUT"

	EnvSnowflakeAccount   = "SNOWFLAKE_ACCOUNT"
	EnvSnowflakeUser      = "SNOWFLAKE_USER"
	EnvSnowflakePassword  = "SNOWFLAKE_PASSWORD"
	EnvSnowflakeDatabase  = "SNOWFLAKE_DATABASE"
	EnvSnowflakeSchema    = "SNOWFLAKE_SCHEMA"
	EnvSnowflakeWarehouse = "SNOWFLAKE_WAREHOUSE"
	EnvSnowflakeHost      = "SNOWFLAKE_HOST"
	EnvSnowflakePort      = "SNOWFLAKE_PORT"
	EnvSnowflakeProtocol  = "SNOWFLAKE_PROTOCOL"
)
