package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/snowflakedb/gosnowflake"
)

// Config selects the connector mode and the settings of each backend. The
// mode is read once at startup.
type Config struct {
	Mode       string
	DuckDBPath string

	// BridgeURL is where a bridged connector sends requests.
	BridgeURL     string
	BridgeTimeout time.Duration

	// BridgeAddr and BridgeDriver configure a bridge host.
	BridgeAddr   string
	BridgeDriver string

	Snowflake SnowflakeConfig
}

// SnowflakeConfig holds the settings a bridge host needs to wrap the
// Snowflake driver.
type SnowflakeConfig struct {
	Account   string
	User      string
	Password  string
	Database  string
	Schema    string
	Warehouse string
	Host      string
	Port      int
	Protocol  string
}

// Load reads the given .env files (".env" when none are named) into the
// process environment and then builds a Config from it. Missing files are
// skipped. Variables already set in the environment win.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables alone.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Mode:          strings.ToLower(getenv(EnvMode, DefaultMode)),
		DuckDBPath:    getenv(EnvDuckDBPath, DefaultDuckDBPath),
		BridgeURL:     os.Getenv(EnvBridgeURL),
		BridgeTimeout: DefaultBridgeTimeout,
		BridgeAddr:    getenv(EnvBridgeAddr, DefaultBridgeAddr),
		BridgeDriver:  strings.ToLower(getenv(EnvBridgeDriver, DefaultBridgeDriver)),
		Snowflake: SnowflakeConfig{
			Account:   os.Getenv(EnvSnowflakeAccount),
			User:      os.Getenv(EnvSnowflakeUser),
			Password:  os.Getenv(EnvSnowflakePassword),
			Database:  os.Getenv(EnvSnowflakeDatabase),
			Schema:    os.Getenv(EnvSnowflakeSchema),
			Warehouse: os.Getenv(EnvSnowflakeWarehouse),
			Host:      os.Getenv(EnvSnowflakeHost),
			Port:      DefaultSnowflakePort,
			Protocol:  getenv(EnvSnowflakeProtocol, DefaultSnowflakeProtocol),
		},
	}

	if s := os.Getenv(EnvBridgeTimeout); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", EnvBridgeTimeout, s, err)
		}
		cfg.BridgeTimeout = d
	}
	if s := os.Getenv(EnvSnowflakePort); s != "" {
		port, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", EnvSnowflakePort, s, err)
		}
		cfg.Snowflake.Port = port
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings the selected mode depends on.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeNative:
	case ModeBridged:
		if c.BridgeURL == "" {
			return fmt.Errorf("%s is required in %s mode", EnvBridgeURL, ModeBridged)
		}
	default:
		return fmt.Errorf("invalid %s %q: want %s or %s", EnvMode, c.Mode, ModeNative, ModeBridged)
	}
	switch c.BridgeDriver {
	case DriverDuckDB, DriverSnowflake:
	default:
		return fmt.Errorf("invalid %s %q: want %s or %s", EnvBridgeDriver, c.BridgeDriver, DriverDuckDB, DriverSnowflake)
	}
	if c.BridgeTimeout <= 0 {
		return fmt.Errorf("%s must be positive", EnvBridgeTimeout)
	}
	return nil
}

// BridgeDSN returns the database/sql driver name and data source name a
// bridge host opens.
func (c *Config) BridgeDSN() (driver, dsn string, err error) {
	switch c.BridgeDriver {
	case DriverDuckDB:
		return DriverDuckDB, c.DuckDBPath, nil
	case DriverSnowflake:
		dsn, err := c.Snowflake.DSN()
		return DriverSnowflake, dsn, err
	}
	return "", "", fmt.Errorf("unsupported bridge driver %q", c.BridgeDriver)
}

// DSN builds a gosnowflake data source name.
func (s SnowflakeConfig) DSN() (string, error) {
	if s.Account == "" || s.User == "" {
		return "", fmt.Errorf("%s and %s are required", EnvSnowflakeAccount, EnvSnowflakeUser)
	}
	return gosnowflake.DSN(&gosnowflake.Config{
		Account:   s.Account,
		User:      s.User,
		Password:  s.Password,
		Database:  s.Database,
		Schema:    s.Schema,
		Warehouse: s.Warehouse,
		Host:      s.Host,
		Port:      s.Port,
		Protocol:  s.Protocol,
	})
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
