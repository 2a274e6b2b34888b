package config

import (
	"fmt"
	"strings"
)

// Supported product store drivers.
const (
	StoreDriverPostgres     = "postgres"
	StoreDriverGormPostgres = "gorm-postgres"
	StoreDriverSQLite       = "sqlite"
	StoreDriverMemory       = "memory"
)

// StoreConfig selects the product store implementation.
type StoreConfig struct {
	Driver string `koanf:"driver"`
	SQLite struct {
		Path string `koanf:"path"`
	} `koanf:"sqlite"`
}

// String returns a string representation of the store configuration.
func (c *StoreConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Store ---\n")
	b.WriteString(fmt.Sprintf("  driver: %s\n", c.Driver))
	if c.Driver == StoreDriverSQLite {
		b.WriteString(fmt.Sprintf("  sqlite.path: %s\n", c.SQLite.Path))
	}
	return b.String()
}

func (c *StoreConfig) Validate() error {
	switch c.Driver {
	case StoreDriverPostgres, StoreDriverGormPostgres, StoreDriverMemory:
		return nil
	case StoreDriverSQLite:
		if c.SQLite.Path == "" {
			return fmt.Errorf("sqlite store path is not configured")
		}
		return nil
	case "":
		return fmt.Errorf("store driver is not configured")
	default:
		return fmt.Errorf("unsupported store driver: %q", c.Driver)
	}
}

// UsesDatabase reports whether the driver connects to the database section's URL.
func (c *StoreConfig) UsesDatabase() bool {
	return c.Driver == StoreDriverPostgres || c.Driver == StoreDriverGormPostgres
}
