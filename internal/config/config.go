// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New returns a Config populated with defaults.
// - Load layers defaults, an optional YAML file and environment variables.
// - External errors are wrapped with this package's sentinel errors.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the slog handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// ServiceName is reported on traces.
	ServiceName string `koanf:"service_name"`

	// DatabaseDriver selects the store: sqlite, mysql, postgres (lib/pq) or
	// pgx (native pool).
	DatabaseDriver string `koanf:"database_driver"`

	// DatabaseDSN is handed to the driver unchanged.
	DatabaseDSN string `koanf:"database_dsn"`

	// Pool sizing. Zero means the driver default.
	DatabaseMaxOpenConns      int `koanf:"database_max_open_conns"`
	DatabaseMaxIdleConns      int `koanf:"database_max_idle_conns"`
	DatabaseConnMaxLifetimeMS int `koanf:"database_conn_max_lifetime_ms"`

	// DatabaseConnectTimeoutMS bounds the startup ping.
	DatabaseConnectTimeoutMS int `koanf:"database_connect_timeout_ms"`

	// QueryTimeoutMS bounds each contacts query. Zero disables the deadline;
	// the request context still applies.
	QueryTimeoutMS int `koanf:"query_timeout_ms"`

	// TraceExporter is none or stdout.
	TraceExporter string `koanf:"trace_exporter"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:                  "info",
		LogFormat:                 "text",
		Addr:                      ":9080",
		ServiceName:               "contacts",
		DatabaseDriver:            "sqlite",
		DatabaseDSN:               "file:contacts.db?mode=ro",
		DatabaseMaxOpenConns:      10,
		DatabaseMaxIdleConns:      5,
		DatabaseConnMaxLifetimeMS: 5 * 60 * 1000,
		DatabaseConnectTimeoutMS:  5000,
		QueryTimeoutMS:            0,
		TraceExporter:             "none",
	}
}

var supportedDrivers = map[string]bool{
	"sqlite":   true,
	"mysql":    true,
	"postgres": true,
	"pgx":      true,
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case !supportedDrivers[c.DatabaseDriver]:
		return fmt.Errorf("%w: unsupported database_driver %q", ErrInvalidConfig, c.DatabaseDriver)
	case strings.TrimSpace(c.DatabaseDSN) == "":
		return fmt.Errorf("%w: database_dsn must not be empty", ErrInvalidConfig)
	case c.DatabaseMaxOpenConns < 0, c.DatabaseMaxIdleConns < 0:
		return fmt.Errorf("%w: pool sizes must not be negative", ErrInvalidConfig)
	case c.DatabaseConnMaxLifetimeMS < 0, c.DatabaseConnectTimeoutMS < 0, c.QueryTimeoutMS < 0:
		return fmt.Errorf("%w: timeouts must not be negative", ErrInvalidConfig)
	}
	return nil
}

// ConnMaxLifetime returns DatabaseConnMaxLifetimeMS as a duration.
func (c *Config) ConnMaxLifetime() time.Duration {
	return time.Duration(c.DatabaseConnMaxLifetimeMS) * time.Millisecond
}

// ConnectTimeout returns DatabaseConnectTimeoutMS as a duration.
func (c *Config) ConnectTimeout() time.Duration {
	return time.Duration(c.DatabaseConnectTimeoutMS) * time.Millisecond
}

// QueryTimeout returns QueryTimeoutMS as a duration.
func (c *Config) QueryTimeout() time.Duration {
	return time.Duration(c.QueryTimeoutMS) * time.Millisecond
}
