package repository

import (
	"context"
	"fmt"
)

// Driver names accepted by Open.
const (
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// Open creates the process-wide pool for driver and verifies it with a ping.
// sqlite, mysql and postgres go through database/sql; pgx uses pgxpool.
func Open(ctx context.Context, driver, dsn string, opts ...Option) (Store, error) {
	cfg := defaultPoolConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	switch driver {
	case DriverSQLite, DriverMySQL, DriverPostgres:
		return openSQL(ctx, driver, dsn, cfg)
	case DriverPgx:
		return openPgx(ctx, dsn, cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
}
