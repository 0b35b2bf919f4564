package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Sentinel kinds for store errors.
var (
	ErrClosed            = errors.New("contacts store closed")
	ErrUnsupportedDriver = errors.New("unsupported database driver")
	ErrConnect           = errors.New("connect to database failed")
)

// Kind is a coarse classification of a database failure. It feeds logs and
// metrics; clients see the same response for every kind.
type Kind int

// Failure kinds.
const (
	KindInternal Kind = iota
	KindUnavailable
	KindTimeout
	KindCanceled
)

func (k Kind) String() string {
	switch k {
	case KindUnavailable:
		return "unavailable"
	case KindTimeout:
		return "timeout"
	case KindCanceled:
		return "canceled"
	default:
		return "internal"
	}
}

// MySQL server error numbers treated as unavailability or timeout.
const (
	mysqlTooManyConnections  = 1040
	mysqlServerShutdown      = 1053
	mysqlMaxExecutionTimeout = 3024
)

// KindOf classifies err. Unknown errors, including nil, are KindInternal.
func KindOf(err error) Kind {
	if err == nil {
		return KindInternal
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, context.Canceled):
		return KindCanceled
	case errors.Is(err, ErrClosed),
		errors.Is(err, sql.ErrConnDone),
		errors.Is(err, driver.ErrBadConn),
		errors.Is(err, mysql.ErrInvalidConn):
		return KindUnavailable
	}

	if pgconn.Timeout(err) {
		return KindTimeout
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return kindOfSQLState(pgErr.Code)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return kindOfSQLState(string(pqErr.Code))
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlTooManyConnections, mysqlServerShutdown:
			return KindUnavailable
		case mysqlMaxExecutionTimeout:
			return KindTimeout
		}
		return KindInternal
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() & 0xff {
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED, sqlite3.SQLITE_CANTOPEN:
			return KindUnavailable
		}
		return KindInternal
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return KindUnavailable
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return KindTimeout
		}
		return KindUnavailable
	}
	return KindInternal
}

// kindOfSQLState maps PostgreSQL SQLSTATE codes.
func kindOfSQLState(code string) Kind {
	switch {
	case len(code) >= 2 && code[:2] == "08": // connection exception
		return KindUnavailable
	case code == "53300", code == "57P01", code == "57P02", code == "57P03":
		// too_many_connections, admin_shutdown, crash_shutdown, cannot_connect_now
		return KindUnavailable
	case code == "57014": // query_canceled (statement_timeout)
		return KindTimeout
	}
	return KindInternal
}
