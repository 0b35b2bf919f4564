package repository

import (
	"context"
	"fmt"
	"sync/atomic"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/okian/contacts/internal/domain/contact"
)

func init() {
	// modernc registers as "sqlite", which sqlx does not know.
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// SQLStore is a Store on database/sql through sqlx. It serves the sqlite,
// mysql and postgres (lib/pq) drivers.
type SQLStore struct {
	db     *sqlx.DB
	driver string
	query  string
	closed atomic.Bool
}

// NewSQLStore wraps an open handle. The store owns db from then on and closes
// it in Close.
func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{
		db:     db,
		driver: db.DriverName(),
		query:  contact.SelectAll(),
	}
}

func openSQL(ctx context.Context, driverName, dsn string, cfg poolConfig) (*SQLStore, error) {
	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConnect, driverName, err)
	}

	db.SetMaxOpenConns(cfg.maxOpenConns)
	db.SetMaxIdleConns(cfg.maxIdleConns)
	db.SetConnMaxLifetime(cfg.connMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.connectTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close() // ping error wins
		return nil, fmt.Errorf("%w: %s: %w", ErrConnect, driverName, err)
	}

	return NewSQLStore(db), nil
}

// List implements Store.
func (s *SQLStore) List(ctx context.Context) ([]contact.Contact, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	contacts := []contact.Contact{}
	// SelectContext closes its rows, returning the connection to the pool.
	if err := s.db.SelectContext(ctx, &contacts, s.query); err != nil {
		return nil, fmt.Errorf("select contacts: %w", err)
	}
	return contacts, nil
}

// Ping implements Store.
func (s *SQLStore) Ping(ctx context.Context) error {
	if s.closed.Load() {
		return ErrClosed
	}
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping %s: %w", s.driver, err)
	}
	return nil
}

// Stats implements Store.
func (s *SQLStore) Stats() PoolStats {
	st := s.db.Stats()
	return PoolStats{
		Driver:       s.driver,
		MaxOpen:      st.MaxOpenConnections,
		Open:         st.OpenConnections,
		InUse:        st.InUse,
		Idle:         st.Idle,
		WaitCount:    st.WaitCount,
		WaitDuration: st.WaitDuration,
	}
}

// Close implements Store.
func (s *SQLStore) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close %s pool: %w", s.driver, err)
	}
	return nil
}
