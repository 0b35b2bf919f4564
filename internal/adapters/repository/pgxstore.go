package repository

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okian/contacts/internal/domain/contact"
)

// DriverPgx names the native pgx pool store.
const DriverPgx = "pgx"

// PgxStore is a Store on a native pgx connection pool.
type PgxStore struct {
	pool   *pgxpool.Pool
	query  string
	closed atomic.Bool
}

// NewPgxStore wraps an existing pool. The store owns pool from then on and
// closes it in Close.
func NewPgxStore(pool *pgxpool.Pool) *PgxStore {
	return &PgxStore{
		pool:  pool,
		query: contact.SelectAll(),
	}
}

func openPgx(ctx context.Context, dsn string, cfg poolConfig) (*PgxStore, error) {
	pcfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConnect, DriverPgx, err)
	}
	if cfg.maxOpenConns > 0 && cfg.maxOpenConns <= math.MaxInt32 {
		pcfg.MaxConns = int32(cfg.maxOpenConns)
	}
	pcfg.MaxConnLifetime = cfg.connMaxLifetime

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConnect, DriverPgx, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.connectTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: %s: %w", ErrConnect, DriverPgx, err)
	}
	return NewPgxStore(pool), nil
}

// List implements Store.
func (s *PgxStore) List(ctx context.Context) ([]contact.Contact, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	rows, err := s.pool.Query(ctx, s.query)
	if err != nil {
		return nil, fmt.Errorf("select contacts: %w", err)
	}
	// CollectRows closes rows on every path, releasing the connection.
	contacts, err := pgx.CollectRows(rows, pgx.RowToStructByName[contact.Contact])
	if err != nil {
		return nil, fmt.Errorf("scan contacts: %w", err)
	}
	if contacts == nil {
		contacts = []contact.Contact{}
	}
	return contacts, nil
}

// Ping implements Store.
func (s *PgxStore) Ping(ctx context.Context) error {
	if s.closed.Load() {
		return ErrClosed
	}
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping %s: %w", DriverPgx, err)
	}
	return nil
}

// Stats implements Store. EmptyAcquireCount stands in for the wait count.
func (s *PgxStore) Stats() PoolStats {
	st := s.pool.Stat()
	return PoolStats{
		Driver:       DriverPgx,
		MaxOpen:      int(st.MaxConns()),
		Open:         int(st.TotalConns()),
		InUse:        int(st.AcquiredConns()),
		Idle:         int(st.IdleConns()),
		WaitCount:    st.EmptyAcquireCount(),
		WaitDuration: st.AcquireDuration(),
	}
}

// Close implements Store.
func (s *PgxStore) Close() error {
	if s.closed.CompareAndSwap(false, true) {
		s.pool.Close()
	}
	return nil
}
