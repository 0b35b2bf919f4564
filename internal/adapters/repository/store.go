// Package repository reads contacts from a relational database through a
// shared connection pool.
package repository

import (
	"context"
	"time"

	"github.com/okian/contacts/internal/domain/contact"
)

// Store provides read access to the contacts table.
type Store interface {
	// List runs the fixed contacts SELECT and returns every row. It borrows
	// one pooled connection for the duration of the query and releases it on
	// every return path. An empty table yields an empty, non-nil slice.
	List(ctx context.Context) ([]contact.Contact, error)

	// Ping verifies a connection can be acquired and used.
	Ping(ctx context.Context) error

	// Stats reports the current pool state.
	Stats() PoolStats

	// Close releases the pool. It is safe to call more than once; List and
	// Ping return ErrClosed afterwards.
	Close() error
}

// PoolStats is a driver-independent view of the pool.
type PoolStats struct {
	Driver       string        `json:"driver"`
	MaxOpen      int           `json:"max_open"`
	Open         int           `json:"open"`
	InUse        int           `json:"in_use"`
	Idle         int           `json:"idle"`
	WaitCount    int64         `json:"wait_count"`
	WaitDuration time.Duration `json:"wait_duration_ns"`
}
