package repository

import "time"

type poolConfig struct {
	maxOpenConns    int
	maxIdleConns    int
	connMaxLifetime time.Duration
	connectTimeout  time.Duration
}

func defaultPoolConfig() poolConfig {
	return poolConfig{
		maxOpenConns:    10,
		maxIdleConns:    5,
		connMaxLifetime: 5 * time.Minute,
		connectTimeout:  5 * time.Second,
	}
}

// Option applies a configuration option to the pool opened by Open.
type Option func(*poolConfig)

// WithMaxOpenConns caps the number of open connections.
func WithMaxOpenConns(n int) Option {
	return func(c *poolConfig) {
		if n > 0 {
			c.maxOpenConns = n
		}
	}
}

// WithMaxIdleConns caps the number of idle connections kept by database/sql
// pools. pgxpool manages idle connections itself and ignores it.
func WithMaxIdleConns(n int) Option {
	return func(c *poolConfig) {
		if n > 0 {
			c.maxIdleConns = n
		}
	}
}

// WithConnMaxLifetime recycles connections older than d.
func WithConnMaxLifetime(d time.Duration) Option {
	return func(c *poolConfig) {
		if d > 0 {
			c.connMaxLifetime = d
		}
	}
}

// WithConnectTimeout bounds the startup ping.
func WithConnectTimeout(d time.Duration) Option {
	return func(c *poolConfig) {
		if d > 0 {
			c.connectTimeout = d
		}
	}
}
