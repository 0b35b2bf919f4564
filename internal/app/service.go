// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/okian/contacts/internal/adapters/repository"
	"github.com/okian/contacts/internal/domain/contact"
	"github.com/okian/contacts/pkg/logger"
	"github.com/okian/contacts/pkg/metrics"
	"github.com/okian/contacts/pkg/tracing"
)

// QuerySpanName names the span wrapping the contacts query.
const QuerySpanName = "Querying contacts from DB"

const opListContacts = "list_contacts"

// Service implements the API dependencies for the contacts endpoint.
type Service struct {
	mu     sync.RWMutex
	closed bool

	store        repository.Store
	queryTimeout time.Duration

	logger logger.Logger
	tracer trace.Tracer
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTracer sets the tracer used for the query span.
func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithQueryTimeout bounds each contacts query. Zero leaves only the caller's
// context in charge.
func WithQueryTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.queryTimeout = d
		}
	}
}

// New constructs a Service reading through store.
func New(store repository.Store, opts ...Option) *Service {
	s := &Service{store: store}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.tracer == nil {
		s.tracer = tracing.Tracer()
	}
	return s
}

// ListContacts returns every contact. On failure it logs the cause once and
// returns an error wrapping ErrQueryContacts.
func (s *Service) ListContacts(ctx context.Context) ([]contact.Contact, error) {
	ctx, span := s.tracer.Start(ctx, QuerySpanName,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.operation", "SELECT"),
			attribute.String("db.sql.table", contact.Table),
		),
	)
	defer span.End()

	if s.queryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.queryTimeout)
		defer cancel()
	}

	start := time.Now()
	contacts, err := s.store.List(ctx)
	elapsed := float64(time.Since(start).Microseconds()) / 1000

	if err != nil {
		kind := repository.KindOf(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, ErrQueryContacts.Error())
		span.SetAttributes(attribute.String("error.kind", kind.String()))

		metrics.RecordQuery(opListContacts, "error", elapsed)
		metrics.RecordQueryError(opListContacts, kind.String())

		s.logger.Error(ctx, "failed to execute query",
			logger.Error(err),
			logger.String("kind", kind.String()),
			logger.Float64("duration_ms", elapsed),
		)
		return nil, fmt.Errorf("%w: %w", ErrQueryContacts, err)
	}

	if contacts == nil {
		contacts = []contact.Contact{}
	}
	span.SetAttributes(attribute.Int("db.rows", len(contacts)))
	metrics.RecordQuery(opListContacts, "ok", elapsed)
	metrics.RecordContactsRead(len(contacts))

	s.logger.Debug(ctx, "contacts queried",
		logger.Int("rows", len(contacts)),
		logger.Float64("duration_ms", elapsed),
	)
	return contacts, nil
}

// Ready reports whether the store can serve queries.
func (s *Service) Ready(ctx context.Context) error {
	s.mu.RLock()
	closed := s.closed
	s.mu.RUnlock()
	if closed {
		return ErrServiceClosed
	}
	if err := s.store.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrNotReady, err)
	}
	return nil
}

// PoolSnapshot returns the pool gauges published to metrics.
func (s *Service) PoolSnapshot() metrics.PoolSnapshot {
	return snapshot(s.store.Stats())
}

func snapshot(st repository.PoolStats) metrics.PoolSnapshot {
	return metrics.PoolSnapshot{
		MaxOpen:   st.MaxOpen,
		Open:      st.Open,
		InUse:     st.InUse,
		Idle:      st.Idle,
		WaitCount: st.WaitCount,
	}
}

// Stats is the service state reported on /stats. Driver and Pool are unset
// once the service is closed.
type Stats struct {
	Closed         bool                  `json:"closed"`
	QueryTimeoutMS int64                 `json:"query_timeout_ms"`
	Driver         string                `json:"driver,omitempty"`
	Pool           *repository.PoolStats `json:"pool,omitempty"`
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{
		Closed:         s.closed,
		QueryTimeoutMS: s.queryTimeout.Milliseconds(),
	}
	if s.closed {
		return stats
	}

	st := s.store.Stats()
	stats.Driver = st.Driver
	stats.Pool = &st

	metrics.UpdatePoolStats(snapshot(st))
	return stats
}

// Close releases the store. Calling it again is a no-op.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	s.logger.Info(context.Background(), "closing contacts store")
	if err := s.store.Close(); err != nil && !errors.Is(err, repository.ErrClosed) {
		return fmt.Errorf("close store: %w", err)
	}
	return nil
}
