// Package tracing configures the OpenTelemetry tracer provider used by the
// service.
package tracing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentationName names the tracer used across the service.
const InstrumentationName = "github.com/okian/contacts"

// Exporter names accepted by WithExporter.
const (
	ExporterNone   = "none"
	ExporterStdout = "stdout"
)

// ErrUnknownExporter is returned for an exporter name Init does not know.
var ErrUnknownExporter = errors.New("unknown trace exporter")

// Provider owns the SDK tracer provider and its shutdown.
type Provider struct {
	tp *sdktrace.TracerProvider
}

type settings struct {
	serviceName string
	exporter    string
	writer      io.Writer
	spanSyncer  sdktrace.SpanExporter
}

// Option configures Init.
type Option func(*settings)

// WithServiceName sets the service.name resource attribute.
func WithServiceName(name string) Option {
	return func(s *settings) {
		if name != "" {
			s.serviceName = name
		}
	}
}

// WithExporter selects the exporter by name ("none" or "stdout").
func WithExporter(name string) Option {
	return func(s *settings) {
		s.exporter = strings.ToLower(strings.TrimSpace(name))
	}
}

// WithWriter sets the destination of the stdout exporter.
func WithWriter(w io.Writer) Option {
	return func(s *settings) {
		if w != nil {
			s.writer = w
		}
	}
}

// WithSyncExporter registers an extra exporter that receives spans as they
// end. Tests use it with an in-memory exporter.
func WithSyncExporter(exp sdktrace.SpanExporter) Option {
	return func(s *settings) {
		s.spanSyncer = exp
	}
}

// Init builds a tracer provider and installs it as the global provider.
func Init(_ context.Context, opts ...Option) (*Provider, error) {
	s := &settings{
		serviceName: "contacts",
		exporter:    ExporterNone,
		writer:      os.Stdout,
	}
	for _, opt := range opts {
		opt(s)
	}

	res := resource.NewSchemaless(attribute.String("service.name", s.serviceName))
	tpOpts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	}

	switch s.exporter {
	case "", ExporterNone:
	case ExporterStdout:
		exp, err := stdouttrace.New(stdouttrace.WithWriter(s.writer))
		if err != nil {
			return nil, fmt.Errorf("create stdout exporter: %w", err)
		}
		tpOpts = append(tpOpts, sdktrace.WithBatcher(exp))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownExporter, s.exporter)
	}
	if s.spanSyncer != nil {
		tpOpts = append(tpOpts, sdktrace.WithSyncer(s.spanSyncer))
	}

	tp := sdktrace.NewTracerProvider(tpOpts...)
	otel.SetTracerProvider(tp)
	return &Provider{tp: tp}, nil
}

// Tracer returns the service tracer from the provider.
func (p *Provider) Tracer() trace.Tracer {
	return p.tp.Tracer(InstrumentationName)
}

// Shutdown flushes pending spans and stops the provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	if err := p.tp.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown tracer provider: %w", err)
	}
	return nil
}

// Tracer returns the service tracer from the global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(InstrumentationName)
}
