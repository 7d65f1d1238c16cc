// Package perf records in-process spans for a single CLI run and exports them
// as a JSON artifact when --perf is set.
package perf

import (
	"context"
	"errors"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const tracerName = "github.com/localizedstringkit/lsk"

var ErrDisabled = errors.New("performance tracing is disabled")

type Config struct {
	Enabled bool
}

type state struct {
	provider *sdktrace.TracerProvider
	exporter *spanExporter
	tracer   trace.Tracer
}

var (
	mu      sync.Mutex
	current *state
)

// Init installs a tracer for the rest of the process. Spans started while
// disabled are no-ops.
func Init(cfg Config) error {
	mu.Lock()
	defer mu.Unlock()

	if current != nil {
		if err := current.provider.Shutdown(context.Background()); err != nil {
			return err
		}
		current = nil
	}

	if !cfg.Enabled {
		return nil
	}

	exporter := newSpanExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	current = &state{
		provider: provider,
		exporter: exporter,
		tracer:   provider.Tracer(tracerName),
	}
	return nil
}

// Reset drops the tracer and every recorded span.
func Reset() {
	mu.Lock()
	defer mu.Unlock()

	if current == nil {
		return
	}
	_ = current.provider.Shutdown(context.Background())
	current.exporter.Reset()
	current = nil
}

func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return current != nil
}

func tracer() trace.Tracer {
	mu.Lock()
	defer mu.Unlock()
	if current == nil {
		return noop.NewTracerProvider().Tracer(tracerName)
	}
	return current.tracer
}

// SnapshotSpans returns every span ended so far.
func SnapshotSpans() ([]sdktrace.ReadOnlySpan, error) {
	mu.Lock()
	defer mu.Unlock()
	if current == nil {
		return nil, ErrDisabled
	}
	return current.exporter.Snapshot(), nil
}

type Span struct {
	span trace.Span
}

type spanConfig struct {
	attributes []attribute.KeyValue
}

type SpanOption func(*spanConfig)

func WithAttributes(attrs ...attribute.KeyValue) SpanOption {
	return func(cfg *spanConfig) {
		cfg.attributes = append(cfg.attributes, attrs...)
	}
}

type EventOption func(*spanConfig)

func WithEventAttributes(attrs ...attribute.KeyValue) EventOption {
	return func(cfg *spanConfig) {
		cfg.attributes = append(cfg.attributes, attrs...)
	}
}

// StartSpan starts a child of the span carried by ctx. A nil ctx starts a root span.
func StartSpan(ctx context.Context, name string, opts ...SpanOption) (context.Context, *Span) {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg := spanConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	ctx, span := tracer().Start(ctx, name, trace.WithAttributes(cfg.attributes...))
	return ctx, &Span{span: span}
}

func (s *Span) End() {
	if s == nil {
		return
	}
	s.span.End()
}

func (s *Span) SetAttributes(attrs ...attribute.KeyValue) {
	if s == nil {
		return
	}
	s.span.SetAttributes(attrs...)
}

func (s *Span) AddEvent(name string, opts ...EventOption) {
	if s == nil {
		return
	}
	cfg := spanConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	s.span.AddEvent(name, trace.WithAttributes(cfg.attributes...))
}

// RecordError marks the span as failed. A nil err is ignored.
func (s *Span) RecordError(err error) {
	if s == nil || err == nil {
		return
	}
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}
