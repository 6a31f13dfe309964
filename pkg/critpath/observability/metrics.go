package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// InstrumentationName scopes the meter and tracer.
const InstrumentationName = "github.com/randalmurphal/critpath"

// MetricsRecorder records listener metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordSignal counts one dequeued signal of the given kind.
	RecordSignal(ctx context.Context, kind string)

	// RecordListenerError counts a consumer that ended in error.
	RecordListenerError(ctx context.Context, backend string)

	// RecordSummary records the size and critical path of a finished build
	// together with how long finalization took.
	RecordSummary(ctx context.Context, backend string, numNodes, numEdges uint64, criticalPath, finishLatency time.Duration)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	signals       metric.Int64Counter
	errors        metric.Int64Counter
	nodes         metric.Int64Histogram
	edges         metric.Int64Histogram
	criticalPath  metric.Float64Histogram
	finishLatency metric.Float64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics lazily creates instruments on the global meter provider.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics(otel.GetMeterProvider())
	})
	return defaultMetrics, defaultMetricsErr
}

func newOtelMetrics(provider metric.MeterProvider) (*otelMetrics, error) {
	meter := provider.Meter(InstrumentationName)

	signals, err := meter.Int64Counter("critpath.signals",
		metric.WithDescription("Number of signals processed by the listener"),
	)
	if err != nil {
		return nil, err
	}

	errs, err := meter.Int64Counter("critpath.listener.errors",
		metric.WithDescription("Number of listeners that ended in error"),
	)
	if err != nil {
		return nil, err
	}

	nodes, err := meter.Int64Histogram("critpath.graph.nodes",
		metric.WithDescription("Nodes observed per build"),
	)
	if err != nil {
		return nil, err
	}

	edges, err := meter.Int64Histogram("critpath.graph.edges",
		metric.WithDescription("Edges observed per build"),
	)
	if err != nil {
		return nil, err
	}

	criticalPath, err := meter.Float64Histogram("critpath.critical_path.duration_ms",
		metric.WithDescription("Critical path length in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	finishLatency, err := meter.Float64Histogram("critpath.finish.latency_ms",
		metric.WithDescription("Backend finalization latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		signals:       signals,
		errors:        errs,
		nodes:         nodes,
		edges:         edges,
		criticalPath:  criticalPath,
		finishLatency: finishLatency,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder on the global OTel meter
// provider. If initialization fails, returns a no-op recorder.
//
// Configure the provider before the first call:
//
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// NewMetricsRecorderWithProvider returns a MetricsRecorder bound to provider.
func NewMetricsRecorderWithProvider(provider metric.MeterProvider) (MetricsRecorder, error) {
	return newOtelMetrics(provider)
}

func (m *otelMetrics) RecordSignal(ctx context.Context, kind string) {
	m.signals.Add(ctx, 1, metric.WithAttributes(attribute.String("signal", kind)))
}

func (m *otelMetrics) RecordListenerError(ctx context.Context, backend string) {
	m.errors.Add(ctx, 1, metric.WithAttributes(attribute.String("backend", backend)))
}

func (m *otelMetrics) RecordSummary(ctx context.Context, backend string, numNodes, numEdges uint64, criticalPath, finishLatency time.Duration) {
	attrs := metric.WithAttributes(attribute.String("backend", backend))
	m.nodes.Record(ctx, clampInt64(numNodes), attrs)
	m.edges.Record(ctx, clampInt64(numEdges), attrs)
	m.criticalPath.Record(ctx, durationMs(criticalPath), attrs)
	m.finishLatency.Record(ctx, durationMs(finishLatency), attrs)
}

func clampInt64(v uint64) int64 {
	if v > uint64(1<<63-1) {
		return 1<<63 - 1
	}
	return int64(v)
}

func durationMs(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
