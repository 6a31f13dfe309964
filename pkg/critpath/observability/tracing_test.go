package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func setupTracingTest(t *testing.T) (SpanManager, *tracetest.InMemoryExporter) {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			t.Logf("Error shutting down tracer provider: %v", err)
		}
	})
	return NewSpanManagerWithProvider(tp), exporter
}

func spanAttr(s tracetest.SpanStub, key attribute.Key) string {
	for _, attr := range s.Attributes {
		if attr.Key == key {
			return attr.Value.AsString()
		}
	}
	return ""
}

func TestStartListenerSpan(t *testing.T) {
	sm, exporter := setupTracingTest(t)

	ctx, span := sm.StartListenerSpan(context.Background(), "b-1", "streaming")
	_, child := sm.StartFinishSpan(ctx, "streaming")
	sm.EndSpanWithError(child, nil)
	sm.EndSpanWithError(span, nil)

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)

	finish, listener := spans[0], spans[1]
	assert.Equal(t, "critpath.finish", finish.Name)
	assert.Equal(t, "critpath.listener", listener.Name)
	assert.Equal(t, "b-1", spanAttr(listener, "build.id"))
	assert.Equal(t, "streaming", spanAttr(listener, "critpath.backend"))
	assert.Equal(t, listener.SpanContext.SpanID(), finish.Parent.SpanID())
	assert.Equal(t, codes.Ok, listener.Status.Code)
}

func TestEndSpanWithError(t *testing.T) {
	sm, exporter := setupTracingTest(t)

	_, span := sm.StartFinishSpan(context.Background(), "longest_path")
	sm.EndSpanWithError(span, errors.New("cycle"))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.Equal(t, "cycle", spans[0].Status.Description)
	require.NotEmpty(t, spans[0].Events)
	assert.Equal(t, "exception", spans[0].Events[0].Name)

	assert.NotPanics(t, func() { EndSpanWithError(nil, nil) })
}

func TestAddSpanEvent(t *testing.T) {
	sm, exporter := setupTracingTest(t)

	ctx, span := sm.StartListenerSpan(context.Background(), "b-1", "streaming")
	sm.AddSpanEvent(ctx, "signal_rejected", attribute.String("signal", "action_executed"))
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	require.Len(t, spans[0].Events, 1)
	assert.Equal(t, "signal_rejected", spans[0].Events[0].Name)

	// No span in context: no panic.
	assert.NotPanics(t, func() { AddSpanEvent(context.Background(), "ignored") })
}

func TestNoopImplementations(t *testing.T) {
	ctx := context.Background()

	var m MetricsRecorder = NoopMetrics{}
	assert.NotPanics(t, func() {
		m.RecordSignal(ctx, "x")
		m.RecordListenerError(ctx, "x")
		m.RecordSummary(ctx, "x", 1, 1, 0, 0)
	})

	var sm SpanManager = NoopSpanManager{}
	got, span := sm.StartListenerSpan(ctx, "b", "streaming")
	assert.Equal(t, ctx, got)
	assert.False(t, span.IsRecording())
	got, span = sm.StartFinishSpan(ctx, "streaming")
	assert.Equal(t, ctx, got)
	assert.NotPanics(t, func() {
		sm.EndSpanWithError(span, errors.New("x"))
		sm.AddSpanEvent(ctx, "x")
	})
}
