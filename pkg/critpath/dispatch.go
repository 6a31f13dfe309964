package critpath

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/randalmurphal/critpath/pkg/critpath/observability"
)

// dispatch translates one signal into a Backend.ProcessNode call.
// Pointer signals are handled like their values.
func dispatch(b Backend, sig Signal) error {
	switch s := valueOf(sig).(type) {
	case ActionExecuted:
		if s.Action == nil {
			return &SignalError{Kind: s.Kind(), Err: ErrNilAction}
		}
		key := ActionNode(s.Action.Key)
		if s.Duration < 0 {
			return &SignalError{Kind: s.Kind(), Key: key, Err: &DurationError{Key: key, Duration: s.Duration}}
		}
		b.ProcessNode(key, s.Action, s.Duration, s.Action.Dependencies())

	case ActionRedirected:
		b.ProcessNode(ActionNode(s.Key), nil, 0, []NodeKey{ActionNode(s.Dest)})

	case ProjectionComputed:
		deps := make([]NodeKey, 0, len(s.Artifacts)+len(s.SetDeps))
		for _, a := range s.Artifacts {
			deps = append(deps, ActionNode(a))
		}
		for _, p := range s.SetDeps {
			deps = append(deps, ProjectionNode(p))
		}
		b.ProcessNode(ProjectionNode(s.Key), nil, 0, deps)

	default:
		return &SignalError{Kind: fmt.Sprintf("%T", sig), Err: ErrUnknownSignal}
	}
	return nil
}

// listener is the single consumer of a build's queue.
type listener struct {
	queue   *queue
	backend Backend
	name    string
	buildID string
	sink    Sink
	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager
}

// run processes signals until BuildFinished or the first processing error.
// The queue is closed on return, so later sends are discarded.
func (l *listener) run(ctx context.Context) (err error) {
	ctx, span := l.spans.StartListenerSpan(ctx, l.buildID, l.name)
	elapsed := observability.TimedOperation()
	observability.LogListenerStart(l.logger)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("listener panic: %v", r)
		}
		l.queue.close()
		if err != nil {
			l.metrics.RecordListenerError(ctx, l.name)
			observability.LogListenerError(l.logger, err, elapsed())
		}
		l.spans.EndSpanWithError(span, err)
	}()

	for {
		sig, ok := l.queue.pop()
		if !ok {
			return nil
		}
		l.metrics.RecordSignal(ctx, sig.Kind())

		if _, done := sig.(BuildFinished); done {
			return l.finish(ctx, elapsed)
		}
		if err := dispatch(l.backend, sig); err != nil {
			key := ""
			var se *SignalError
			if errors.As(err, &se) && !se.Key.IsZero() {
				key = se.Key.String()
			}
			observability.LogSignalError(l.logger, sig.Kind(), key, err)
			l.spans.AddSpanEvent(ctx, "signal_rejected",
				attribute.String("signal", sig.Kind()),
				attribute.String("error", err.Error()),
			)
			return err
		}
	}
}

func (l *listener) finish(ctx context.Context, elapsed func() float64) error {
	finishCtx, span := l.spans.StartFinishSpan(ctx, l.name)
	start := time.Now()
	info, err := l.backend.Finish()
	latency := time.Since(start)
	l.spans.EndSpanWithError(span, err)
	if err != nil {
		return fmt.Errorf("finish %s backend: %w", l.name, err)
	}

	l.metrics.RecordSummary(ctx, l.name, info.NumNodes, info.NumEdges, info.TotalDuration(), latency)
	observability.LogListenerFinished(l.logger, info.NumNodes, info.NumEdges,
		len(info.CriticalPath), info.TotalDuration(), elapsed())

	if err := l.sink.Emit(finishCtx, l.buildID, info); err != nil {
		observability.LogSinkError(l.logger, err)
		return fmt.Errorf("emit summary: %w", err)
	}
	return nil
}
