package critpath

import (
	"context"
	"errors"
	"log/slog"

	"github.com/randalmurphal/critpath/pkg/critpath/event"
)

// EventTypeBuildInfo is the event type published by NewEventSink.
const EventTypeBuildInfo = "build.graph_execution_info"

// EventSource is the source of events published by NewEventSink.
const EventSource = "critpath"

// Sink receives the summary of each build. It is called once per build from
// the listener goroutine.
type Sink interface {
	Emit(ctx context.Context, buildID string, info *BuildInfo) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, buildID string, info *BuildInfo) error

// Emit calls f.
func (f SinkFunc) Emit(ctx context.Context, buildID string, info *BuildInfo) error {
	return f(ctx, buildID, info)
}

type multiSink []Sink

// MultiSink fans a summary out to every sink. All sinks are called; their
// errors are joined.
func MultiSink(sinks ...Sink) Sink {
	return multiSink(sinks)
}

func (m multiSink) Emit(ctx context.Context, buildID string, info *BuildInfo) error {
	var errs []error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Emit(ctx, buildID, info); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogSink logs every critical path entry at debug level.
// A nil logger uses slog.Default().
func LogSink(logger *slog.Logger) Sink {
	if logger == nil {
		logger = slog.Default()
	}
	return SinkFunc(func(ctx context.Context, buildID string, info *BuildInfo) error {
		for i, e := range info.CriticalPath {
			logger.DebugContext(ctx, "critical path entry",
				slog.String("build_id", buildID),
				slog.Int("position", i),
				slog.String("action", e.ActionName),
				slog.Float64("duration_ms", float64(e.Duration.Microseconds())/1000),
			)
		}
		return nil
	})
}

// NewEventSink publishes each summary on bus as an EventTypeBuildInfo event
// whose payload is the BuildInfo and whose correlation ID is the build ID.
func NewEventSink(bus event.Bus) Sink {
	return SinkFunc(func(ctx context.Context, buildID string, info *BuildInfo) error {
		evt := event.New(EventTypeBuildInfo, EventSource, *info, event.WithCorrelationID(buildID))
		return bus.Publish(ctx, evt)
	})
}
