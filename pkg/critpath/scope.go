package critpath

import (
	"context"
	"errors"

	"github.com/randalmurphal/critpath/pkg/critpath/config"
	"github.com/randalmurphal/critpath/pkg/critpath/observability"
)

// Scope runs fn with a Sender connected to a fresh listener.
//
// The backend is chosen from settings. After fn returns, or panics, Scope
// sends exactly one BuildFinished and waits for the listener. fn's result
// and error are returned unchanged. If the listener failed, its error is
// returned as a *ListenerError, joined with fn's error when both failed.
//
// The listener does not observe cancellation of ctx: a cancelled build
// still produces a partial summary.
func Scope[R any](
	ctx context.Context,
	settings config.Settings,
	fn func(context.Context, Sender) (R, error),
	opts ...Option,
) (result R, err error) {
	cfg := newScopeConfig(opts)

	name := BackendStreaming
	if settings.UseLongestPathGraph {
		name = BackendLongestPath
	}

	q := newQueue()
	sender := Sender{q: q}
	l := &listener{
		queue:   q,
		backend: NewBackend(settings),
		name:    name,
		buildID: cfg.buildID,
		sink:    cfg.sink,
		logger:  observability.EnrichLogger(cfg.logger, cfg.buildID, name),
		metrics: cfg.metrics,
		spans:   cfg.spans,
	}

	done := make(chan error, 1)
	go func() {
		done <- l.run(context.WithoutCancel(ctx))
	}()

	defer func() {
		sender.Signal(BuildFinished{})
		listenerErr := <-done
		if listenerErr == nil {
			return
		}
		lerr := &ListenerError{BuildID: cfg.buildID, Backend: name, Err: listenerErr}
		if err != nil {
			err = errors.Join(err, lerr)
		} else {
			err = lerr
		}
	}()

	return fn(WithSender(ctx, sender), sender)
}
