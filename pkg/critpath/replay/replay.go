package replay

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/randalmurphal/critpath/pkg/critpath"
	"github.com/randalmurphal/critpath/pkg/critpath/config"
)

type runConfig struct {
	timeScale    float64
	sink         critpath.Sink
	scopeOptions []critpath.Option
	logger       *slog.Logger
}

// Option configures Compile, Run and Replay.
type Option func(*runConfig)

func newRunConfig(opts []Option) runConfig {
	cfg := runConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithLogger sets the logger for trace warnings. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *runConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTimeScale makes each action sleep for its recorded duration times
// scale before signalling. Default: 0 (no sleeping).
func WithTimeScale(scale float64) Option {
	return func(c *runConfig) {
		if scale >= 0 {
			c.timeScale = scale
		}
	}
}

// WithSink adds a sink that receives the summary next to the one Replay
// uses to return it.
func WithSink(s critpath.Sink) Option {
	return func(c *runConfig) {
		c.sink = s
	}
}

// WithScopeOptions passes options through to critpath.Scope.
// A critpath.WithSink among them is overridden; use WithSink instead.
func WithScopeOptions(opts ...critpath.Option) Option {
	return func(c *runConfig) {
		c.scopeOptions = append(c.scopeOptions, opts...)
	}
}

// Run sends the plan's signals to sender, one goroutine per node. A node
// signals once all of its dependencies have signalled. Run returns when
// every node has signalled or ctx is cancelled.
func (p *Plan) Run(ctx context.Context, sender critpath.Sender, opts ...Option) error {
	cfg := newRunConfig(opts)

	done := make([]chan struct{}, len(p.nodes))
	for i := range done {
		done[i] = make(chan struct{})
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, n := range p.nodes {
		g.Go(func() error {
			for _, dep := range n.deps {
				select {
				case <-done[dep]:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			if err := sleep(gctx, scaled(n.wait, cfg.timeScale)); err != nil {
				return err
			}
			sender.Signal(n.signal)
			close(done[i])
			return nil
		})
	}
	return g.Wait()
}

// Replay runs the plan inside critpath.Scope and returns the summary.
func Replay(ctx context.Context, p *Plan, settings config.Settings, opts ...Option) (*critpath.BuildInfo, error) {
	cfg := newRunConfig(opts)

	var info *critpath.BuildInfo
	capture := critpath.SinkFunc(func(_ context.Context, _ string, bi *critpath.BuildInfo) error {
		info = bi
		return nil
	})
	sink := critpath.Sink(capture)
	if cfg.sink != nil {
		sink = critpath.MultiSink(capture, cfg.sink)
	}

	scopeOpts := append(append([]critpath.Option{}, cfg.scopeOptions...), critpath.WithSink(sink))
	_, err := critpath.Scope(ctx, settings, func(ctx context.Context, sender critpath.Sender) (struct{}, error) {
		return struct{}{}, p.Run(ctx, sender, opts...)
	}, scopeOpts...)
	if err != nil {
		return info, fmt.Errorf("replay: %w", err)
	}
	return info, nil
}

func scaled(d time.Duration, scale float64) time.Duration {
	if scale <= 0 || d <= 0 {
		return 0
	}
	return time.Duration(float64(d) * scale)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
