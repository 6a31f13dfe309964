package critpath

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/randalmurphal/critpath/pkg/critpath/observability"
)

// scopeConfig holds the listener configuration for one Scope call.
type scopeConfig struct {
	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager
	sink    Sink
	buildID string
}

func newScopeConfig(opts []Option) scopeConfig {
	cfg := scopeConfig{
		logger:  slog.Default(),
		metrics: observability.NoopMetrics{},
		spans:   observability.NoopSpanManager{},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.buildID == "" {
		cfg.buildID = uuid.NewString()
	}
	if cfg.sink == nil {
		cfg.sink = LogSink(cfg.logger)
	}
	return cfg
}

// Option configures Scope.
type Option func(*scopeConfig)

// WithLogger sets the listener's logger.
// Default: slog.Default()
func WithLogger(logger *slog.Logger) Option {
	return func(c *scopeConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics enables OpenTelemetry metrics on the global meter provider.
// Default: disabled
func WithMetrics(enabled bool) Option {
	return func(c *scopeConfig) {
		if enabled {
			c.metrics = observability.NewMetricsRecorder()
		} else {
			c.metrics = observability.NoopMetrics{}
		}
	}
}

// WithMetricsRecorder sets a specific metrics recorder.
func WithMetricsRecorder(m observability.MetricsRecorder) Option {
	return func(c *scopeConfig) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithTracing enables OpenTelemetry spans on the global tracer provider.
// Default: disabled
func WithTracing(enabled bool) Option {
	return func(c *scopeConfig) {
		if enabled {
			c.spans = observability.NewSpanManager()
		} else {
			c.spans = observability.NoopSpanManager{}
		}
	}
}

// WithSpanManager sets a specific span manager.
func WithSpanManager(sm observability.SpanManager) Option {
	return func(c *scopeConfig) {
		if sm != nil {
			c.spans = sm
		}
	}
}

// WithSink sets where the summary is delivered.
// Default: LogSink with the configured logger.
//
// Example:
//
//	critpath.WithSink(critpath.MultiSink(critpath.NewEventSink(bus), store.NewSink(db)))
func WithSink(s Sink) Option {
	return func(c *scopeConfig) {
		c.sink = s
	}
}

// WithBuildID sets the build ID used in logs, spans and sinks.
// Default: a random UUID.
func WithBuildID(id string) Option {
	return func(c *scopeConfig) {
		c.buildID = id
	}
}
