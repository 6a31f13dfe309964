// Package observability provides logging, metrics and tracing helpers for
// the critical-path listener.
//
// Features:
//   - Structured logging via slog
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// Every helper is opt-in. Logging helpers accept a nil logger, and
// NoopMetrics and NoopSpanManager stand in when metrics or tracing are off.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds build context to a logger.
// Returns a new logger with build_id and backend fields.
//
// Example:
//
//	enriched := EnrichLogger(logger, "b-123", "streaming")
//	enriched.Info("processing") // includes build_id, backend
func EnrichLogger(logger *slog.Logger, buildID, backend string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("build_id", buildID),
		slog.String("backend", backend),
	)
}

// The listener helpers below expect a logger from EnrichLogger and add no
// build fields of their own.

// LogListenerStart logs the consumer starting for a build.
func LogListenerStart(logger *slog.Logger) {
	if logger == nil {
		return
	}
	logger.Debug("critical path listener starting")
}

// LogListenerFinished logs a computed summary.
func LogListenerFinished(logger *slog.Logger, numNodes, numEdges uint64, pathLen int, criticalPath time.Duration, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Info("critical path computed",
		slog.Uint64("num_nodes", numNodes),
		slog.Uint64("num_edges", numEdges),
		slog.Int("critical_path_len", pathLen),
		slog.Float64("critical_path_ms", float64(criticalPath.Microseconds())/1000),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogListenerError logs a consumer failure. The build itself is unaffected.
func LogListenerError(logger *slog.Logger, err error, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Error("critical path listener failed",
		slog.String("error", err.Error()),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogSignalError logs a signal the backend could not process.
func LogSignalError(logger *slog.Logger, signal, nodeKey string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("signal rejected",
		slog.String("signal", signal),
		slog.String("node_key", nodeKey),
		slog.String("error", err.Error()),
	)
}

// LogSinkError logs a failure to deliver a summary.
func LogSinkError(logger *slog.Logger, err error) {
	if logger == nil {
		return
	}
	logger.Warn("summary delivery failed",
		slog.String("error", err.Error()),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Microseconds()) / 1000
	}
}
