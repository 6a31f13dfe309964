package critpath

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for signal processing.
var (
	// ErrNilAction indicates an ActionExecuted signal without an action.
	ErrNilAction = errors.New("action executed without action metadata")

	// ErrNegativeDuration indicates a node reported a negative duration.
	ErrNegativeDuration = errors.New("negative duration")

	// ErrUnknownSignal indicates a value the dispatcher cannot handle,
	// such as a nil signal pointer.
	ErrUnknownSignal = errors.New("unknown signal")
)

// SignalError wraps a failure to process one signal.
type SignalError struct {
	// Kind is the signal kind, or the Go type for unknown signals.
	Kind string
	// Key is the node the signal describes, if known.
	Key NodeKey
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *SignalError) Error() string {
	if e.Key.IsZero() {
		return fmt.Sprintf("process %s signal: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("process %s signal for %s: %v", e.Kind, e.Key, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *SignalError) Unwrap() error {
	return e.Err
}

// ListenerError is the consumer's terminal error, returned by Scope.
// The build's own result is unaffected by it.
type ListenerError struct {
	BuildID string
	Backend string
	Err     error
}

// Error implements the error interface.
func (e *ListenerError) Error() string {
	return fmt.Sprintf("critical path listener (build %s, %s backend): %v", e.BuildID, e.Backend, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *ListenerError) Unwrap() error {
	return e.Err
}

// DurationError reports a duration that cannot be used as a graph weight.
type DurationError struct {
	Key      NodeKey
	Duration time.Duration
}

// Error implements the error interface.
func (e *DurationError) Error() string {
	return fmt.Sprintf("%s has negative duration %s", e.Key, e.Duration)
}

// Unwrap returns ErrNegativeDuration.
func (e *DurationError) Unwrap() error {
	return ErrNegativeDuration
}
