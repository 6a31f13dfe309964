package critpath

import "time"

// Signal is a fact reported to the listener. The set of signals is closed:
// ActionExecuted, ProjectionComputed, ActionRedirected and BuildFinished.
type Signal interface {
	// Kind returns a stable name used in logs and metrics.
	Kind() string
	isSignal()
}

// ActionExecuted reports a finished action and how long it ran.
type ActionExecuted struct {
	Action   *Action
	Duration time.Duration
}

// ProjectionComputed reports a projection node. It depends on every action
// that produced one of its artifacts and on every nested projection.
type ProjectionComputed struct {
	Key       ProjectionKey
	Artifacts []ActionKey
	SetDeps   []ProjectionKey
}

// ActionRedirected reports that the provisional action Key was superseded
// by Dest. Key becomes a zero-cost hop in Dest's chain.
type ActionRedirected struct {
	Key  ActionKey
	Dest ActionKey
}

// BuildFinished ends signal processing for the build.
type BuildFinished struct{}

// Signal kinds.
const (
	KindActionExecuted     = "action_executed"
	KindProjectionComputed = "projection_computed"
	KindActionRedirected   = "action_redirected"
	KindBuildFinished      = "build_finished"
)

func (ActionExecuted) Kind() string     { return KindActionExecuted }
func (ProjectionComputed) Kind() string { return KindProjectionComputed }
func (ActionRedirected) Kind() string   { return KindActionRedirected }
func (BuildFinished) Kind() string      { return KindBuildFinished }

func (ActionExecuted) isSignal()     {}
func (ProjectionComputed) isSignal() {}
func (ActionRedirected) isSignal()   {}
func (BuildFinished) isSignal()      {}

// valueOf returns sig with pointer signals dereferenced, or nil for a nil
// signal pointer.
func valueOf(sig Signal) Signal {
	switch s := sig.(type) {
	case *ActionExecuted:
		if s != nil {
			return *s
		}
	case *ProjectionComputed:
		if s != nil {
			return *s
		}
	case *ActionRedirected:
		if s != nil {
			return *s
		}
	case *BuildFinished:
		if s != nil {
			return *s
		}
	default:
		return sig
	}
	return nil
}
