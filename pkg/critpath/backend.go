package critpath

import (
	"time"

	"github.com/randalmurphal/critpath/pkg/critpath/config"
)

// Backend names reported in BuildInfo.Backend.
const (
	BackendStreaming   = "streaming"
	BackendLongestPath = "longest_path"
)

// Backend folds graph nodes into a build summary. Implementations are driven
// by a single goroutine and need no locking.
type Backend interface {
	// ProcessNode records a node. action is nil for synthetic nodes
	// (projections and redirections). deps may contain duplicates.
	ProcessNode(key NodeKey, action *Action, duration time.Duration, deps []NodeKey)

	// Finish produces the summary. Finish is idempotent: later calls
	// return the same summary or the same error.
	Finish() (*BuildInfo, error)
}

// NewBackend returns the backend selected by settings.
func NewBackend(settings config.Settings) Backend {
	if settings.UseLongestPathGraph {
		return NewLongestPathBackend()
	}
	return NewStreamingBackend()
}

// BuildInfo summarizes one build's critical path.
type BuildInfo struct {
	// CriticalPath lists the reported path entries in execution order.
	CriticalPath []CriticalPathEntry `json:"critical_path"`
	NumNodes     uint64              `json:"num_nodes"`
	NumEdges     uint64              `json:"num_edges"`
	Backend      string              `json:"backend"`
}

// TotalDuration sums the durations of the reported entries.
func (b *BuildInfo) TotalDuration() time.Duration {
	var total time.Duration
	for _, e := range b.CriticalPath {
		total += e.Duration
	}
	return total
}

// CriticalPathEntry is one action on the critical path.
type CriticalPathEntry struct {
	ActionName string        `json:"action_name"`
	ActionKey  *ActionKey    `json:"action_key,omitempty"`
	Duration   time.Duration `json:"duration"`
	Category   string        `json:"category"`
	Identifier string        `json:"identifier,omitempty"`
}

func newEntry(action *Action, d time.Duration) CriticalPathEntry {
	key := action.Key
	return CriticalPathEntry{
		ActionName: action.Name(),
		ActionKey:  &key,
		Duration:   d,
		Category:   action.Category,
		Identifier: action.Identifier,
	}
}
