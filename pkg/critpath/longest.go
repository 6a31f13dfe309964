package critpath

import (
	"fmt"
	"time"

	"github.com/randalmurphal/critpath/pkg/critpath/lpgraph"
)

type nodeData struct {
	action   *Action
	duration time.Duration
}

// LongestPathBackend computes the exact critical path over an explicit DAG.
//
// Nodes may reference dependencies that are reported later; references to
// nodes that never arrive are dropped at Finish. The first structural error
// (a node reported twice) poisons the backend: later nodes are ignored and
// Finish returns that error.
type LongestPathBackend struct {
	builder *lpgraph.Builder[NodeKey, nodeData]

	finished bool
	info     *BuildInfo
	err      error
	savings  map[NodeKey]time.Duration
}

var _ Backend = (*LongestPathBackend)(nil)

// NewLongestPathBackend creates an empty longest-path backend.
func NewLongestPathBackend() *LongestPathBackend {
	return &LongestPathBackend{
		builder: lpgraph.NewBuilder[NodeKey, nodeData](),
	}
}

// ProcessNode adds a vertex and its dependency edges.
func (b *LongestPathBackend) ProcessNode(key NodeKey, action *Action, duration time.Duration, deps []NodeKey) {
	// Errors are retained by the builder and surface in Finish.
	_ = b.builder.Push(key, deps, nodeData{action: action, duration: duration})
}

// Finish computes the critical path. Vertices without an action are left
// out of the reported path.
func (b *LongestPathBackend) Finish() (*BuildInfo, error) {
	if !b.finished {
		b.finished = true
		b.info, b.err = b.finish()
	}
	return b.info, b.err
}

func (b *LongestPathBackend) finish() (*BuildInfo, error) {
	graph, keys, data, err := b.builder.Finish()
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}

	weights := make([]uint64, len(data))
	for i, d := range data {
		if d.duration < 0 {
			return nil, &DurationError{Key: keys[i], Duration: d.duration}
		}
		weights[i] = uint64(d.duration.Microseconds())
	}

	cp, err := lpgraph.ComputeCriticalPath(graph, weights)
	if err != nil {
		return nil, fmt.Errorf("compute critical path: %w", err)
	}

	entries := make([]CriticalPathEntry, 0, len(cp.Path))
	for _, v := range cp.Path {
		d := data[v]
		if d.action == nil {
			continue
		}
		entries = append(entries, newEntry(d.action, d.duration))
	}

	b.savings = make(map[NodeKey]time.Duration, len(keys))
	for i, key := range keys {
		b.savings[key] = time.Duration(cp.Savings[i]) * time.Microsecond
	}

	return &BuildInfo{
		CriticalPath: entries,
		NumNodes:     uint64(graph.VerticesCount()),
		NumEdges:     uint64(graph.EdgesCount()),
		Backend:      BackendLongestPath,
	}, nil
}

// PotentialSavings returns, per node, how much longer the node could take
// without lengthening the build. Critical nodes map to zero. Nil before a
// successful Finish.
func (b *LongestPathBackend) PotentialSavings() map[NodeKey]time.Duration {
	return b.savings
}
