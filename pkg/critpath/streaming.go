package critpath

import (
	"math"
	"time"
)

// StreamingBackend computes an approximate critical path in one pass.
//
// Each node picks, at insertion time, the recorded dependency with the
// largest cumulative duration. Dependencies that have not been recorded yet
// contribute nothing, so the result is exact only when every dependency is
// reported before its dependents. Earlier choices are never revisited.
type StreamingBackend struct {
	records  *predecessorMap
	numNodes uint64
	numEdges uint64

	seen map[NodeKey]struct{} // scratch for dependency dedup
	info *BuildInfo
}

var _ Backend = (*StreamingBackend)(nil)

// NewStreamingBackend creates an empty streaming backend.
func NewStreamingBackend() *StreamingBackend {
	return &StreamingBackend{
		records: newPredecessorMap(),
		seen:    make(map[NodeKey]struct{}),
	}
}

// ProcessNode records key with the heaviest known dependency as its
// predecessor. Ties go to the dependency seen last. Recording an existing
// key replaces its record.
func (b *StreamingBackend) ProcessNode(key NodeKey, action *Action, duration time.Duration, deps []NodeKey) {
	b.numNodes++

	var (
		prev  NodeKey
		best  time.Duration
		found bool
	)
	clear(b.seen)
	for _, dep := range deps {
		if _, dup := b.seen[dep]; dup {
			continue
		}
		b.seen[dep] = struct{}{}
		b.numEdges++

		rec, ok := b.records.get(dep)
		if !ok {
			continue
		}
		if !found || rec.duration >= best {
			prev, best, found = dep, rec.duration, true
		}
	}

	cumulative := duration
	if found {
		cumulative = addSaturating(best, duration)
	}
	b.records.put(key, predecessorRecord{
		duration: cumulative,
		action:   action,
		prev:     prev,
	})
}

// Finish extracts the critical path. Synthetic nodes and zero-duration
// entries are left out of the reported path but still count in the totals.
func (b *StreamingBackend) Finish() (*BuildInfo, error) {
	if b.info != nil {
		return b.info, nil
	}

	path := extractCriticalPath(b.records)
	entries := make([]CriticalPathEntry, 0, len(path))
	for _, n := range path {
		if n.action == nil || n.duration == 0 {
			continue
		}
		entries = append(entries, newEntry(n.action, n.duration))
	}

	b.info = &BuildInfo{
		CriticalPath: entries,
		NumNodes:     b.numNodes,
		NumEdges:     b.numEdges,
		Backend:      BackendStreaming,
	}
	return b.info, nil
}

func addSaturating(a, b time.Duration) time.Duration {
	if b > 0 && a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}
