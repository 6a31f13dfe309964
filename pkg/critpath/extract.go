package critpath

import "time"

// predecessorRecord is the streaming backend's per-node state.
type predecessorRecord struct {
	// duration is cumulative: own duration plus prev's cumulative duration
	// at the time the node was recorded.
	duration time.Duration
	action   *Action
	prev     NodeKey // zero when the node has no known predecessor
}

type predecessorEntry struct {
	key    NodeKey
	record predecessorRecord
}

// predecessorMap is an insertion-ordered map of records. Overwriting a key
// keeps its original position.
type predecessorMap struct {
	index   map[NodeKey]int
	entries []predecessorEntry
}

func newPredecessorMap() *predecessorMap {
	return &predecessorMap{index: make(map[NodeKey]int)}
}

func (m *predecessorMap) get(key NodeKey) (predecessorRecord, bool) {
	idx, ok := m.index[key]
	if !ok {
		return predecessorRecord{}, false
	}
	return m.entries[idx].record, true
}

func (m *predecessorMap) put(key NodeKey, rec predecessorRecord) {
	if idx, ok := m.index[key]; ok {
		m.entries[idx].record = rec
		return
	}
	m.index[key] = len(m.entries)
	m.entries = append(m.entries, predecessorEntry{key: key, record: rec})
}

func (m *predecessorMap) len() int {
	return len(m.entries)
}

// pathNode is one extracted critical path element with its own duration.
type pathNode struct {
	key      NodeKey
	action   *Action
	duration time.Duration
}

// extractCriticalPath follows prev links back from the node with the largest
// cumulative duration (the last one on ties) and returns the chain in
// execution order, with cumulative durations turned back into per-node ones.
// Only the winning branch is returned.
func extractCriticalPath(m *predecessorMap) []pathNode {
	if m.len() == 0 {
		return nil
	}

	terminal := 0
	for i, e := range m.entries {
		if e.record.duration >= m.entries[terminal].record.duration {
			terminal = i
		}
	}

	var (
		chain   []predecessorEntry
		visited = make(map[NodeKey]struct{})
		current = m.entries[terminal]
	)
	for {
		if _, seen := visited[current.key]; seen {
			break
		}
		visited[current.key] = struct{}{}
		chain = append(chain, current)

		if current.record.prev.IsZero() {
			break
		}
		rec, ok := m.get(current.record.prev)
		if !ok {
			break
		}
		current = predecessorEntry{key: current.record.prev, record: rec}
	}

	path := make([]pathNode, len(chain))
	var before time.Duration
	for i := range chain {
		e := chain[len(chain)-1-i]
		own := e.record.duration - before
		if e.record.duration < before {
			own = 0
		}
		path[i] = pathNode{key: e.key, action: e.record.action, duration: own}
		before = e.record.duration
	}
	return path
}
