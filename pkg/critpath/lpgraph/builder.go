package lpgraph

// Builder accumulates vertices and their dependencies incrementally.
// Dependencies may name keys that have not been pushed yet; they are
// resolved in Finish. Keys that are referenced but never pushed are dropped
// together with the edges that point at them.
//
// Builder is fail-once: the first error poisons it. Every later Push is a
// no-op that returns the same error, and Finish returns it too.
//
// Builder is NOT safe for concurrent use.
type Builder[K comparable, D any] struct {
	index  map[K]int
	keys   []K
	pushed []bool
	data   []D
	deps   [][]int
	order  []int // provisional indices in push order
	err    error
}

// NewBuilder creates an empty builder.
func NewBuilder[K comparable, D any]() *Builder[K, D] {
	return &Builder[K, D]{
		index: make(map[K]int),
	}
}

// intern returns the provisional index for key, allocating one if needed.
func (b *Builder[K, D]) intern(key K) int {
	if idx, ok := b.index[key]; ok {
		return idx
	}
	idx := len(b.keys)
	b.index[key] = idx
	b.keys = append(b.keys, key)
	b.pushed = append(b.pushed, false)
	var zero D
	b.data = append(b.data, zero)
	b.deps = append(b.deps, nil)
	return idx
}

// Push adds a vertex with the given dependencies and payload.
// Returns a *DuplicateVertexError if key was already pushed.
func (b *Builder[K, D]) Push(key K, deps []K, data D) error {
	if b.err != nil {
		return b.err
	}

	idx := b.intern(key)
	if b.pushed[idx] {
		b.err = &DuplicateVertexError[K]{Key: key}
		return b.err
	}

	depIdx := make([]int, 0, len(deps))
	for _, dep := range deps {
		depIdx = append(depIdx, b.intern(dep))
	}

	b.pushed[idx] = true
	b.data[idx] = data
	b.deps[idx] = depIdx
	b.order = append(b.order, idx)
	return nil
}

// Err returns the error that poisoned the builder, if any.
func (b *Builder[K, D]) Err() error {
	return b.err
}

// Len returns the number of pushed vertices.
func (b *Builder[K, D]) Len() int {
	return len(b.order)
}

// Finish resolves dependencies and returns the immutable graph together
// with per-vertex key and payload tables indexed by VertexID.
// Vertex IDs follow push order. Duplicate dependencies collapse into one edge.
// Edges run from dependency to dependent.
func (b *Builder[K, D]) Finish() (*Graph, []K, []D, error) {
	if b.err != nil {
		return nil, nil, nil, b.err
	}

	n := len(b.order)
	final := make([]int, len(b.keys))
	for i := range final {
		final[i] = -1
	}
	for id, idx := range b.order {
		final[idx] = id
	}

	keys := make([]K, n)
	data := make([]D, n)
	edges := make([][2]VertexID, 0, n)
	stamp := make([]int, n)
	for i := range stamp {
		stamp[i] = -1
	}

	for id, idx := range b.order {
		keys[id] = b.keys[idx]
		data[id] = b.data[idx]
		for _, depIdx := range b.deps[idx] {
			dep := final[depIdx]
			if dep < 0 || stamp[dep] == id {
				continue
			}
			stamp[dep] = id
			edges = append(edges, [2]VertexID{VertexID(dep), VertexID(id)})
		}
	}

	return newGraph(n, edges), keys, data, nil
}
