// Package lpgraph provides an explicit DAG for longest-path analysis.
//
// A Builder collects vertices and dependency edges in any order, then
// Finish produces an immutable Graph. ComputeCriticalPath computes, for
// each vertex, its potential (the heaviest path reachable forward from it,
// including itself), the critical path, and per-vertex potential savings.
//
// Graph is safe for concurrent reads.
package lpgraph

// VertexID indexes a vertex in a Graph. IDs are dense, starting at 0.
type VertexID uint32

// Graph is an immutable directed graph in compressed adjacency form.
// Edges run from a dependency to the vertex that depends on it.
type Graph struct {
	succOffsets []int
	succ        []VertexID
	predOffsets []int
	pred        []VertexID
}

// newGraph builds the adjacency tables from an edge list.
func newGraph(n int, edges [][2]VertexID) *Graph {
	g := &Graph{
		succOffsets: make([]int, n+1),
		succ:        make([]VertexID, len(edges)),
		predOffsets: make([]int, n+1),
		pred:        make([]VertexID, len(edges)),
	}

	for _, e := range edges {
		g.succOffsets[e[0]+1]++
		g.predOffsets[e[1]+1]++
	}
	for i := 0; i < n; i++ {
		g.succOffsets[i+1] += g.succOffsets[i]
		g.predOffsets[i+1] += g.predOffsets[i]
	}

	succFill := make([]int, n)
	predFill := make([]int, n)
	for _, e := range edges {
		from, to := e[0], e[1]
		g.succ[g.succOffsets[from]+succFill[from]] = to
		succFill[from]++
		g.pred[g.predOffsets[to]+predFill[to]] = from
		predFill[to]++
	}

	return g
}

// VerticesCount returns the number of vertices.
func (g *Graph) VerticesCount() int {
	return len(g.succOffsets) - 1
}

// EdgesCount returns the number of edges.
func (g *Graph) EdgesCount() int {
	return len(g.succ)
}

// Successors returns the vertices that depend on v.
// The returned slice must not be modified.
func (g *Graph) Successors(v VertexID) []VertexID {
	return g.succ[g.succOffsets[v]:g.succOffsets[v+1]]
}

// Predecessors returns the dependencies of v.
// The returned slice must not be modified.
func (g *Graph) Predecessors(v VertexID) []VertexID {
	return g.pred[g.predOffsets[v]:g.predOffsets[v+1]]
}

// Sources returns vertices without dependencies, in ID order.
func (g *Graph) Sources() []VertexID {
	var sources []VertexID
	for v := 0; v < g.VerticesCount(); v++ {
		if len(g.Predecessors(VertexID(v))) == 0 {
			sources = append(sources, VertexID(v))
		}
	}
	return sources
}

// TopologicalOrder returns the vertices ordered so every dependency comes
// before its dependents (Kahn's algorithm, lowest ID first among ready
// vertices). Returns ErrCycle if the graph is not a DAG.
func (g *Graph) TopologicalOrder() ([]VertexID, error) {
	n := g.VerticesCount()
	inDegree := make([]int, n)
	for v := 0; v < n; v++ {
		inDegree[v] = len(g.Predecessors(VertexID(v)))
	}

	order := make([]VertexID, 0, n)
	for v := 0; v < n; v++ {
		if inDegree[v] == 0 {
			order = append(order, VertexID(v))
		}
	}

	// order doubles as the FIFO queue.
	for head := 0; head < len(order); head++ {
		for _, succ := range g.Successors(order[head]) {
			inDegree[succ]--
			if inDegree[succ] == 0 {
				order = append(order, succ)
			}
		}
	}

	if len(order) != n {
		return nil, ErrCycle
	}
	return order, nil
}
