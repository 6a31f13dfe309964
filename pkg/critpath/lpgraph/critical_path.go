package lpgraph

import (
	"fmt"
	"math/bits"
)

// CriticalPath is the result of a longest-path analysis.
type CriticalPath struct {
	// Path lists the critical path vertices in execution order.
	Path []VertexID

	// Cost is the total weight of Path.
	Cost uint64

	// Potentials holds, per vertex, its own weight plus the heaviest
	// potential among its successors.
	Potentials []uint64

	// Savings holds, per vertex, Cost minus the weight of the heaviest
	// path through that vertex. Zero for vertices on a critical path.
	Savings []uint64
}

// ComputeCriticalPath computes potentials, the critical path and potential
// savings in O(V+E). weights must have one entry per vertex.
//
// The critical path starts at the source with the highest potential and
// repeatedly follows the successor with the highest potential. Ties go to
// the lowest vertex ID.
func ComputeCriticalPath(g *Graph, weights []uint64) (*CriticalPath, error) {
	n := g.VerticesCount()
	if len(weights) != n {
		return nil, fmt.Errorf("%w: %d weights for %d vertices", ErrWeightCount, len(weights), n)
	}

	order, err := g.TopologicalOrder()
	if err != nil {
		return nil, err
	}

	potentials := make([]uint64, n)
	for i := n - 1; i >= 0; i-- {
		v := order[i]
		var best uint64
		for _, succ := range g.Successors(v) {
			if potentials[succ] > best {
				best = potentials[succ]
			}
		}
		sum, carry := bits.Add64(weights[v], best, 0)
		if carry != 0 {
			return nil, ErrWeightOverflow
		}
		potentials[v] = sum
	}

	// earliest[v] is the heaviest path ending at v, including v.
	earliest := make([]uint64, n)
	for _, v := range order {
		var best uint64
		for _, pred := range g.Predecessors(v) {
			if earliest[pred] > best {
				best = earliest[pred]
			}
		}
		sum, carry := bits.Add64(weights[v], best, 0)
		if carry != 0 {
			return nil, ErrWeightOverflow
		}
		earliest[v] = sum
	}

	result := &CriticalPath{
		Potentials: potentials,
		Savings:    make([]uint64, n),
	}
	if n == 0 {
		return result, nil
	}

	start := -1
	for _, src := range g.Sources() {
		if start < 0 || potentials[src] > potentials[start] {
			start = int(src)
		}
	}

	current := VertexID(start)
	result.Cost = potentials[current]
	for {
		result.Path = append(result.Path, current)
		succs := g.Successors(current)
		if len(succs) == 0 {
			break
		}
		next := succs[0]
		for _, succ := range succs[1:] {
			if potentials[succ] > potentials[next] || (potentials[succ] == potentials[next] && succ < next) {
				next = succ
			}
		}
		current = next
	}

	for v := 0; v < n; v++ {
		through := earliest[v] + (potentials[v] - weights[v])
		result.Savings[v] = result.Cost - through
	}

	return result, nil
}
