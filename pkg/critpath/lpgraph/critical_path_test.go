package lpgraph

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildGraph pushes vertices in order; deps[i] lists dependency keys of key i.
func buildGraph(t *testing.T, keys []string, deps map[string][]string) *Graph {
	t.Helper()
	b := NewBuilder[string, struct{}]()
	for _, k := range keys {
		require.NoError(t, b.Push(k, deps[k], struct{}{}))
	}
	g, _, _, err := b.Finish()
	require.NoError(t, err)
	return g
}

func TestTopologicalOrder(t *testing.T) {
	g := buildGraph(t, []string{"c", "a", "b"}, map[string][]string{
		"c": {"b"},
		"b": {"a"},
	})

	order, err := g.TopologicalOrder()
	require.NoError(t, err)
	// a=1, b=2, c=0
	assert.Equal(t, []VertexID{1, 2, 0}, order)
}

func TestTopologicalOrder_Cycle(t *testing.T) {
	g := buildGraph(t, []string{"a", "b"}, map[string][]string{
		"a": {"b"},
		"b": {"a"},
	})

	_, err := g.TopologicalOrder()
	assert.ErrorIs(t, err, ErrCycle)

	_, err = ComputeCriticalPath(g, []uint64{1, 1})
	assert.ErrorIs(t, err, ErrCycle)
}

func TestComputeCriticalPath_LinearChain(t *testing.T) {
	g := buildGraph(t, []string{"a", "b", "c"}, map[string][]string{
		"b": {"a"},
		"c": {"b"},
	})

	cp, err := ComputeCriticalPath(g, []uint64{5, 6, 7})
	require.NoError(t, err)
	assert.Equal(t, []VertexID{0, 1, 2}, cp.Path)
	assert.Equal(t, uint64(18), cp.Cost)
	assert.Equal(t, []uint64{18, 13, 7}, cp.Potentials)
	assert.Equal(t, []uint64{0, 0, 0}, cp.Savings)
}

func TestComputeCriticalPath_DisjointChains(t *testing.T) {
	// a1 -> a2 (total 10), b1 -> b2 -> b3 (total 15)
	g := buildGraph(t, []string{"a1", "a2", "b1", "b2", "b3"}, map[string][]string{
		"a2": {"a1"},
		"b2": {"b1"},
		"b3": {"b2"},
	})

	cp, err := ComputeCriticalPath(g, []uint64{4, 6, 5, 5, 5})
	require.NoError(t, err)
	assert.Equal(t, []VertexID{2, 3, 4}, cp.Path)
	assert.Equal(t, uint64(15), cp.Cost)
	assert.Equal(t, []uint64{5, 5, 0, 0, 0}, cp.Savings)
}

func TestComputeCriticalPath_Diamond(t *testing.T) {
	// a(5) -> b(1) -> d(1)
	// a(5) -> c(10) -> d(1)
	g := buildGraph(t, []string{"a", "b", "c", "d"}, map[string][]string{
		"b": {"a"},
		"c": {"a"},
		"d": {"b", "c"},
	})

	cp, err := ComputeCriticalPath(g, []uint64{5, 1, 10, 1})
	require.NoError(t, err)
	assert.Equal(t, []VertexID{0, 2, 3}, cp.Path)
	assert.Equal(t, uint64(16), cp.Cost)
	assert.Equal(t, uint64(9), cp.Savings[1])
	assert.Equal(t, uint64(0), cp.Savings[2])
}

func TestComputeCriticalPath_Empty(t *testing.T) {
	g := buildGraph(t, nil, nil)
	cp, err := ComputeCriticalPath(g, nil)
	require.NoError(t, err)
	assert.Empty(t, cp.Path)
	assert.Zero(t, cp.Cost)
}

func TestComputeCriticalPath_WeightCountMismatch(t *testing.T) {
	g := buildGraph(t, []string{"a"}, nil)
	_, err := ComputeCriticalPath(g, nil)
	assert.ErrorIs(t, err, ErrWeightCount)
}

func TestComputeCriticalPath_Overflow(t *testing.T) {
	g := buildGraph(t, []string{"a", "b"}, map[string][]string{"b": {"a"}})
	_, err := ComputeCriticalPath(g, []uint64{math.MaxUint64, 1})
	assert.ErrorIs(t, err, ErrWeightOverflow)
}
