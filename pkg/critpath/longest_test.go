package critpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/critpath/pkg/critpath/lpgraph"
)

func TestLongestPathBackend_DisjointChains(t *testing.T) {
	b := NewLongestPathBackend()
	// Chain A: 1 -> 2, total 10ms.
	b.ProcessNode(node(1), testAction(1, "a"), ms(4), nil)
	b.ProcessNode(node(2), testAction(2, "a", 1), ms(6), []NodeKey{node(1)})
	// Chain B: 3 -> 4 -> 5, total 15ms.
	b.ProcessNode(node(3), testAction(3, "b"), ms(5), nil)
	b.ProcessNode(node(4), testAction(4, "b", 3), ms(5), []NodeKey{node(3)})
	b.ProcessNode(node(5), testAction(5, "b", 4), ms(5), []NodeKey{node(4)})

	info, err := b.Finish()
	require.NoError(t, err)

	assert.Equal(t, []uint32{3, 4, 5}, entryKeys(info))
	assert.Equal(t, ms(15), info.TotalDuration())
	assert.Equal(t, uint64(5), info.NumNodes)
	assert.Equal(t, uint64(3), info.NumEdges)
	assert.Equal(t, BackendLongestPath, info.Backend)

	savings := b.PotentialSavings()
	assert.Equal(t, ms(5), savings[node(1)])
	assert.Equal(t, ms(5), savings[node(2)])
	assert.Zero(t, savings[node(3)])
	assert.Zero(t, savings[node(5)])
}

func TestLongestPathBackend_ExactWhereStreamingIsGreedy(t *testing.T) {
	// 3 is reported before its dependency 2. The streaming backend cannot
	// see the edge; the longest-path backend resolves it at Finish.
	signals := []Signal{
		ActionExecuted{Action: testAction(1, "a"), Duration: ms(1)},
		ActionExecuted{Action: testAction(3, "c", 2), Duration: ms(1)},
		ActionExecuted{Action: testAction(2, "b"), Duration: ms(5)},
	}

	lp := NewLongestPathBackend()
	st := NewStreamingBackend()
	for _, sig := range signals {
		require.NoError(t, dispatch(lp, sig))
		require.NoError(t, dispatch(st, sig))
	}

	lpInfo, err := lp.Finish()
	require.NoError(t, err)
	assert.Equal(t, []uint32{2, 3}, entryKeys(lpInfo))

	stInfo, err := st.Finish()
	require.NoError(t, err)
	assert.Equal(t, []uint32{2}, entryKeys(stInfo))
}

func TestLongestPathBackend_UnresolvedDepsDropped(t *testing.T) {
	b := NewLongestPathBackend()
	b.ProcessNode(node(1), testAction(1, "a", 9), ms(2), []NodeKey{node(9)})

	info, err := b.Finish()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), info.NumNodes)
	assert.Zero(t, info.NumEdges)
	assert.Equal(t, []uint32{1}, entryKeys(info))
}

func TestLongestPathBackend_SyntheticNodesNotReported(t *testing.T) {
	b := NewLongestPathBackend()
	require.NoError(t, dispatch(b, ActionExecuted{Action: testAction(2, "real"), Duration: ms(5)}))
	require.NoError(t, dispatch(b, ActionRedirected{Key: key(1), Dest: key(2)}))
	require.NoError(t, dispatch(b, ActionExecuted{Action: testAction(3, "consumer", 1), Duration: ms(3)}))

	info, err := b.Finish()
	require.NoError(t, err)
	assert.Equal(t, []uint32{2, 3}, entryKeys(info))
	assert.Equal(t, uint64(3), info.NumNodes)
	assert.Equal(t, uint64(2), info.NumEdges)
}

func TestLongestPathBackend_DuplicatePoisons(t *testing.T) {
	b := NewLongestPathBackend()
	b.ProcessNode(node(1), testAction(1, "a"), ms(1), nil)
	b.ProcessNode(node(1), testAction(1, "a"), ms(1), nil)
	b.ProcessNode(node(2), testAction(2, "b"), ms(1), nil)

	info, err := b.Finish()
	require.Error(t, err)
	assert.Nil(t, info)
	assert.ErrorIs(t, err, lpgraph.ErrDuplicateVertex)

	var dup *lpgraph.DuplicateVertexError[NodeKey]
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, node(1), dup.Key)

	again, err2 := b.Finish()
	assert.Nil(t, again)
	assert.Equal(t, err, err2)
	assert.Nil(t, b.PotentialSavings())
}

func TestLongestPathBackend_NegativeDuration(t *testing.T) {
	b := NewLongestPathBackend()
	b.ProcessNode(node(1), testAction(1, "a"), -ms(1), nil)

	_, err := b.Finish()
	assert.ErrorIs(t, err, ErrNegativeDuration)

	var durErr *DurationError
	require.ErrorAs(t, err, &durErr)
	assert.Equal(t, node(1), durErr.Key)
}

func TestLongestPathBackend_Cycle(t *testing.T) {
	b := NewLongestPathBackend()
	b.ProcessNode(node(1), testAction(1, "a", 2), ms(1), []NodeKey{node(2)})
	b.ProcessNode(node(2), testAction(2, "b", 1), ms(1), []NodeKey{node(1)})

	_, err := b.Finish()
	assert.ErrorIs(t, err, lpgraph.ErrCycle)
}

func TestLongestPathBackend_Empty(t *testing.T) {
	info, err := NewLongestPathBackend().Finish()
	require.NoError(t, err)
	assert.Empty(t, info.CriticalPath)
	assert.Zero(t, info.NumNodes)
}
