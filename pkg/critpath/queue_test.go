package critpath

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_FIFO(t *testing.T) {
	q := newQueue()
	require.True(t, q.push(ActionRedirected{Key: key(1)}))
	require.True(t, q.push(ActionRedirected{Key: key(2)}))

	first, ok := q.pop()
	require.True(t, ok)
	assert.Equal(t, key(1), first.(ActionRedirected).Key)

	second, ok := q.pop()
	require.True(t, ok)
	assert.Equal(t, key(2), second.(ActionRedirected).Key)
}

func TestQueue_ConcurrentProducersKeepPerProducerOrder(t *testing.T) {
	const producers, perProducer = 16, 200

	q := newQueue()
	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p uint32) {
			defer wg.Done()
			for i := uint32(0); i < perProducer; i++ {
				q.push(ActionRedirected{Key: key(p), Dest: key(i)})
			}
		}(uint32(p))
	}

	last := make(map[uint32]int)
	for n := 0; n < producers*perProducer; n++ {
		sig, ok := q.pop()
		require.True(t, ok)
		r := sig.(ActionRedirected)
		prev, seen := last[r.Key.Index]
		if seen {
			require.Equal(t, prev+1, int(r.Dest.Index), "producer %d out of order", r.Key.Index)
		}
		last[r.Key.Index] = int(r.Dest.Index)
	}
	wg.Wait()
	assert.Len(t, last, producers)
}

func TestQueue_PopBlocksUntilPush(t *testing.T) {
	q := newQueue()
	got := make(chan Signal)
	go func() {
		sig, _ := q.pop()
		got <- sig
	}()

	q.push(BuildFinished{})
	assert.Equal(t, BuildFinished{}, <-got)
}

func TestQueue_Close(t *testing.T) {
	q := newQueue()
	q.push(BuildFinished{})
	q.close()

	_, ok := q.pop()
	assert.False(t, ok)
	assert.False(t, q.push(BuildFinished{}))
}

func TestQueue_CloseWakesConsumer(t *testing.T) {
	q := newQueue()
	done := make(chan bool)
	go func() {
		_, ok := q.pop()
		done <- ok
	}()
	q.close()
	assert.False(t, <-done)
}

func TestSender_Zero(t *testing.T) {
	var s Sender
	assert.False(t, s.Enabled())
	assert.NotPanics(t, func() { s.Signal(BuildFinished{}) })
}

func TestSender_DropsNil(t *testing.T) {
	q := newQueue()
	s := Sender{q: q}
	s.Signal(nil)
	s.Signal(BuildFinished{})

	sig, ok := q.pop()
	require.True(t, ok)
	assert.Equal(t, BuildFinished{}, sig)
}

func TestDispatch_Errors(t *testing.T) {
	b := NewStreamingBackend()

	err := dispatch(b, ActionExecuted{})
	assert.ErrorIs(t, err, ErrNilAction)
	var se *SignalError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, KindActionExecuted, se.Kind)
	assert.True(t, se.Key.IsZero())

	err = dispatch(b, ActionExecuted{Action: testAction(1, "a"), Duration: -ms(1)})
	assert.ErrorIs(t, err, ErrNegativeDuration)
	require.ErrorAs(t, err, &se)
	assert.Equal(t, node(1), se.Key)
	assert.Contains(t, err.Error(), "action:root//app:lib#1")

	err = dispatch(b, (*ActionExecuted)(nil))
	assert.ErrorIs(t, err, ErrUnknownSignal)
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "*critpath.ActionExecuted", se.Kind)

	assert.Zero(t, b.numNodes)
}

func TestDispatch_PointerSignals(t *testing.T) {
	b := NewStreamingBackend()

	require.NoError(t, dispatch(b, &ActionExecuted{Action: testAction(1, "a"), Duration: ms(2)}))
	require.NoError(t, dispatch(b, &ActionRedirected{Key: key(2), Dest: key(1)}))
	require.NoError(t, dispatch(b, &ProjectionComputed{
		Key:       ProjectionKey{Set: "deps", Projection: 0},
		Artifacts: []ActionKey{key(2)},
	}))

	info, err := b.Finish()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), info.NumNodes)
	assert.Equal(t, uint64(2), info.NumEdges)
	assert.Equal(t, []uint32{1}, entryKeys(info))
}

func TestSender_PointerSignalsEnqueuedByValue(t *testing.T) {
	q := newQueue()
	s := Sender{q: q}

	a := testAction(1, "a")
	s.Signal(&ActionExecuted{Action: a, Duration: ms(1)})
	s.Signal(&BuildFinished{})
	s.Signal((*ActionRedirected)(nil))

	sig, ok := q.pop()
	require.True(t, ok)
	assert.Equal(t, ActionExecuted{Action: a, Duration: ms(1)}, sig)

	sig, ok = q.pop()
	require.True(t, ok)
	assert.Equal(t, BuildFinished{}, sig)

	q.mu.Lock()
	assert.Empty(t, q.items, "nil pointer signal dropped")
	q.mu.Unlock()
}

func TestNodeKey(t *testing.T) {
	a := ActionNode(key(3))
	p := ProjectionNode(ProjectionKey{Set: "deps", Projection: 2})

	ak, ok := a.Action()
	assert.True(t, ok)
	assert.Equal(t, key(3), ak)
	_, ok = a.Projection()
	assert.False(t, ok)

	pk, ok := p.Projection()
	assert.True(t, ok)
	assert.Equal(t, "deps", pk.Set)
	_, ok = p.Action()
	assert.False(t, ok)

	assert.Equal(t, "action:root//app:lib#3", a.String())
	assert.Equal(t, "projection:deps[2]", p.String())
	assert.Equal(t, "<none>", NodeKey{}.String())
	assert.NotEqual(t, a, p)
	assert.Equal(t, a, ActionNode(key(3)))
}

func TestAction_Dependencies(t *testing.T) {
	a := &Action{
		Key: key(5),
		Inputs: []Input{
			SourceArtifact(),
			BuiltArtifact(key(1)),
			ProjectionInput{Key: ProjectionKey{Set: "s"}},
			BuiltArtifact(key(1)),
		},
	}
	assert.Equal(t, []NodeKey{
		node(1),
		ProjectionNode(ProjectionKey{Set: "s"}),
		node(1),
	}, a.Dependencies())

	assert.Equal(t, "root//app:lib ", (&Action{Key: key(1)}).Name())
}

func TestParseKeys(t *testing.T) {
	k, err := ParseActionKey("root//app:lib#7")
	require.NoError(t, err)
	assert.Equal(t, key(7), k)
	back, err := ParseActionKey(k.String())
	require.NoError(t, err)
	assert.Equal(t, k, back)

	for _, bad := range []string{"root//app:lib", "nolabel#1", "root//app:lib#x", "root//app:lib#-1"} {
		_, err := ParseActionKey(bad)
		assert.ErrorIs(t, err, ErrInvalidKey, bad)
	}

	p, err := ParseProjectionKey("link_deps[2]")
	require.NoError(t, err)
	assert.Equal(t, ProjectionKey{Set: "link_deps", Projection: 2}, p)
	assert.Equal(t, "link_deps[2]", p.String())

	for _, bad := range []string{"link_deps", "[2]", "deps[x]", "deps[2"} {
		_, err := ParseProjectionKey(bad)
		assert.ErrorIs(t, err, ErrInvalidKey, bad)
	}
}
