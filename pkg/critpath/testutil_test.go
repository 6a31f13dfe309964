package critpath

import (
	"time"

	"github.com/randalmurphal/critpath/pkg/critpath/label"
)

var testOwner = label.MustParse("root//app:lib")

func key(i uint32) ActionKey {
	return ActionKey{Owner: testOwner, Index: i}
}

func node(i uint32) NodeKey {
	return ActionNode(key(i))
}

// testAction builds an action whose inputs are the outputs of deps.
func testAction(i uint32, category string, deps ...uint32) *Action {
	inputs := make([]Input, 0, len(deps))
	for _, d := range deps {
		inputs = append(inputs, BuiltArtifact(key(d)))
	}
	return &Action{
		Key:      key(i),
		Owner:    testOwner,
		Category: category,
		Inputs:   inputs,
	}
}

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}

// entryKeys returns the action indexes of the reported critical path.
func entryKeys(info *BuildInfo) []uint32 {
	idx := make([]uint32, 0, len(info.CriticalPath))
	for _, e := range info.CriticalPath {
		idx = append(idx, e.ActionKey.Index)
	}
	return idx
}
