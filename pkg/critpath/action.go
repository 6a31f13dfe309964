package critpath

import "github.com/randalmurphal/critpath/pkg/critpath/label"

// Action is the metadata attached to an executed action node.
type Action struct {
	Key      ActionKey
	Owner    label.Label
	Category string
	// Identifier distinguishes actions of the same category within one
	// target. Optional.
	Identifier string
	// Inputs are the action's fully resolved inputs.
	Inputs []Input
}

// Name renders the display name used in summaries:
// "owner category" or "owner category[identifier]".
// A zero Owner falls back to the owner in Key.
func (a *Action) Name() string {
	owner := a.Owner
	if owner.IsZero() {
		owner = a.Key.Owner
	}
	name := owner.String() + " " + a.Category
	if a.Identifier != "" {
		name += "[" + a.Identifier + "]"
	}
	return name
}

// Dependencies returns the node keys a completed action depends on, in input
// order. Source artifacts contribute nothing.
func (a *Action) Dependencies() []NodeKey {
	deps := make([]NodeKey, 0, len(a.Inputs))
	for _, in := range a.Inputs {
		switch in := in.(type) {
		case ArtifactInput:
			if in.Producer != nil {
				deps = append(deps, ActionNode(*in.Producer))
			}
		case ProjectionInput:
			deps = append(deps, ProjectionNode(in.Key))
		}
	}
	return deps
}

// Input is one resolved action input: an ArtifactInput or a ProjectionInput.
type Input interface {
	isInput()
}

// ArtifactInput is a single artifact. Producer is the action that built it,
// or nil for a source file.
type ArtifactInput struct {
	Producer *ActionKey
}

// ProjectionInput is a transitive-set projection consumed as a whole.
type ProjectionInput struct {
	Key ProjectionKey
}

func (ArtifactInput) isInput()   {}
func (ProjectionInput) isInput() {}

// SourceArtifact returns an input for a source file.
func SourceArtifact() Input {
	return ArtifactInput{}
}

// BuiltArtifact returns an input produced by the action with key k.
func BuiltArtifact(k ActionKey) Input {
	return ArtifactInput{Producer: &k}
}
