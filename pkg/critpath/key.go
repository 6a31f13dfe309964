package critpath

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/randalmurphal/critpath/pkg/critpath/label"
)

// ActionKey identifies a registered action: the target that owns it and
// the action's index within that target.
type ActionKey struct {
	Owner label.Label `json:"owner"`
	Index uint32      `json:"index"`
}

// String renders the key as owner#index.
func (k ActionKey) String() string {
	return fmt.Sprintf("%s#%d", k.Owner, k.Index)
}

// ErrInvalidKey indicates a key string that cannot be parsed.
var ErrInvalidKey = errors.New("invalid key")

// ParseActionKey parses the owner#index form produced by ActionKey.String.
func ParseActionKey(s string) (ActionKey, error) {
	idx := strings.LastIndex(s, "#")
	if idx < 0 {
		return ActionKey{}, fmt.Errorf("%w: %q: missing #index", ErrInvalidKey, s)
	}
	owner, err := label.Parse(s[:idx])
	if err != nil {
		return ActionKey{}, fmt.Errorf("%w: %q: %w", ErrInvalidKey, s, err)
	}
	n, err := strconv.ParseUint(s[idx+1:], 10, 32)
	if err != nil {
		return ActionKey{}, fmt.Errorf("%w: %q: %w", ErrInvalidKey, s, err)
	}
	return ActionKey{Owner: owner, Index: uint32(n)}, nil
}

// ProjectionKey identifies one projection of a transitive set.
type ProjectionKey struct {
	Set        string `json:"set"`
	Projection uint32 `json:"projection"`
}

// String renders the key as set[projection].
func (k ProjectionKey) String() string {
	return fmt.Sprintf("%s[%d]", k.Set, k.Projection)
}

// ParseProjectionKey parses the set[projection] form produced by
// ProjectionKey.String.
func ParseProjectionKey(s string) (ProjectionKey, error) {
	open := strings.LastIndex(s, "[")
	if open <= 0 || !strings.HasSuffix(s, "]") {
		return ProjectionKey{}, fmt.Errorf("%w: %q: want set[projection]", ErrInvalidKey, s)
	}
	n, err := strconv.ParseUint(s[open+1:len(s)-1], 10, 32)
	if err != nil {
		return ProjectionKey{}, fmt.Errorf("%w: %q: %w", ErrInvalidKey, s, err)
	}
	return ProjectionKey{Set: s[:open], Projection: uint32(n)}, nil
}

type nodeKind uint8

const (
	actionNode nodeKind = iota + 1
	projectionNode
)

// NodeKey identifies a graph vertex: an action or a projection.
// NodeKey is comparable and can be used as a map key.
type NodeKey struct {
	kind       nodeKind
	action     ActionKey
	projection ProjectionKey
}

// ActionNode returns the node key for an action.
func ActionNode(k ActionKey) NodeKey {
	return NodeKey{kind: actionNode, action: k}
}

// ProjectionNode returns the node key for a projection.
func ProjectionNode(k ProjectionKey) NodeKey {
	return NodeKey{kind: projectionNode, projection: k}
}

// Action returns the action key and true if k is an action node.
func (k NodeKey) Action() (ActionKey, bool) {
	return k.action, k.kind == actionNode
}

// Projection returns the projection key and true if k is a projection node.
func (k NodeKey) Projection() (ProjectionKey, bool) {
	return k.projection, k.kind == projectionNode
}

// IsZero reports whether k is the zero NodeKey.
func (k NodeKey) IsZero() bool {
	return k.kind == 0
}

func (k NodeKey) String() string {
	switch k.kind {
	case actionNode:
		return "action:" + k.action.String()
	case projectionNode:
		return "projection:" + k.projection.String()
	default:
		return "<none>"
	}
}
