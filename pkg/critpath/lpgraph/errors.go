package lpgraph

import (
	"errors"
	"fmt"
)

// Sentinel errors for graph building and analysis.
var (
	// ErrDuplicateVertex indicates the same key was pushed twice.
	ErrDuplicateVertex = errors.New("duplicate vertex")

	// ErrCycle indicates the dependency edges do not form a DAG.
	ErrCycle = errors.New("graph contains a cycle")

	// ErrWeightOverflow indicates a path weight does not fit in uint64.
	ErrWeightOverflow = errors.New("path weight overflows uint64")

	// ErrWeightCount indicates the weight table does not match the vertex count.
	ErrWeightCount = errors.New("weight count does not match vertex count")
)

// DuplicateVertexError reports the key that was pushed twice.
type DuplicateVertexError[K any] struct {
	// Key is the key pushed more than once.
	Key K
}

// Error implements the error interface.
func (e *DuplicateVertexError[K]) Error() string {
	return fmt.Sprintf("%v: %v", ErrDuplicateVertex, e.Key)
}

// Unwrap returns ErrDuplicateVertex for errors.Is support.
func (e *DuplicateVertexError[K]) Unwrap() error {
	return ErrDuplicateVertex
}
