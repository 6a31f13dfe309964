package replay

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/randalmurphal/critpath/pkg/critpath"
	"github.com/randalmurphal/critpath/pkg/critpath/label"
	"github.com/randalmurphal/critpath/pkg/critpath/lpgraph"
)

// Plan is a validated, acyclic trace ready to replay.
type Plan struct {
	nodes []planNode
}

type planNode struct {
	key    critpath.NodeKey
	signal critpath.Signal
	wait   time.Duration
	deps   []int
}

// Len returns the number of nodes in the plan.
func (p *Plan) Len() int {
	return len(p.nodes)
}

// Compile validates t and builds a Plan. Every node must be defined once,
// every dependency must refer to a defined node, and the graph must be
// acyclic. Discouraged owner target names are logged as warnings through
// the WithLogger logger.
func (t *Trace) Compile(opts ...Option) (*Plan, error) {
	cfg := newRunConfig(opts)
	checked := make(map[label.Label]struct{})

	b := lpgraph.NewBuilder[critpath.NodeKey, planNode]()
	add := func(section string, i int, n planNode) error {
		if err := b.Push(n.key, dependencyKeys(n.signal), n); err != nil {
			return fmt.Errorf("%s[%d]: %w", section, i, err)
		}
		return nil
	}

	for i, spec := range t.Actions {
		a, err := spec.action()
		if err != nil {
			return nil, fmt.Errorf("actions[%d]: %w", i, err)
		}
		if _, ok := checked[a.Owner]; !ok {
			checked[a.Owner] = struct{}{}
			warnSoftIssues(cfg.logger, a.Owner)
		}
		n := planNode{
			key:    critpath.ActionNode(a.Key),
			signal: critpath.ActionExecuted{Action: a, Duration: spec.Duration},
			wait:   spec.Duration,
		}
		if err := add("actions", i, n); err != nil {
			return nil, err
		}
	}

	for i, spec := range t.Projections {
		sig, err := spec.signal()
		if err != nil {
			return nil, fmt.Errorf("projections[%d]: %w", i, err)
		}
		if err := add("projections", i, planNode{key: critpath.ProjectionNode(sig.Key), signal: sig}); err != nil {
			return nil, err
		}
	}

	for i, spec := range t.Redirects {
		sig, err := spec.signal()
		if err != nil {
			return nil, fmt.Errorf("redirects[%d]: %w", i, err)
		}
		if err := add("redirects", i, planNode{key: critpath.ActionNode(sig.Key), signal: sig}); err != nil {
			return nil, err
		}
	}

	graph, keys, data, err := b.Finish()
	if err != nil {
		return nil, fmt.Errorf("compile trace: %w", err)
	}

	defined := make(map[critpath.NodeKey]struct{}, len(keys))
	for _, k := range keys {
		defined[k] = struct{}{}
	}
	for _, n := range data {
		for _, dep := range dependencyKeys(n.signal) {
			if _, ok := defined[dep]; !ok {
				return nil, fmt.Errorf("%s depends on %s: %w", n.key, dep, ErrUnknownReference)
			}
		}
	}
	if _, err := graph.TopologicalOrder(); err != nil {
		return nil, fmt.Errorf("compile trace: %w", err)
	}

	nodes := make([]planNode, len(data))
	for i, n := range data {
		for _, pred := range graph.Predecessors(lpgraph.VertexID(i)) {
			n.deps = append(n.deps, int(pred))
		}
		nodes[i] = n
	}
	return &Plan{nodes: nodes}, nil
}

// dependencyKeys returns the node keys a signal depends on.
func dependencyKeys(sig critpath.Signal) []critpath.NodeKey {
	switch s := sig.(type) {
	case critpath.ActionExecuted:
		return s.Action.Dependencies()
	case critpath.ProjectionComputed:
		deps := make([]critpath.NodeKey, 0, len(s.Artifacts)+len(s.SetDeps))
		for _, a := range s.Artifacts {
			deps = append(deps, critpath.ActionNode(a))
		}
		for _, p := range s.SetDeps {
			deps = append(deps, critpath.ProjectionNode(p))
		}
		return deps
	case critpath.ActionRedirected:
		return []critpath.NodeKey{critpath.ActionNode(s.Dest)}
	default:
		return nil
	}
}

func warnSoftIssues(logger *slog.Logger, owner label.Label) {
	for _, issue := range label.SoftIssues(owner.Name) {
		logger.Warn("discouraged target name",
			slog.String("owner", owner.String()),
			slog.String("issue", issue.Error()),
		)
	}
}
