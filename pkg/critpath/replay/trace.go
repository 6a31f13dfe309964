// Package replay drives a critical-path listener from a recorded build trace.
//
// A trace is a YAML document describing executed actions, computed
// projections and redirections:
//
//	actions:
//	  - owner: root//app:lib
//	    index: 0
//	    category: cxx_compile
//	    identifier: lib.cpp
//	    duration: 120ms
//	    inputs:
//	      - source: lib.cpp
//	  - owner: root//app:bin
//	    index: 0
//	    category: cxx_link
//	    duration: 40ms
//	    inputs:
//	      - projection: link_deps[0]
//	projections:
//	  - key: link_deps[0]
//	    artifacts: ["root//app:lib#0"]
//	redirects:
//	  - from: root//app:bin#1
//	    to: root//app:bin#0
//
// Compile validates the trace and produces a Plan. Running a Plan starts one
// goroutine per node; each node signals only after all of its dependencies
// have, so the listener sees dependencies before dependents.
package replay

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/randalmurphal/critpath/pkg/critpath"
	"github.com/randalmurphal/critpath/pkg/critpath/label"
)

// ErrUnknownReference indicates a dependency on a node the trace doesn't define.
var ErrUnknownReference = errors.New("reference to undefined node")

// Trace is the decoded trace file.
type Trace struct {
	Actions     []ActionSpec     `yaml:"actions"`
	Projections []ProjectionSpec `yaml:"projections"`
	Redirects   []RedirectSpec   `yaml:"redirects"`
}

// ActionSpec describes one executed action.
type ActionSpec struct {
	Owner      string        `yaml:"owner"`
	Index      uint32        `yaml:"index"`
	Category   string        `yaml:"category"`
	Identifier string        `yaml:"identifier"`
	Duration   time.Duration `yaml:"duration"`
	Inputs     []InputSpec   `yaml:"inputs"`
}

// InputSpec is one action input. Exactly one field must be set.
type InputSpec struct {
	// Action is the producing action's key, as owner#index.
	Action string `yaml:"action"`
	// Source is a source file path. It contributes no edge.
	Source string `yaml:"source"`
	// Projection is a projection key, as set[projection].
	Projection string `yaml:"projection"`
}

// ProjectionSpec describes one computed projection.
type ProjectionSpec struct {
	Key       string   `yaml:"key"`
	Artifacts []string `yaml:"artifacts"`
	Sets      []string `yaml:"sets"`
}

// RedirectSpec describes a provisional action superseded by another.
type RedirectSpec struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// Load reads and parses a trace file.
func Load(path string) (*Trace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read trace: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML trace.
func Parse(data []byte) (*Trace, error) {
	var t Trace
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse trace: %w", err)
	}
	return &t, nil
}

// action converts the spec into an Action.
func (s ActionSpec) action() (*critpath.Action, error) {
	owner, err := label.Parse(s.Owner)
	if err != nil {
		return nil, fmt.Errorf("action owner: %w", err)
	}
	if s.Duration < 0 {
		return nil, fmt.Errorf("action %s#%d: %w", s.Owner, s.Index, critpath.ErrNegativeDuration)
	}

	a := &critpath.Action{
		Key:        critpath.ActionKey{Owner: owner, Index: s.Index},
		Owner:      owner,
		Category:   s.Category,
		Identifier: s.Identifier,
		Inputs:     make([]critpath.Input, 0, len(s.Inputs)),
	}
	for i, in := range s.Inputs {
		input, err := in.input()
		if err != nil {
			return nil, fmt.Errorf("action %s input %d: %w", a.Key, i, err)
		}
		a.Inputs = append(a.Inputs, input)
	}
	return a, nil
}

func (s InputSpec) input() (critpath.Input, error) {
	set := 0
	for _, v := range []string{s.Action, s.Source, s.Projection} {
		if v != "" {
			set++
		}
	}
	if set != 1 {
		return nil, errors.New("exactly one of action, source, projection must be set")
	}

	switch {
	case s.Action != "":
		k, err := critpath.ParseActionKey(s.Action)
		if err != nil {
			return nil, err
		}
		return critpath.BuiltArtifact(k), nil
	case s.Projection != "":
		k, err := critpath.ParseProjectionKey(s.Projection)
		if err != nil {
			return nil, err
		}
		return critpath.ProjectionInput{Key: k}, nil
	default:
		return critpath.SourceArtifact(), nil
	}
}

func (s ProjectionSpec) signal() (critpath.ProjectionComputed, error) {
	key, err := critpath.ParseProjectionKey(s.Key)
	if err != nil {
		return critpath.ProjectionComputed{}, err
	}
	sig := critpath.ProjectionComputed{Key: key}
	for _, a := range s.Artifacts {
		k, err := critpath.ParseActionKey(a)
		if err != nil {
			return critpath.ProjectionComputed{}, fmt.Errorf("projection %s: %w", key, err)
		}
		sig.Artifacts = append(sig.Artifacts, k)
	}
	for _, p := range s.Sets {
		k, err := critpath.ParseProjectionKey(p)
		if err != nil {
			return critpath.ProjectionComputed{}, fmt.Errorf("projection %s: %w", key, err)
		}
		sig.SetDeps = append(sig.SetDeps, k)
	}
	return sig, nil
}

func (s RedirectSpec) signal() (critpath.ActionRedirected, error) {
	from, err := critpath.ParseActionKey(s.From)
	if err != nil {
		return critpath.ActionRedirected{}, fmt.Errorf("redirect from: %w", err)
	}
	to, err := critpath.ParseActionKey(s.To)
	if err != nil {
		return critpath.ActionRedirected{}, fmt.Errorf("redirect to: %w", err)
	}
	return critpath.ActionRedirected{Key: from, Dest: to}, nil
}
