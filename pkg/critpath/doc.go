/*
Package critpath computes the critical path of a running build.

# Overview

Execution contexts report facts about the build as signals: an action
finished, a transitive-set projection was computed, a provisional action
was redirected to another, and finally the build finished. A single
consumer goroutine folds those signals into a Backend, which produces a
BuildInfo summary once the build ends. The summary is handed to a Sink.

Two backends are available:
  - StreamingBackend: greedy, O(V+E), low memory. It picks the heaviest
    known dependency at insertion time and never revisits the choice.
  - LongestPathBackend: builds an explicit DAG and computes the exact
    longest path, plus per-vertex potential savings.

# Basic Usage

Wrap the build with Scope. The sender can be shared with any number of
goroutines; Signal never blocks and never fails.

	settings, err := config.FromEnv(os.LookupEnv)
	if err != nil {
	    return err
	}

	result, err := critpath.Scope(ctx, settings, func(ctx context.Context, s critpath.Sender) (Result, error) {
	    return runBuild(ctx, s)
	}, critpath.WithLogger(logger))

Inside the build, report each finished action:

	sender.Signal(critpath.ActionExecuted{Action: action, Duration: elapsed})

Scope always sends BuildFinished and waits for the consumer before
returning, even if the build failed or panicked. A failing consumer never
changes the build's own error; it is added as a *ListenerError.

# Ordering

Signals from one goroutine are processed in the order they were sent.
There is no ordering across goroutines. The streaming backend assumes a
dependency is always reported before its dependents, which holds when an
action only starts after its inputs are built. This is not verified.
*/
package critpath
