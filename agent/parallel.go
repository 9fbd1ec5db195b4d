package agent

import (
	"context"
	"fmt"
	"sync"

	"github.com/astra-agents/astra/core"
)

// ParallelResultsKey is the session data key under which the executor
// stores the ordered list of branch outputs.
const ParallelResultsKey = "parallel_results"

// Parallel coordinates the concurrent execution of child agents.
//
// Isolation is the load-bearing invariant: every child runs against its own
// deep snapshot of the shared session, so writes by one branch are
// invisible to siblings and to the parent. The parent session is left
// untouched by children; the executor itself writes the aggregate outcome
// into the shared state afterwards.
//
// Partial success is the default policy: a branch that panics (or returns
// no response) yields a nil slot at its index while the other branches'
// results are kept. Results always preserve child order regardless of
// completion order, and all branches run to completion; one failure never
// cancels its siblings.
type Parallel struct {
	Base
	children []core.Agent
}

// NewParallel creates a concurrent fan-out over the given children.
func NewParallel(name string, children []core.Agent, optFns ...Option) *Parallel {
	opts := newOptions(optFns)
	return &Parallel{
		Base:     newBase(name, opts),
		children: children,
	}
}

// Children returns the ordered child list.
func (p *Parallel) Children() []core.Agent {
	out := make([]core.Agent, len(p.children))
	copy(out, p.children)
	return out
}

// Execute implements core.Agent. It launches every child concurrently
// against a session snapshot, waits for all completions, then records the
// ordered branch outputs on the shared blackboard and appends a summary
// message. The response carries the per-branch responses (nil slots for
// failed branches) in Metadata under "results".
func (p *Parallel) Execute(ctx context.Context, sess *core.Session) *core.Response {
	if len(p.children) == 0 {
		return core.Errorf("parallel agent %q has no children", p.Name())
	}

	logger := p.Logger()
	results := make([]*core.Response, len(p.children))

	var wg sync.WaitGroup
	for i, child := range p.children {
		wg.Add(1)
		go func(idx int, c core.Agent) {
			defer wg.Done()
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("parallel branch panicked", "agent", p.Name(), "child", c.Name(), "panic", fmt.Sprintf("%v", rec))
					results[idx] = nil
				}
			}()

			branch := sess.Snapshot()
			results[idx] = c.Execute(ctx, branch)
		}(i, child)
	}
	wg.Wait()

	contents := make([]any, len(results))
	for i, resp := range results {
		if resp != nil {
			contents[i] = resp.Content
		}
	}
	sess.Set(ParallelResultsKey, contents)

	summary := fmt.Sprintf("Executed %d tasks in parallel.", len(p.children))
	sess.AddMessage(core.NewMessage(core.RoleAssistant, summary))

	return core.Success(summary).WithMetadata("results", results)
}
