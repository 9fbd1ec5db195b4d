package agent

import (
	"context"
	"fmt"

	"github.com/astra-agents/astra/core"
)

// Loop repeatedly executes a single child agent against the shared session,
// up to MaxLoops times, checking the exit condition against the state after
// each child run.
//
// Feedback-injection contract: when an iteration does not satisfy the exit
// condition and loops remain, the executor seeds the next iteration with a
// single user-role revision prompt of the form
//
//	Original request: <first message of the run>
//
//	Please revise your work based on the following feedback: <last output>
//
// where the last output is the child's final content, serialized to JSON
// when structured. With KeepAliveState false the history is cleared before
// seeding; with true the prompt is appended. Exit conditions may rely on
// this: the last appended message after a revision step is always that
// user-role prompt, and anything the child itself wrote sits before it.
//
// A nil exit condition is valid and runs the child exactly MaxLoops times.
// Exhausting the loop without the condition turning true returns the last
// child response with its status unchanged; running out of budget here is
// not itself an error.
type Loop struct {
	Base
	child         core.Agent
	maxLoops      int
	exitCondition func(*core.Session) bool
}

// NewLoop creates a bounded feedback loop around child. Bounds below one
// are treated as one so the child always runs at least once.
func NewLoop(name string, child core.Agent, optFns ...Option) *Loop {
	opts := newOptions(optFns)
	maxLoops := opts.MaxLoops
	if maxLoops < 1 {
		maxLoops = 1
	}
	return &Loop{
		Base:          newBase(name, opts),
		child:         child,
		maxLoops:      maxLoops,
		exitCondition: opts.ExitCondition,
	}
}

// Child returns the looped agent.
func (l *Loop) Child() core.Agent { return l.child }

// MaxLoops returns the iteration bound.
func (l *Loop) MaxLoops() int { return l.maxLoops }

// Execute implements core.Agent.
func (l *Loop) Execute(ctx context.Context, sess *core.Session) *core.Response {
	if l.child == nil {
		return core.Errorf("loop agent %q has no child", l.Name())
	}

	first, ok := sess.FirstMessage()
	if !ok {
		return core.Errorf("loop agent %q requires an initial prompt", l.Name())
	}
	originalPrompt := first.Content

	logger := l.Logger()
	var final *core.Response
	for i := 0; i < l.maxLoops; i++ {
		if err := ctx.Err(); err != nil {
			return core.Errorf("loop agent %q cancelled: %v", l.Name(), err)
		}

		logger.Debug("loop iteration", "agent", l.Name(), "iteration", i+1, "max_loops", l.maxLoops)

		resp := l.child.Execute(ctx, sess)
		if resp == nil {
			resp = core.Errorf("child agent %q returned no response", l.child.Name())
		}
		final = resp

		// The exit condition sees the state after the child has run.
		if l.exitCondition != nil && l.exitCondition(sess) {
			logger.Debug("loop exit condition met", "agent", l.Name(), "iteration", i+1)
			return final
		}

		if i < l.maxLoops-1 {
			l.seedRevision(sess, originalPrompt, resp)
		}
	}

	logger.Debug("loop exhausted", "agent", l.Name(), "max_loops", l.maxLoops)
	return final
}

// seedRevision applies the feedback-injection contract documented on Loop.
func (l *Loop) seedRevision(sess *core.Session, originalPrompt string, resp *core.Response) {
	prompt := fmt.Sprintf(
		"Original request: %s\n\nPlease revise your work based on the following feedback: %s",
		originalPrompt, resp.Text(),
	)

	if !l.KeepAliveState() {
		sess.ClearHistory()
	}
	sess.AddMessage(core.NewMessage(core.RoleUser, prompt))
}
