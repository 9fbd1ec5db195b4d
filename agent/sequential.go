package agent

import (
	"context"

	"github.com/astra-agents/astra/core"
)

// Sequential coordinates the execution of child agents in list order
// against the same session, so each agent's output becomes context for the
// one after it.
//
// Between steps the executor manages the transcript: with KeepAliveState
// false (the default) the history is cleared and reseeded with a single
// message carrying the previous child's output, bounding context growth
// across pipeline stages. Structured outputs are re-serialized into a
// user-role message so the next child treats them as fresh input;
// unstructured text becomes an assistant-role message. With KeepAliveState
// true the output message is appended without clearing.
//
// The executor's own result is the last child's response.
type Sequential struct {
	Base
	children []core.Agent
}

// NewSequential creates a sequential pipeline over the given children.
func NewSequential(name string, children []core.Agent, optFns ...Option) *Sequential {
	opts := newOptions(optFns)
	return &Sequential{
		Base:     newBase(name, opts),
		children: children,
	}
}

// Children returns the ordered child list.
func (s *Sequential) Children() []core.Agent {
	out := make([]core.Agent, len(s.children))
	copy(out, s.children)
	return out
}

// Execute implements core.Agent. Each child runs to completion before the
// next starts; a child reporting an error status does not stop the
// pipeline (its response simply feeds the next stage), matching the rule
// that expected failures travel in responses, not exceptions.
func (s *Sequential) Execute(ctx context.Context, sess *core.Session) *core.Response {
	if len(s.children) == 0 {
		return core.Errorf("sequential agent %q has no children", s.Name())
	}

	logger := s.Logger()
	var final *core.Response
	for i, child := range s.children {
		if err := ctx.Err(); err != nil {
			return core.Errorf("sequential agent %q cancelled: %v", s.Name(), err)
		}

		logger.Debug("sequential step", "agent", s.Name(), "step", i+1, "child", child.Name())

		resp := child.Execute(ctx, sess)
		if resp == nil {
			resp = core.Errorf("child agent %q returned no response", child.Name())
		}
		final = resp

		if i < len(s.children)-1 {
			s.seedNext(sess, resp)
		}
	}
	return final
}

// seedNext applies the context management contract between steps.
func (s *Sequential) seedNext(sess *core.Session, resp *core.Response) {
	role := core.RoleAssistant
	if resp.IsStructured() {
		role = core.RoleUser
	}

	if !s.KeepAliveState() {
		sess.ClearHistory()
	}
	sess.AddMessage(core.NewMessage(role, resp.Text()))
}
