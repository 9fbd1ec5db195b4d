package agent

import (
	"context"
	"sync"

	"github.com/astra-agents/astra/core"
)

// stubAgent is a scripted test agent. Each Execute call pops the next
// response from the script and optionally runs a hook against the session;
// when the script is exhausted the last response repeats.
type stubAgent struct {
	mu        sync.Mutex
	name      string
	script    []*core.Response
	onExecute func(sess *core.Session)
	calls     int
}

func newStubAgent(name string, responses ...*core.Response) *stubAgent {
	return &stubAgent{name: name, script: responses}
}

func (s *stubAgent) Name() string { return s.name }

func (s *stubAgent) Execute(_ context.Context, sess *core.Session) *core.Response {
	s.mu.Lock()
	s.calls++
	idx := s.calls - 1
	if idx >= len(s.script) {
		idx = len(s.script) - 1
	}
	var resp *core.Response
	if idx >= 0 {
		resp = s.script[idx]
	}
	hook := s.onExecute
	s.mu.Unlock()

	if hook != nil {
		hook(sess)
	}
	return resp
}

func (s *stubAgent) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// panickingAgent always panics, for exercising branch isolation.
type panickingAgent struct {
	name string
}

func (p *panickingAgent) Name() string { return p.name }

func (p *panickingAgent) Execute(context.Context, *core.Session) *core.Response {
	panic("boom")
}
