package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astra-agents/astra/core"
)

func TestNewSequential(t *testing.T) {
	child1 := newStubAgent("child-1", core.Success("a"))
	child2 := newStubAgent("child-2", core.Success("b"))

	agent := NewSequential("pipeline", []core.Agent{child1, child2})

	assert.Equal(t, "pipeline", agent.Name())
	assert.Len(t, agent.Children(), 2)
}

func TestSequential_Execute_ReturnsLastChildResponse(t *testing.T) {
	child1 := newStubAgent("child-1", core.Success("first"))
	child2 := newStubAgent("child-2", core.Success("second"))
	child3 := newStubAgent("child-3", core.Success("third"))

	agent := NewSequential("pipeline", []core.Agent{child1, child2, child3})

	sess := core.NewSession("s1")
	sess.AddMessage(core.NewMessage(core.RoleUser, "go"))

	resp := agent.Execute(context.Background(), sess)

	require.NotNil(t, resp)
	assert.Equal(t, core.StatusSuccess, resp.Status)
	assert.Equal(t, "third", resp.Content)
	assert.Equal(t, 1, child1.CallCount())
	assert.Equal(t, 1, child2.CallCount())
	assert.Equal(t, 1, child3.CallCount())
}

func TestSequential_Execute_PrunesHistoryBetweenSteps(t *testing.T) {
	// The second child observes the history the executor seeded after the
	// first child ran.
	var observed []core.Message
	child1 := newStubAgent("solver", core.Success("5"))
	child2 := newStubAgent("echo", core.Success("5"))
	child2.onExecute = func(sess *core.Session) {
		observed = sess.History()
	}

	agent := NewSequential("pipeline", []core.Agent{child1, child2})

	sess := core.NewSession("s1")
	sess.AddMessage(core.NewMessage(core.RoleUser, "compute 2+3"))

	resp := agent.Execute(context.Background(), sess)

	require.NotNil(t, resp)
	assert.Equal(t, core.StatusSuccess, resp.Status)
	assert.Equal(t, "5", resp.Content)

	// keepAliveState defaults to false: the original prompt is gone and
	// exactly one message carries the first child's output.
	require.Len(t, observed, 1)
	assert.Equal(t, core.RoleAssistant, observed[0].Role)
	assert.Equal(t, "5", observed[0].Content)
}

func TestSequential_Execute_StructuredOutputSeedsUserRole(t *testing.T) {
	var observed []core.Message
	child1 := newStubAgent("producer", core.Success(map[string]any{"value": 5}))
	child2 := newStubAgent("consumer", core.Success("done"))
	child2.onExecute = func(sess *core.Session) {
		observed = sess.History()
	}

	agent := NewSequential("pipeline", []core.Agent{child1, child2})

	sess := core.NewSession("s1")
	sess.AddMessage(core.NewMessage(core.RoleUser, "produce"))

	agent.Execute(context.Background(), sess)

	require.Len(t, observed, 1)
	assert.Equal(t, core.RoleUser, observed[0].Role)
	assert.JSONEq(t, `{"value":5}`, observed[0].Content)
}

func TestSequential_Execute_KeepAliveStateAppends(t *testing.T) {
	var observed []core.Message
	child1 := newStubAgent("child-1", core.Success("first"))
	child2 := newStubAgent("child-2", core.Success("second"))
	child2.onExecute = func(sess *core.Session) {
		observed = sess.History()
	}

	agent := NewSequential("pipeline", []core.Agent{child1, child2}, WithKeepAliveState(true))

	sess := core.NewSession("s1")
	sess.AddMessage(core.NewMessage(core.RoleUser, "go"))

	agent.Execute(context.Background(), sess)

	require.Len(t, observed, 2)
	assert.Equal(t, "go", observed[0].Content)
	assert.Equal(t, "first", observed[1].Content)
}

func TestSequential_Execute_ErrorStatusDoesNotStopPipeline(t *testing.T) {
	child1 := newStubAgent("child-1", core.Errorf("stage blew up"))
	child2 := newStubAgent("child-2", core.Success("recovered"))

	agent := NewSequential("pipeline", []core.Agent{child1, child2})

	sess := core.NewSession("s1")
	sess.AddMessage(core.NewMessage(core.RoleUser, "go"))

	resp := agent.Execute(context.Background(), sess)

	require.NotNil(t, resp)
	assert.Equal(t, core.StatusSuccess, resp.Status)
	assert.Equal(t, 1, child2.CallCount())
}

func TestSequential_Execute_NoChildren(t *testing.T) {
	agent := NewSequential("pipeline", nil)

	resp := agent.Execute(context.Background(), core.NewSession("s1"))

	require.NotNil(t, resp)
	assert.Equal(t, core.StatusError, resp.Status)
}

func TestSequential_Execute_ContextCancelled(t *testing.T) {
	child := newStubAgent("child", core.Success("never"))
	agent := NewSequential("pipeline", []core.Agent{child})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp := agent.Execute(ctx, core.NewSession("s1"))

	require.NotNil(t, resp)
	assert.Equal(t, core.StatusError, resp.Status)
	assert.Equal(t, 0, child.CallCount())
}
