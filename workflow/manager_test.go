package workflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astra-agents/astra/core"
)

// scriptedAgent returns the same response on every run and records the
// session history it observed.
type scriptedAgent struct {
	name     string
	response *core.Response
	observed []core.Message
}

func (s *scriptedAgent) Name() string { return s.name }

func (s *scriptedAgent) Execute(_ context.Context, sess *core.Session) *core.Response {
	s.observed = sess.History()
	return s.response
}

func TestManager_Run(t *testing.T) {
	root := &scriptedAgent{name: "root", response: core.Success("done")}

	mgr := NewManager()
	mgr.RegisterWorkflow("math", root)

	sessionID, err := mgr.CreateSession()
	require.NoError(t, err)

	resp := mgr.Run(context.Background(), "math", sessionID, "compute 2+3")

	require.NotNil(t, resp)
	assert.Equal(t, core.StatusSuccess, resp.Status)
	assert.Equal(t, "done", resp.Content)

	// The prompt was appended before the root agent ran.
	require.Len(t, root.observed, 1)
	assert.Equal(t, core.RoleUser, root.observed[0].Role)
	assert.Equal(t, "compute 2+3", root.observed[0].Content)
}

func TestManager_Run_UnknownWorkflow(t *testing.T) {
	mgr := NewManager()

	sessionID, err := mgr.CreateSession()
	require.NoError(t, err)

	resp := mgr.Run(context.Background(), "missing", sessionID, "go")

	require.NotNil(t, resp)
	assert.Equal(t, core.StatusError, resp.Status)
	assert.Equal(t, "Workflow 'missing' not found.", resp.Content)
}

func TestManager_Run_UnknownSession(t *testing.T) {
	mgr := NewManager()
	mgr.RegisterWorkflow("math", &scriptedAgent{name: "root", response: core.Success("done")})

	resp := mgr.Run(context.Background(), "math", "no-such-session", "go")

	require.NotNil(t, resp)
	assert.Equal(t, core.StatusError, resp.Status)
}

func TestManager_Run_SessionPersistsAcrossRuns(t *testing.T) {
	root := &scriptedAgent{name: "root", response: core.Success("ok")}

	mgr := NewManager()
	mgr.RegisterWorkflow("chat", root)

	sessionID, err := mgr.CreateSession()
	require.NoError(t, err)

	mgr.Run(context.Background(), "chat", sessionID, "first")
	mgr.Run(context.Background(), "chat", sessionID, "second")

	require.Len(t, root.observed, 2)
	assert.Equal(t, "first", root.observed[0].Content)
	assert.Equal(t, "second", root.observed[1].Content)
}

func TestManager_RegisterWorkflow_Overwrite(t *testing.T) {
	first := &scriptedAgent{name: "first", response: core.Success("first")}
	second := &scriptedAgent{name: "second", response: core.Success("second")}

	mgr := NewManager()
	mgr.RegisterWorkflow("w", first)
	mgr.RegisterWorkflow("w", second)

	sessionID, err := mgr.CreateSession()
	require.NoError(t, err)

	resp := mgr.Run(context.Background(), "w", sessionID, "go")
	assert.Equal(t, "second", resp.Content)
	assert.Equal(t, []string{"w"}, mgr.Workflows())
}

func TestManager_NilRootResponse(t *testing.T) {
	mgr := NewManager()
	mgr.RegisterWorkflow("broken", &scriptedAgent{name: "broken", response: nil})

	sessionID, err := mgr.CreateSession()
	require.NoError(t, err)

	resp := mgr.Run(context.Background(), "broken", sessionID, "go")

	require.NotNil(t, resp)
	assert.Equal(t, core.StatusError, resp.Status)
}
