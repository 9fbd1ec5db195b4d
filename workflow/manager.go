package workflow

import (
	"context"
	"sync"

	"github.com/astra-agents/astra/core"
	"github.com/astra-agents/astra/logging"
	"github.com/astra-agents/astra/session"
)

// ManagerOptions configures a Manager.
type ManagerOptions struct {
	// Sessions stores the blackboards runs execute against. Defaults to an
	// in-memory store.
	Sessions session.Store

	// Logger receives structured diagnostics. Defaults to NoOp.
	Logger logging.Logger
}

// ManagerOption mutates ManagerOptions.
type ManagerOption func(*ManagerOptions)

// WithSessionStore sets the session store.
func WithSessionStore(s session.Store) ManagerOption {
	return func(o *ManagerOptions) { o.Sessions = s }
}

// WithManagerLogger injects a logger.
func WithManagerLogger(l logging.Logger) ManagerOption {
	return func(o *ManagerOptions) { o.Logger = l }
}

// Manager is the facade applications drive the engine through: it holds
// named workflows (each a fully composed root agent), owns session
// lifecycle, and runs prompts. Run never panics for an unknown workflow;
// it answers with an error response so callers handle one shape.
type Manager struct {
	mu        sync.RWMutex
	workflows map[string]core.Agent
	sessions  session.Store
	logger    logging.Logger
}

// NewManager creates an empty Manager.
func NewManager(optFns ...ManagerOption) *Manager {
	opts := ManagerOptions{
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Sessions == nil {
		opts.Sessions = session.NewInMemoryStore()
	}

	return &Manager{
		workflows: map[string]core.Agent{},
		sessions:  opts.Sessions,
		logger:    logging.OrNoOp(opts.Logger),
	}
}

// RegisterWorkflow registers a composed root agent under a unique name.
// Registering an existing name overwrites it and logs a warning.
func (m *Manager) RegisterWorkflow(name string, root core.Agent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.workflows[name]; exists {
		m.logger.Warn("overwriting existing workflow", "workflow", name)
	}
	m.logger.Info("registering workflow", "workflow", name)
	m.workflows[name] = root
}

// Workflows returns the registered workflow names.
func (m *Manager) Workflows() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.workflows))
	for name := range m.workflows {
		names = append(names, name)
	}
	return names
}

// CreateSession allocates a new session and returns its id.
func (m *Manager) CreateSession() (string, error) {
	sess, err := m.sessions.Create()
	if err != nil {
		return "", err
	}
	m.logger.Info("created session", "session_id", sess.ID)
	return sess.ID, nil
}

// Session resolves a session by id.
func (m *Manager) Session(id string) (*core.Session, error) {
	return m.sessions.Get(id)
}

// Run executes the named workflow in the given session. The prompt is
// appended to the session history as a user message before the root agent
// runs. Unknown workflows and unresolvable sessions yield error responses
// rather than Go errors so callers handle one shape.
func (m *Manager) Run(ctx context.Context, workflowName, sessionID, prompt string) *core.Response {
	m.mu.RLock()
	root, ok := m.workflows[workflowName]
	m.mu.RUnlock()

	if !ok {
		m.logger.Error("workflow not found", "workflow", workflowName)
		return core.Errorf("Workflow '%s' not found.", workflowName)
	}

	sess, err := m.sessions.Get(sessionID)
	if err != nil {
		m.logger.Error("session not found", "session_id", sessionID)
		return core.Errorf("session %q not found", sessionID)
	}

	m.logger.Info("running workflow", "workflow", workflowName, "session_id", sessionID)

	sess.AddMessage(core.NewMessage(core.RoleUser, prompt))

	resp := root.Execute(ctx, sess)
	if resp == nil {
		resp = core.Errorf("workflow %q returned no response", workflowName)
	}

	m.logger.Info("workflow finished", "workflow", workflowName, "session_id", sessionID, "status", string(resp.Status))
	return resp
}
