// Package astra provides a high-level façade over the agent execution
// engine: composable agent trees (sequential, parallel, loop, reasoning),
// a tool registry with declarative schemas, structured output validation
// and dynamic model-planned workflows. Most applications interact with
// this package by:
//  1. Creating an Astra via New() (optionally overriding the session
//     store and logger)
//  2. Registering tools, output schemas and composed workflows
//  3. Creating sessions and running prompts against named workflows
//
// The façade delegates to workflow.Manager while keeping setup and usage
// ergonomics concise. All defaults are safe for local development and
// testing.
package astra

import (
	"context"

	"github.com/astra-agents/astra/core"
	"github.com/astra-agents/astra/logging"
	"github.com/astra-agents/astra/model"
	"github.com/astra-agents/astra/session"
	"github.com/astra-agents/astra/structured"
	"github.com/astra-agents/astra/tool"
	"github.com/astra-agents/astra/workflow"
)

// Options configures the Astra instance.
type Options struct {
	// SessionStore holds the blackboards runs execute against. Defaults to
	// an in-memory implementation.
	SessionStore session.Store

	// Logger receives structured diagnostics. Defaults to NoOp.
	Logger logging.Logger
}

// Astra is the high-level façade aggregating the workflow manager and the
// shared tool and schema registries.
type Astra struct {
	opts    Options
	manager *workflow.Manager
	tools   *tool.Registry
	schemas *structured.Registry
}

// New creates a new Astra instance with optional overrides.
func New(optFns ...func(o *Options)) *Astra {
	opts := Options{
		SessionStore: session.NewInMemoryStore(),
		Logger:       logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Astra{
		opts: opts,
		manager: workflow.NewManager(
			workflow.WithSessionStore(opts.SessionStore),
			workflow.WithManagerLogger(opts.Logger),
		),
		tools:   tool.NewRegistry(func(o *tool.RegistryOptions) { o.Logger = opts.Logger }),
		schemas: structured.NewRegistry(),
	}
}

// RegisterTool adds tools to the shared registry.
func (a *Astra) RegisterTool(tools ...tool.Tool) { a.tools.Register(tools...) }

// RegisterSchema adds a structured output type to the shared registry.
func (a *Astra) RegisterSchema(t *structured.Type) { a.schemas.Register(t) }

// RegisterWorkflow registers a composed root agent under a unique name.
func (a *Astra) RegisterWorkflow(name string, root core.Agent) {
	a.manager.RegisterWorkflow(name, root)
}

// Tools returns the shared tool registry.
func (a *Astra) Tools() *tool.Registry { return a.tools }

// Schemas returns the shared structured output registry.
func (a *Astra) Schemas() *structured.Registry { return a.schemas }

// Logger returns the configured logger.
func (a *Astra) Logger() logging.Logger { return a.opts.Logger }

// NewBuilder creates a workflow builder backed by the shared registries,
// for validating and instantiating model-produced plans against m.
func (a *Astra) NewBuilder(m model.Model, optFns ...workflow.BuilderOption) *workflow.Builder {
	opts := append([]workflow.BuilderOption{
		workflow.WithTools(a.tools),
		workflow.WithSchemas(a.schemas),
		workflow.WithBuilderLogger(a.opts.Logger),
	}, optFns...)
	return workflow.NewBuilder(m, opts...)
}

// CreateSession allocates a new session and returns its id.
func (a *Astra) CreateSession() (string, error) { return a.manager.CreateSession() }

// Session resolves a session by id.
func (a *Astra) Session(id string) (*core.Session, error) { return a.manager.Session(id) }

// Run executes the named workflow in the given session with prompt as the
// user message. Unknown workflows yield an error response, never a panic.
func (a *Astra) Run(ctx context.Context, workflowName, sessionID, prompt string) *core.Response {
	return a.manager.Run(ctx, workflowName, sessionID, prompt)
}
