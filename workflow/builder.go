package workflow

import (
	"errors"
	"fmt"

	"github.com/astra-agents/astra/agent"
	"github.com/astra-agents/astra/core"
	"github.com/astra-agents/astra/logging"
	"github.com/astra-agents/astra/model"
	"github.com/astra-agents/astra/structured"
	"github.com/astra-agents/astra/tool"
)

// ExitCondition is a named loop termination predicate plans may reference.
type ExitCondition func(*core.Session) bool

// Constructor instantiates one plan node. The builder is passed in so
// composite constructors can recurse.
type Constructor func(b *Builder, cfg *AgentConfig) (core.Agent, error)

// BuilderOptions configures a Builder.
type BuilderOptions struct {
	// Tools is the registry plan nodes resolve tool names against.
	Tools *tool.Registry

	// Schemas is the registry plan nodes resolve output schema names
	// against.
	Schemas *structured.Registry

	// ExitConditions maps names plans may reference to predicates.
	ExitConditions map[string]ExitCondition

	// Logger receives structured diagnostics. Defaults to NoOp.
	Logger logging.Logger
}

// BuilderOption mutates BuilderOptions.
type BuilderOption func(*BuilderOptions)

// WithTools sets the tool registry plans resolve against.
func WithTools(r *tool.Registry) BuilderOption {
	return func(o *BuilderOptions) { o.Tools = r }
}

// WithSchemas sets the schema registry plans resolve against.
func WithSchemas(r *structured.Registry) BuilderOption {
	return func(o *BuilderOptions) { o.Schemas = r }
}

// WithExitCondition registers a named loop predicate.
func WithExitCondition(name string, fn ExitCondition) BuilderOption {
	return func(o *BuilderOptions) {
		if o.ExitConditions == nil {
			o.ExitConditions = map[string]ExitCondition{}
		}
		o.ExitConditions[name] = fn
	}
}

// WithBuilderLogger injects a logger.
func WithBuilderLogger(l logging.Logger) BuilderOption {
	return func(o *BuilderOptions) { o.Logger = l }
}

// Builder validates untrusted workflow plans and instantiates agent trees
// from them. Construction is pure validation plus instantiation: every
// referenced tool, schema and exit condition must resolve, every composite
// must carry the children its kind requires, and nothing executes until
// the whole tree exists. Any failure aborts the build with no partial
// tree left behind.
type Builder struct {
	model          model.Model
	tools          *tool.Registry
	schemas        *structured.Registry
	exitConditions map[string]ExitCondition
	constructors   map[AgentType]Constructor
	logger         logging.Logger
}

// NewBuilder creates a Builder whose reasoning nodes use m. The default
// constructor registry covers the four built-in agent types.
func NewBuilder(m model.Model, optFns ...BuilderOption) *Builder {
	opts := BuilderOptions{
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Tools == nil {
		opts.Tools = tool.NewRegistry()
	}
	if opts.Schemas == nil {
		opts.Schemas = structured.NewRegistry()
	}

	b := &Builder{
		model:          m,
		tools:          opts.Tools,
		schemas:        opts.Schemas,
		exitConditions: opts.ExitConditions,
		logger:         logging.OrNoOp(opts.Logger),
	}
	b.constructors = map[AgentType]Constructor{
		AgentTypeReasoning:  buildReasoning,
		AgentTypeSequential: buildSequential,
		AgentTypeParallel:   buildParallel,
		AgentTypeLoop:       buildLoop,
	}
	return b
}

// RegisterConstructor adds or replaces the constructor for an agent type,
// extending the closed built-in set.
func (b *Builder) RegisterConstructor(agentType AgentType, ctor Constructor) {
	b.constructors[agentType] = ctor
}

// Build validates the plan and instantiates its agent tree.
func (b *Builder) Build(plan *Plan) (core.Agent, error) {
	if plan == nil || plan.RootAgent == nil {
		return nil, errors.New("workflow plan has no root agent")
	}
	return b.buildNode(plan.RootAgent)
}

func (b *Builder) buildNode(cfg *AgentConfig) (core.Agent, error) {
	if cfg == nil {
		return nil, errors.New("agent config is nil")
	}

	ctor, ok := b.constructors[cfg.AgentType]
	if !ok {
		return nil, fmt.Errorf("Unknown agent type: %s", cfg.AgentType)
	}
	if cfg.AgentName == "" {
		return nil, fmt.Errorf("agent config of type %q has no name", cfg.AgentType)
	}

	b.logger.Debug("building agent", "type", cfg.AgentType, "name", cfg.AgentName)

	return ctor(b, cfg)
}

func buildReasoning(b *Builder, cfg *AgentConfig) (core.Agent, error) {
	if cfg.Instruction == "" {
		return nil, fmt.Errorf("reasoning agent %q requires an instruction", cfg.AgentName)
	}

	registry := tool.NewRegistry()
	for _, name := range cfg.Tools {
		t, ok := b.tools.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("Unknown tool: %s", name)
		}
		registry.Register(t)
	}

	opts := []agent.Option{
		agent.WithKeepAliveState(cfg.KeepAliveState),
		agent.WithLogger(b.logger),
	}
	if cfg.MaxIterations > 0 {
		opts = append(opts, agent.WithMaxIterations(cfg.MaxIterations))
	}
	if cfg.OutputSchema != "" {
		schema, ok := b.schemas.Lookup(cfg.OutputSchema)
		if !ok {
			return nil, fmt.Errorf("Unknown output structure: %s", cfg.OutputSchema)
		}
		opts = append(opts, agent.WithOutputType(schema))
	}

	return agent.NewReAct(
		cfg.AgentName,
		b.model,
		agent.NewInstructionFromText(cfg.Instruction),
		registry,
		opts...,
	), nil
}

func buildSequential(b *Builder, cfg *AgentConfig) (core.Agent, error) {
	children, err := b.buildChildren(cfg)
	if err != nil {
		return nil, err
	}
	return agent.NewSequential(cfg.AgentName, children,
		agent.WithKeepAliveState(cfg.KeepAliveState),
		agent.WithLogger(b.logger),
	), nil
}

func buildParallel(b *Builder, cfg *AgentConfig) (core.Agent, error) {
	children, err := b.buildChildren(cfg)
	if err != nil {
		return nil, err
	}
	return agent.NewParallel(cfg.AgentName, children,
		agent.WithLogger(b.logger),
	), nil
}

func buildLoop(b *Builder, cfg *AgentConfig) (core.Agent, error) {
	if cfg.Child == nil {
		return nil, fmt.Errorf("loop agent %q requires a child", cfg.AgentName)
	}

	child, err := b.buildNode(cfg.Child)
	if err != nil {
		return nil, err
	}

	opts := []agent.Option{
		agent.WithKeepAliveState(cfg.KeepAliveState),
		agent.WithLogger(b.logger),
	}
	if cfg.MaxLoops > 0 {
		opts = append(opts, agent.WithMaxLoops(cfg.MaxLoops))
	}
	if cfg.ExitCondition != "" {
		fn, ok := b.exitConditions[cfg.ExitCondition]
		if !ok {
			return nil, fmt.Errorf("Unknown exit condition: %s", cfg.ExitCondition)
		}
		opts = append(opts, agent.WithExitCondition(fn))
	}

	return agent.NewLoop(cfg.AgentName, child, opts...), nil
}

func (b *Builder) buildChildren(cfg *AgentConfig) ([]core.Agent, error) {
	if len(cfg.Children) == 0 {
		return nil, fmt.Errorf("%s agent %q requires children", cfg.AgentType, cfg.AgentName)
	}

	children := make([]core.Agent, 0, len(cfg.Children))
	for _, childCfg := range cfg.Children {
		child, err := b.buildNode(childCfg)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return children, nil
}
