package workflow

import (
	"context"
	"sync"

	"github.com/astra-agents/astra/agent"
	"github.com/astra-agents/astra/core"
	"github.com/astra-agents/astra/logging"
	"github.com/astra-agents/astra/model"
	"github.com/astra-agents/astra/structured"
)

// PlanType returns the structured type reasoning agents target when their
// final answer must be a workflow plan. The plan schema is recursive
// (agent configs nest agent configs), so it is derived with $defs
// references and only on first use.
var PlanType = sync.OnceValue(func() *structured.Type {
	return structured.TypeForRecursive(PlanTypeName, Plan{})
})

// DynamicAgent is a meta-agent: it asks a model to produce a workflow
// plan for the user's goal, builds the planned agent tree through its
// Builder, and executes that tree against the same session.
//
// Planning and execution are strictly separated. The plan is obtained as
// a validated structured result first; only when the entire tree has been
// built does any planned agent run. A failure at either stage yields an
// error response carrying the cause, never a partially executed tree.
type DynamicAgent struct {
	name    string
	planner *agent.ReAct
	builder *Builder
	logger  logging.Logger
}

// NewDynamicAgent creates a dynamic workflow agent. The instruction guides
// the planning step; the builder supplies the registries planned nodes
// resolve against.
func NewDynamicAgent(name string, m model.Model, instruction agent.Instruction, builder *Builder, optFns ...agent.Option) *DynamicAgent {
	opts := append([]agent.Option{}, optFns...)
	opts = append(opts, agent.WithOutputType(PlanType()))

	return &DynamicAgent{
		name:    name,
		planner: agent.NewReAct(name, m, instruction, nil, opts...),
		builder: builder,
		logger:  builder.logger,
	}
}

// Name implements core.Agent.
func (d *DynamicAgent) Name() string { return d.name }

// Execute implements core.Agent.
func (d *DynamicAgent) Execute(ctx context.Context, sess *core.Session) *core.Response {
	resp := d.planner.Execute(ctx, sess)
	if resp == nil {
		return core.Errorf("dynamic agent %q received no planning response", d.name)
	}
	if resp.Status != core.StatusSuccess {
		return resp
	}

	plan, ok := resp.Content.(*Plan)
	if !ok {
		return core.Errorf("dynamic agent %q did not produce a workflow plan", d.name)
	}

	d.logger.Info("generated workflow plan",
		"agent", d.name,
		"main_topic", plan.MainTopic,
		"description", plan.WorkflowDescription,
	)

	root, err := d.builder.Build(plan)
	if err != nil {
		return core.Errorf("failed to build or execute dynamic workflow: %v", err)
	}

	d.logger.Info("executing dynamically built workflow", "agent", d.name, "root", root.Name())
	return root.Execute(ctx, sess)
}
