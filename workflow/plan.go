package workflow

// AgentType tags a plan node with the agent variant it instantiates. The
// set is closed; the Builder maps each tag to a constructor through an
// explicit registry.
type AgentType string

const (
	AgentTypeReasoning  AgentType = "reasoning"
	AgentTypeSequential AgentType = "sequential"
	AgentTypeParallel   AgentType = "parallel"
	AgentTypeLoop       AgentType = "loop"
)

// AgentConfig is one node of a workflow plan. Which fields apply depends
// on AgentType: reasoning nodes need an instruction and may reference
// tools and an output schema by name; sequential and parallel nodes need
// children; loop nodes need exactly one child and may name an exit
// condition.
//
// All name references (tools, schemas, exit conditions) are resolved
// against the Builder's registries at construction time and fail fast
// when unknown.
type AgentConfig struct {
	AgentType AgentType `json:"agent_type" jsonschema:"enum=reasoning,enum=sequential,enum=parallel,enum=loop" validate:"required"`
	AgentName string    `json:"agent_name" validate:"required"`

	// Reasoning node fields.
	Instruction   string   `json:"instruction,omitempty"`
	Tools         []string `json:"tools,omitempty"`
	OutputSchema  string   `json:"output_schema,omitempty"`
	MaxIterations int      `json:"max_iterations,omitempty"`

	// Composite node fields.
	KeepAliveState bool           `json:"keep_alive_state,omitempty"`
	Children       []*AgentConfig `json:"children,omitempty"`
	Child          *AgentConfig   `json:"child,omitempty"`
	MaxLoops       int            `json:"max_loops,omitempty"`
	ExitCondition  string         `json:"exit_condition,omitempty"`
}

// Plan is a model-produced description of a whole workflow, rooted at a
// single agent configuration.
type Plan struct {
	MainTopic           string       `json:"main_topic"`
	WorkflowDescription string       `json:"workflow_description"`
	RootAgent           *AgentConfig `json:"root_agent" validate:"required"`
}

// PlanTypeName is the schema-registry name under which the plan structure
// is published for structured output.
const PlanTypeName = "workflow_plan"
