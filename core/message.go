package core

import "encoding/json"

// Role identifies the author of a transcript message.
type Role string

const (
	// RoleSystem carries the agent instruction; it is prepended to the
	// model-visible transcript and never stored in the shared history.
	RoleSystem Role = "system"
	// RoleUser is caller input or a prompt seeded by a composite.
	RoleUser Role = "user"
	// RoleAssistant is model output (text or pending tool calls).
	RoleAssistant Role = "assistant"
	// RoleTool is a tool execution result fed back as an observation.
	RoleTool Role = "tool"
)

// ToolCall is a model-issued request to invoke a named tool. The wire shape
// follows the common provider convention: {"function": {"name", "arguments"}};
// Arguments stay raw JSON until the registry hydrates them.
type ToolCall struct {
	ID       string       `json:"id,omitempty"`
	Function FunctionCall `json:"function"`
}

// FunctionCall names the target tool and carries its raw argument object.
type FunctionCall struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// ArgumentMap decodes the raw arguments into a generic map. A nil or empty
// payload yields an empty map rather than an error so tools with no
// parameters round-trip cleanly.
func (f FunctionCall) ArgumentMap() (map[string]any, error) {
	args := map[string]any{}
	if len(f.Arguments) == 0 {
		return args, nil
	}
	if err := json.Unmarshal(f.Arguments, &args); err != nil {
		return nil, err
	}
	return args, nil
}

// Message is one entry of the model-visible transcript. Order is significant;
// within a run the history is append-only.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`

	// ToolCallID and ToolName correlate a tool-role observation with the
	// assistant tool call that requested it.
	ToolCallID string `json:"tool_call_id,omitempty"`
	ToolName   string `json:"tool_name,omitempty"`

	// ToolCalls holds pending calls attached to an assistant message.
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

// NewMessage builds a plain text message for a role.
func NewMessage(role Role, content string) Message {
	return Message{Role: role, Content: content}
}

// NewToolMessage builds a tool-role observation correlated to a call.
func NewToolMessage(callID, toolName, content string) Message {
	return Message{Role: RoleTool, Content: content, ToolCallID: callID, ToolName: toolName}
}
