package model

import (
	"context"
	"fmt"
	"sync"

	"github.com/astra-agents/astra/core"
)

// ToolDefinition declaratively exposes a callable to the model.
type ToolDefinition struct {
	Type     string             `json:"type"` // "function"
	Function FunctionDefinition `json:"function"`
}

// FunctionDefinition describes an individual function (tool) exposed to the
// model. Parameters is a JSON Schema object (minimal subset expected).
type FunctionDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// NewToolDefinition builds the standard function-typed definition envelope.
func NewToolDefinition(name, description string, parameters map[string]any) ToolDefinition {
	return ToolDefinition{
		Type: "function",
		Function: FunctionDefinition{
			Name:        name,
			Description: description,
			Parameters:  parameters,
		},
	}
}

// Request captures the normalized model input produced by agents.
type Request struct {
	// Instructions is the system prompt; providers that model it as a
	// dedicated parameter receive it there, others as a leading message.
	Instructions string
	// Messages is the ordered model-visible transcript.
	Messages []core.Message
	// Tools lists the callables the model may request.
	Tools []ToolDefinition
}

// Response is the unified provider output: plain text, tool calls, or both.
type Response struct {
	Content   string
	ToolCalls []core.ToolCall
}

// HasToolCalls reports whether the model requested tool execution.
func (r *Response) HasToolCalls() bool { return r != nil && len(r.ToolCalls) > 0 }

// Info contains metadata about a model implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"`
	SupportsTools bool   `json:"supports_tools"`
}

// Model is the minimal interface required by agents to drive generation.
// Implementations must return an error rather than hang on transport
// failures; the engine converts errors into error-status responses.
type Model interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// Info returns information about the model implementation.
	Info() Info
}

// MockModel is a lightweight in-memory Model useful for tests and examples.
// Responses are consumed as a FIFO script; once the script is exhausted the
// mock echoes the last user message.
type MockModel struct {
	mu       sync.Mutex
	info     Info
	script   []Response
	err      error
	Requests []Request
}

// NewMockModel constructs a MockModel with basic tool support enabled.
func NewMockModel(responses ...Response) *MockModel {
	return &MockModel{
		info:   Info{Name: "mock", Provider: "mock", SupportsTools: true},
		script: responses,
	}
}

// Enqueue appends scripted responses.
func (m *MockModel) Enqueue(responses ...Response) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, responses...)
}

// FailWith makes every subsequent Generate return err.
func (m *MockModel) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Generate implements Model, recording the request and popping the script.
func (m *MockModel) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests = append(m.Requests, req)

	if m.err != nil {
		return nil, m.err
	}
	if len(m.script) > 0 {
		next := m.script[0]
		m.script = m.script[1:]
		return &next, nil
	}

	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == core.RoleUser {
			return &Response{Content: fmt.Sprintf("Mock response to: %s", req.Messages[i].Content)}, nil
		}
	}
	return &Response{Content: "Mock response"}, nil
}

// CallCount returns how many Generate calls the mock has served.
func (m *MockModel) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Requests)
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }

// TextResponse is a convenience for scripting a plain text turn.
func TextResponse(text string) Response { return Response{Content: text} }

// ToolCallResponse is a convenience for scripting a tool-call turn.
func ToolCallResponse(name string, args string) Response {
	return Response{ToolCalls: []core.ToolCall{{
		Function: core.FunctionCall{Name: name, Arguments: []byte(args)},
	}}}
}
