// Package tool implements the function calling subsystem that lets agents
// invoke structured capabilities with schema described arguments and
// uniform error handling. Tool failures never escape the registry as Go
// errors; they come back as textual observations a reasoning loop can react
// to.
package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/astra-agents/astra/logging"
	"github.com/astra-agents/astra/model"
)

// Tool defines the interface for extending agent capabilities with external
// functions.
//
// Tool implementations should:
//   - Provide clear, descriptive names (snake_case recommended) and
//     descriptions; both are shown to the model.
//   - Supply a declarative JSON schema for their parameters, derived once
//     at construction rather than per call.
//   - Be safe for concurrent use.
type Tool interface {
	// Name returns the unique identifier for this tool.
	Name() string

	// Description returns a human-readable description shown to the model.
	Description() string

	// Parameters returns a JSON schema describing the expected arguments.
	Parameters() map[string]any

	// Call executes the tool. Implementations may suspend on ctx; returned
	// errors are converted to textual observations by the registry.
	Call(ctx context.Context, args map[string]any) (any, error)
}

// Registry stores callables keyed by name and executes them on behalf of
// reasoning agents. Registration order is preserved for Definitions so the
// model sees a stable tool list across turns.
type Registry struct {
	mu     sync.RWMutex
	tools  map[string]Tool
	order  []string
	logger logging.Logger
}

// RegistryOptions configure a Registry.
type RegistryOptions struct {
	Logger logging.Logger
}

// NewRegistry constructs an empty registry.
func NewRegistry(optFns ...func(o *RegistryOptions)) *Registry {
	opts := RegistryOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Registry{
		tools:  map[string]Tool{},
		logger: logging.OrNoOp(opts.Logger),
	}
}

// Register stores a tool keyed by its name. Re-registration is allowed and
// silently overwrites the previous entry (last registration wins); the
// tool keeps its original position in the definition order.
func (r *Registry) Register(tools ...Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range tools {
		if _, exists := r.tools[t.Name()]; !exists {
			r.order = append(r.order, t.Name())
		}
		r.tools[t.Name()] = t
	}
}

// Lookup resolves a tool by name.
func (r *Registry) Lookup(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Names returns tool names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Definitions returns the wire-format descriptions of every registered
// tool, in registration order.
func (r *Registry) Definitions() []model.ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]model.ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		defs = append(defs, model.NewToolDefinition(t.Name(), t.Description(), t.Parameters()))
	}
	return defs
}

// Execute invokes a tool by name and coerces the outcome to a
// transcript-safe string. Failure never propagates upward as an error or
// panic: an unknown name yields a "not found" observation and any call
// failure yields an "Error executing tool" observation, so the reasoning
// loop can read the problem and react.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) string {
	t, ok := r.Lookup(name)
	if !ok {
		r.logger.Warn("unknown tool requested", "tool", name)
		return fmt.Sprintf("Error: Tool '%s' not found.", name)
	}

	start := time.Now()
	result, err := r.callSafely(ctx, t, args)
	if err != nil {
		r.logger.Error("tool execution failed", "tool", name, "error", err.Error(), "duration_ms", time.Since(start).Milliseconds())
		return fmt.Sprintf("Error executing tool: %v", err)
	}

	r.logger.Debug("tool executed", "tool", name, "duration_ms", time.Since(start).Milliseconds())
	return Stringify(result)
}

// callSafely shields the registry from panicking tools.
func (r *Registry) callSafely(ctx context.Context, t Tool, args map[string]any) (result any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic in tool %s: %v", t.Name(), rec)
		}
	}()
	return t.Call(ctx, args)
}

// Stringify coerces a tool result to transcript-safe text: strings pass
// through, structured values are serialized to compact JSON, everything
// else goes through fmt.
func Stringify(result any) string {
	switch v := result.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return fmt.Sprintf("%v", v)
	default:
		if data, err := json.Marshal(v); err == nil {
			return string(data)
		}
		return fmt.Sprintf("%v", v)
	}
}
