package tool

import (
	"context"
	"fmt"

	"github.com/astra-agents/astra/structured"
)

// Function is a generic adapter exposing a plain Go function as a Tool.
//
// The argument type A provides the declarative parameter descriptor: its
// JSON schema is derived once at construction from json / jsonschema struct
// tags (fields without omitempty become required, nested structs are
// expanded inline). At call time the raw argument map supplied by the model
// is hydrated into an A value before the function runs; a plain
// map[string]any argument type receives the raw map untouched.
//
// A Function has no mutable state after construction and is safe for
// concurrent use.
type Function[A any] struct {
	name        string
	description string
	parameters  map[string]any
	fn          func(ctx context.Context, args A) (any, error)
}

// New constructs a Function tool from a typed implementation.
//
// Example:
//
//	type SumArgs struct {
//		A float64 `json:"a" jsonschema:"description=First addend"`
//		B float64 `json:"b" jsonschema:"description=Second addend"`
//	}
//
//	sum := tool.New("calculate_sum", "Calculate the sum of two numbers",
//		func(ctx context.Context, args SumArgs) (any, error) {
//			return args.A + args.B, nil
//		})
func New[A any](name, description string, fn func(ctx context.Context, args A) (any, error)) *Function[A] {
	return &Function[A]{
		name:        name,
		description: description,
		parameters:  parameterSchemaOf[A](),
		fn:          fn,
	}
}

// parameterSchemaOf derives the schema for the argument type. Raw-map tools
// advertise an open object.
func parameterSchemaOf[A any]() map[string]any {
	var zero A
	if _, ok := any(zero).(map[string]any); ok {
		return map[string]any{
			"type":                 "object",
			"properties":           map[string]any{},
			"additionalProperties": true,
		}
	}
	return structured.SchemaOf(&zero)
}

// Name returns the unique tool name used in function call routing.
func (f *Function[A]) Name() string { return f.name }

// Description returns the natural language description exposed to models.
func (f *Function[A]) Description() string { return f.description }

// Parameters returns the derived JSON schema for the argument type.
func (f *Function[A]) Parameters() map[string]any { return f.parameters }

// Call hydrates the raw arguments into the typed container and invokes the
// wrapped function.
func (f *Function[A]) Call(ctx context.Context, args map[string]any) (any, error) {
	var typed A

	if _, isRaw := any(typed).(map[string]any); isRaw {
		raw := args
		if raw == nil {
			raw = map[string]any{}
		}
		return f.fn(ctx, any(raw).(A))
	}

	if err := structured.DecodeInto(args, &typed); err != nil {
		return nil, fmt.Errorf("arguments do not match schema of %s: %w", f.name, err)
	}
	if err := checkRequired(args, f.parameters); err != nil {
		return nil, fmt.Errorf("invalid arguments for %s: %w", f.name, err)
	}
	return f.fn(ctx, typed)
}

// checkRequired enforces presence of required schema fields, which
// mapstructure alone does not (missing keys simply leave zero values).
func checkRequired(args map[string]any, schema map[string]any) error {
	required, _ := schema["required"].([]any)
	for _, entry := range required {
		name, ok := entry.(string)
		if !ok {
			name = fmt.Sprintf("%v", entry)
		}
		if _, present := args[name]; !present {
			return fmt.Errorf("required field %q is missing", name)
		}
	}
	// Schemas built in-process may carry []string instead of []any.
	if names, ok := schema["required"].([]string); ok {
		for _, name := range names {
			if _, present := args[name]; !present {
				return fmt.Errorf("required field %q is missing", name)
			}
		}
	}
	return nil
}

// ensure interface compliance for a representative instantiation
var _ Tool = (*Function[map[string]any])(nil)
