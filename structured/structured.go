// Package structured implements declared output types: named Go structs an
// agent's final answer must conform to. A Type carries the JSON schema the
// model is shown, hydrates raw argument maps back into typed values, and
// validates the result. A Registry resolves schema names referenced by
// dynamic workflow plans.
//
// Schemas are derived once at registration time from struct tags rather
// than by runtime signature introspection, so every Type is a declarative
// parameter descriptor.
package structured

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/mitchellh/mapstructure"
)

var validate = validator.New()

// SchemaOf derives an inline JSON schema from a struct prototype using its
// json / jsonschema tags. Nested struct fields are expanded in place rather
// than referenced, fields without omitempty are marked required.
func SchemaOf(prototype any) map[string]any {
	reflector := &jsonschema.Reflector{
		RequiredFromJSONSchemaTags: false,
		ExpandedStruct:             true,
		DoNotReference:             true,
	}

	return renderSchema(reflector.Reflect(prototype))
}

// SchemaOfRecursive derives a schema for prototypes whose nested types
// reference themselves. The root struct is still expanded in place, but
// nested struct types land under $defs and are referenced, so a nested
// type that contains itself terminates instead of unrolling forever. The
// root type itself must not be self-referential: its definition is inlined
// and removed from $defs.
func SchemaOfRecursive(prototype any) map[string]any {
	reflector := &jsonschema.Reflector{
		RequiredFromJSONSchemaTags: false,
		ExpandedStruct:             true,
	}
	return renderSchema(reflector.Reflect(prototype))
}

func renderSchema(schema *jsonschema.Schema) map[string]any {
	data, err := json.Marshal(schema)
	if err != nil {
		return map[string]any{"type": "object", "properties": map[string]any{}}
	}

	out := map[string]any{}
	if err := json.Unmarshal(data, &out); err != nil {
		return map[string]any{"type": "object", "properties": map[string]any{}}
	}
	delete(out, "$schema")
	delete(out, "$id")
	if _, ok := out["type"]; !ok {
		out["type"] = "object"
	}
	return out
}

// DecodeInto hydrates a raw argument map into an existing typed target
// following json tag names, with numeric widening for JSON-decoded input.
func DecodeInto(args map[string]any, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           target,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(args)
}

// Type is a named output structure. It is immutable after construction and
// safe for concurrent use.
type Type struct {
	name      string
	prototype reflect.Type
	schema    map[string]any
}

// NewType derives a Type for T under the given name.
func NewType[T any](name string) *Type {
	var zero T
	return TypeFor(name, zero)
}

// TypeFor derives a Type from a struct prototype value (or pointer to one).
func TypeFor(name string, prototype any) *Type {
	return newType(name, prototype, SchemaOf)
}

// TypeForRecursive is TypeFor for self-referential prototypes, deriving the
// schema with SchemaOfRecursive.
func TypeForRecursive(name string, prototype any) *Type {
	return newType(name, prototype, SchemaOfRecursive)
}

func newType(name string, prototype any, schemaOf func(any) map[string]any) *Type {
	t := reflect.TypeOf(prototype)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		panic(fmt.Sprintf("structured: prototype for %q must be a struct, got %T", name, prototype))
	}
	return &Type{
		name:      name,
		prototype: t,
		schema:    schemaOf(reflect.New(t).Interface()),
	}
}

// Name returns the registry name of the type.
func (t *Type) Name() string { return t.name }

// Schema returns the derived JSON schema.
func (t *Type) Schema() map[string]any { return t.schema }

// Hydrate decodes a raw argument map into a new typed value (a pointer to
// the prototype struct) and validates it. Field names follow json tags;
// numeric widening (float64 to int) is handled for JSON-decoded input.
// Hydration is idempotent with respect to data: hydrating an already-valid
// payload yields a semantically identical value.
func (t *Type) Hydrate(args map[string]any) (any, error) {
	target := reflect.New(t.prototype).Interface()

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           target,
		WeaklyTypedInput: true,
		ErrorUnused:      false,
	})
	if err != nil {
		return nil, fmt.Errorf("building decoder for %q: %w", t.name, err)
	}
	if err := decoder.Decode(args); err != nil {
		return nil, fmt.Errorf("payload does not match schema %q: %w", t.name, err)
	}
	if err := validate.Struct(target); err != nil {
		return nil, fmt.Errorf("payload failed validation for %q: %w", t.name, err)
	}
	return target, nil
}

// HydrateJSON decodes a raw JSON document the same way Hydrate does a map.
func (t *Type) HydrateJSON(data []byte) (any, error) {
	args := map[string]any{}
	if err := json.Unmarshal(data, &args); err != nil {
		return nil, fmt.Errorf("payload for %q is not a JSON object: %w", t.name, err)
	}
	return t.Hydrate(args)
}

// Registry resolves output structure names for the workflow builder.
// Re-registration of a name silently overwrites, matching the tool registry
// policy.
type Registry struct {
	mu    sync.RWMutex
	types map[string]*Type
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{types: map[string]*Type{}}
}

// Register stores a type keyed by its name; the last registration wins.
func (r *Registry) Register(t *Type) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[t.Name()] = t
}

// Lookup resolves a type by name.
func (r *Registry) Lookup(name string) (*Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[name]
	return t, ok
}

// Names returns the registered type names (unordered).
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	return names
}
