package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// Config names and documents a function tool for the LLM.
type Config struct {
	Name        string
	Description string
}

// New builds a CallableTool from a typed Go function. Args is a struct
// whose json/jsonschema struct tags drive both the generated parameter
// schema and the decoding of the incoming argument map.
func New[Args any](cfg Config, fn func(context.Context, Args) (map[string]any, error)) (CallableTool, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("tool name is required")
	}
	if cfg.Description == "" {
		return nil, fmt.Errorf("tool description is required")
	}

	schema, err := generateSchema[Args]()
	if err != nil {
		return nil, fmt.Errorf("generating schema for %s: %w", cfg.Name, err)
	}

	return &functionTool[Args]{config: cfg, fn: fn, schema: schema}, nil
}

type functionTool[Args any] struct {
	config Config
	fn     func(context.Context, Args) (map[string]any, error)
	schema map[string]any
}

func (t *functionTool[Args]) Name() string           { return t.config.Name }
func (t *functionTool[Args]) Description() string    { return t.config.Description }
func (t *functionTool[Args]) Schema() map[string]any { return t.schema }

func (t *functionTool[Args]) Call(ctx context.Context, args map[string]any) (map[string]any, error) {
	var typed Args
	if err := mapToStruct(args, &typed); err != nil {
		return nil, fmt.Errorf("invalid arguments for %s: %w", t.config.Name, err)
	}
	return t.fn(ctx, typed)
}

// mapToStruct decodes a generic argument map into a typed struct via a
// JSON round trip, which respects json struct tags the same way the
// schema generator does.
func mapToStruct(m map[string]any, target any) error {
	if m == nil {
		return nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling args: %w", err)
	}
	return json.Unmarshal(data, target)
}

// generateSchema derives a JSON schema object (as a map, ready for an LLM
// tool-calling request) from Args' json/jsonschema struct tags.
func generateSchema[T any]() (map[string]any, error) {
	reflector := &jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		DoNotReference:             true,
	}

	schema := reflector.Reflect(new(T))

	data, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	var schemaMap map[string]any
	if err := json.Unmarshal(data, &schemaMap); err != nil {
		return nil, err
	}
	delete(schemaMap, "$schema")
	delete(schemaMap, "$id")

	if schemaMap["type"] != "object" {
		return schemaMap, nil
	}

	result := map[string]any{
		"type":       "object",
		"properties": schemaMap["properties"],
	}
	if req := schemaMap["required"]; req != nil {
		result["required"] = req
	}
	if addProps, ok := schemaMap["additionalProperties"]; ok {
		result["additionalProperties"] = addProps
	}
	return result, nil
}

var _ CallableTool = (*functionTool[struct{}])(nil)
