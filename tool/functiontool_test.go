package tool_test

import (
	"context"
	"testing"

	"github.com/kadirpekel/llamarouter/tool"
)

type greetArgs struct {
	Name string `json:"name" jsonschema:"required,description=Who to greet"`
}

func TestNew_CallDecodesArgsAndInvokesFunction(t *testing.T) {
	greet, err := tool.New(
		tool.Config{Name: "greet", Description: "Greets someone"},
		func(ctx context.Context, args greetArgs) (map[string]any, error) {
			return map[string]any{"message": "hello " + args.Name}, nil
		},
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	result, err := greet.Call(context.Background(), map[string]any{"name": "ada"})
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if result["message"] != "hello ada" {
		t.Fatalf("result[message] = %v, want %q", result["message"], "hello ada")
	}
}

func TestNew_RejectsMissingNameOrDescription(t *testing.T) {
	fn := func(ctx context.Context, args greetArgs) (map[string]any, error) { return nil, nil }

	if _, err := tool.New(tool.Config{Description: "x"}, fn); err == nil {
		t.Fatalf("expected error for missing name")
	}
	if _, err := tool.New(tool.Config{Name: "x"}, fn); err == nil {
		t.Fatalf("expected error for missing description")
	}
}

func TestNew_SchemaReflectsRequiredFields(t *testing.T) {
	greet, err := tool.New(
		tool.Config{Name: "greet", Description: "Greets someone"},
		func(ctx context.Context, args greetArgs) (map[string]any, error) { return nil, nil },
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	schema := greet.Schema()
	if schema["type"] != "object" {
		t.Fatalf("schema type = %v, want object", schema["type"])
	}
	props, ok := schema["properties"].(map[string]any)
	if !ok || props["name"] == nil {
		t.Fatalf("expected schema properties to include 'name', got %v", schema["properties"])
	}
}
