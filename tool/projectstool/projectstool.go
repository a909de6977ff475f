// Package projectstool is the router's reference tool: a minimal
// create/list "projects" capability exercised end to end by the Intent
// Analyzer, Response Validator, and Tool Executor. Its business logic
// (an in-memory namespace->project map) is a stand-in — spec.md places
// concrete tools' business logic out of scope — but its input/output
// contract matches the original projects_tool exactly so the rest of the
// pipeline has a real tool to dispatch against.
package projectstool

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/kadirpekel/llamarouter/tool"
)

// Input is the typed argument shape the Intent Analyzer builds and the
// Tool Executor passes to Call.
type Input struct {
	Action    string `json:"action" jsonschema:"required,enum=create|list,description=The action to perform"`
	Namespace string `json:"namespace" jsonschema:"required,description=The namespace to operate in"`
	ProjectID string `json:"project_id,omitempty" jsonschema:"description=The project identifier, required for create"`
}

// Project is a single record returned by a list action.
type Project struct {
	ProjectID   string `json:"project_id"`
	Path        string `json:"path"`
	Description string `json:"description,omitempty"`
}

// Tool is an in-memory, namespace-partitioned project store.
type Tool struct {
	mu           sync.RWMutex
	byNS         map[string]map[string]*Project
	baseRootPath string
}

// New creates an empty projects tool. baseRootPath is used to synthesize
// a plausible filesystem path for created projects (e.g. "/data/<ns>/<id>").
func New(baseRootPath string) *Tool {
	if baseRootPath == "" {
		baseRootPath = "/data"
	}
	return &Tool{byNS: make(map[string]map[string]*Project), baseRootPath: baseRootPath}
}

func (t *Tool) Name() string        { return "projects" }
func (t *Tool) Description() string { return "Create or list projects within a namespace" }

func (t *Tool) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"action":     map[string]any{"type": "string", "enum": []string{"create", "list"}, "description": "The action to perform"},
			"namespace":  map[string]any{"type": "string", "description": "The namespace to operate in"},
			"project_id": map[string]any{"type": "string", "description": "The project identifier, required for create"},
		},
		"required": []string{"action", "namespace"},
	}
}

func (t *Tool) HealthCheck(ctx context.Context) error {
	return nil
}

// Call dispatches to doCreate or doList based on args["action"], matching
// the original ProjectsTool.run contract: {success, message, total?,
// projects?, project_id?, path?, description?}.
func (t *Tool) Call(ctx context.Context, args map[string]any) (map[string]any, error) {
	action, _ := args["action"].(string)
	namespace, _ := args["namespace"].(string)
	projectID, _ := args["project_id"].(string)

	if namespace == "" {
		return map[string]any{"success": false, "message": "namespace is required"}, nil
	}

	switch action {
	case "create":
		return t.doCreate(namespace, projectID), nil
	case "list":
		return t.doList(namespace), nil
	default:
		return map[string]any{"success": false, "message": fmt.Sprintf("unsupported action '%s'", action)}, nil
	}
}

func (t *Tool) doCreate(namespace, projectID string) map[string]any {
	if projectID == "" {
		return map[string]any{
			"success": false,
			"message": "Please specify a project name to create. For example: 'Create project my_app'",
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.byNS[namespace] == nil {
		t.byNS[namespace] = make(map[string]*Project)
	}
	if _, exists := t.byNS[namespace][projectID]; exists {
		return map[string]any{
			"success": false,
			"message": fmt.Sprintf("project '%s' already exists in namespace '%s'", projectID, namespace),
		}
	}

	path := fmt.Sprintf("%s/%s/%s", t.baseRootPath, namespace, projectID)
	t.byNS[namespace][projectID] = &Project{ProjectID: projectID, Path: path}

	return map[string]any{
		"success":    true,
		"project_id": projectID,
		"path":       path,
		"message":    fmt.Sprintf("✅ Successfully created project '%s' in namespace '%s'", projectID, namespace),
	}
}

func (t *Tool) doList(namespace string) map[string]any {
	t.mu.RLock()
	defer t.mu.RUnlock()

	projects := t.byNS[namespace]
	list := make([]map[string]any, 0, len(projects))
	for _, p := range projects {
		entry := map[string]any{"project_id": p.ProjectID, "path": p.Path}
		if p.Description != "" {
			entry["description"] = p.Description
		}
		list = append(list, entry)
	}

	return map[string]any{
		"success":  true,
		"total":    len(list),
		"projects": list,
	}
}

// NewTool returns a projects Tool typed as a tool.CallableTool. It does
// not register anything itself; router wiring passes the result to
// Registry.Register, the same call used for tool.New-built tools.
func NewTool(baseRootPath string) tool.CallableTool {
	return New(baseRootPath)
}

// NewProjectID generates a fallback project identifier when none is
// supplied and the caller wants one minted rather than rejected.
func NewProjectID() string {
	return uuid.NewString()
}

var _ tool.CallableTool = (*Tool)(nil)
var _ tool.HealthChecker = (*Tool)(nil)
