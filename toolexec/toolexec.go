// Package toolexec re-does, on demand, the work the Agent's own reply
// failed to perform: it resolves a tool by name, builds its typed input
// from the Intent Analyzer's output and any request overrides, invokes
// it, and normalizes the result into a ToolResult the Request Handler can
// render.
package toolexec

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/kadirpekel/llamarouter/intent"
	"github.com/kadirpekel/llamarouter/tool"
)

// IntegrationMode records how a request's reply was ultimately produced.
type IntegrationMode string

const (
	// ModeNative means the Agent's own reply was trusted as-is.
	ModeNative IntegrationMode = "native"
	// ModeManual means the executor ran the tool and it reported success
	// or an in-band business failure (e.g. missing project name).
	ModeManual IntegrationMode = "manual"
	// ModeManualFailed means the executor itself could not run the tool
	// (registry unavailable, unknown tool, invocation error).
	ModeManualFailed IntegrationMode = "manual_failed"
)

// ToolResult is the core-level wrapper around a tool invocation, carrying
// enough to render a user-facing reply and an audit record.
type ToolResult struct {
	Success         bool            `json:"success"`
	Action          string          `json:"action"`
	Namespace       string          `json:"namespace"`
	Message         string          `json:"message"`
	Payload         map[string]any  `json:"payload,omitempty"`
	IntegrationMode IntegrationMode `json:"integration_mode"`
}

// Executor resolves and invokes a single tool per call.
type Executor struct {
	registry *tool.Registry
	analyzer intent.Analyzer
	initFn   func() error
	logger   *slog.Logger
}

// New builds an Executor. initFn seeds the registry's built-in tools and
// is passed straight through to Registry.EnsureInitialized, so it runs at
// most once regardless of how many requests call Execute concurrently. A
// nil logger falls back to slog.Default().
func New(registry *tool.Registry, analyzer intent.Analyzer, initFn func() error, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{registry: registry, analyzer: analyzer, initFn: initFn, logger: logger}
}

// Execute looks up toolName, builds its input from message and overrides
// via the Intent Analyzer, invokes it, and returns a normalized
// ToolResult. It never returns an error: invocation failures are
// converted in-band to a failed ToolResult, matching ToolOutput's
// never-throw-across-the-boundary contract.
func (e *Executor) Execute(ctx context.Context, toolName, message string, overrides intent.Overrides) ToolResult {
	if err := e.registry.EnsureInitialized(e.initFn); err != nil {
		e.logger.Error("tool registry initialization failed", "tool", toolName, "error", err)
		return ToolResult{
			Success:         false,
			Message:         "Tool system not available",
			IntegrationMode: ModeManualFailed,
		}
	}

	t, ok := e.registry.Get(toolName)
	if !ok {
		return ToolResult{
			Success:         false,
			Message:         fmt.Sprintf("Tool '%s' not found", toolName),
			IntegrationMode: ModeManualFailed,
		}
	}

	analysis, err := e.analyzer.Analyze(ctx, message, overrides)
	if err != nil {
		e.logger.Error("intent analysis failed during manual execution", "tool", toolName, "error", err)
		return ToolResult{
			Success:         false,
			Message:         fmt.Sprintf("Tool execution failed: %v", err),
			IntegrationMode: ModeManualFailed,
		}
	}

	if analysis.Action == "create" && analysis.ProjectID == "" {
		return ToolResult{
			Success:         false,
			Action:          analysis.Action,
			Namespace:       analysis.Namespace,
			Message:         "Please specify a project name to create. For example: 'Create project my_app'",
			IntegrationMode: ModeManual,
		}
	}

	args := map[string]any{
		"action":    analysis.Action,
		"namespace": analysis.Namespace,
	}
	if analysis.ProjectID != "" {
		args["project_id"] = analysis.ProjectID
	}

	output, err := e.invoke(ctx, t, args)
	if err != nil {
		e.logger.Error("tool invocation failed", "tool", toolName, "error", err)
		return ToolResult{
			Success:         false,
			Action:          analysis.Action,
			Namespace:       analysis.Namespace,
			Message:         fmt.Sprintf("Tool execution failed: %v", err),
			IntegrationMode: ModeManualFailed,
		}
	}

	result := ToolResult{
		Action:          analysis.Action,
		Namespace:       analysis.Namespace,
		IntegrationMode: ModeManual,
		Payload:         output,
	}
	if success, ok := output["success"].(bool); ok {
		result.Success = success
	}
	result.Message = formatToolResponse(analysis.Action, analysis.Namespace, result.Success, output)
	return result
}

// formatToolResponse is the Response Formatter named in spec.md §2's data
// flow (Tool Executor → Response Formatter → reply): it renders a tool's
// raw output map into the user-facing reply text. A business failure
// (success=false) carries the tool's own message verbatim, prefixed per
// spec.md §7; a successful list renders the count and, if any, each
// project; a successful create passes the tool's own message through
// (it already reads "✅ Successfully created project '<id>' in namespace
// '<ns>'").
func formatToolResponse(action, namespace string, success bool, output map[string]any) string {
	if !success {
		msg, _ := output["message"].(string)
		return fmt.Sprintf("I encountered an issue: %s", msg)
	}

	if action == "list" {
		return formatListMessage(namespace, output)
	}

	msg, _ := output["message"].(string)
	return msg
}

// formatListMessage renders a successful list tool output into the reply
// text spec.md §4/§8 scenario 2 requires: a count line followed by one
// bullet per project.
func formatListMessage(namespace string, output map[string]any) string {
	total, _ := output["total"].(int)
	if total == 0 {
		return fmt.Sprintf("I found no projects in the '%s' namespace.", namespace)
	}

	projects, _ := output["projects"].([]map[string]any)

	var b strings.Builder
	fmt.Fprintf(&b, "I found %d project(s) in the '%s' namespace:\n\n", total, namespace)
	for _, p := range projects {
		id, _ := p["project_id"].(string)
		path, _ := p["path"].(string)
		fmt.Fprintf(&b, "• **%s**\n  Path: `%s`\n", id, path)
		if desc, _ := p["description"].(string); desc != "" {
			fmt.Fprintf(&b, "  Description: %s\n", desc)
		}
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}

// invoke calls the tool's Call, recovering from a panic the same way the
// original manual-execution path catches any thrown exception so a buggy
// tool can never take the whole request down with it.
func (e *Executor) invoke(ctx context.Context, t tool.CallableTool, args map[string]any) (out map[string]any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return t.Call(ctx, args)
}

// DecodeInput converts a generic argument map into a tool's typed input
// struct, used by tools that want a typed view of their Call args instead
// of reading the map directly.
func DecodeInput(args map[string]any, target any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  target,
	})
	if err != nil {
		return fmt.Errorf("toolexec: building decoder: %w", err)
	}
	return dec.Decode(args)
}
