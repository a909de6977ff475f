package llmclient

import "strings"

// Capabilities describes what a given model can do. The only axis that
// matters to this router is native tool calling: a tool-capable model
// lets the Agent hand the projects tool to the LLM directly (the "tools"
// path); any other model must be driven through structured JSON output
// and fall back to manual tool dispatch (the "json" path).
type Capabilities struct {
	SupportsTools bool
}

// DefaultToolCallingModels is the allowlist consulted when the operator
// hasn't overridden LLMConfig.ToolCallingModels, ported from the
// TOOL_CALLING_MODELS constant the original analyzer keys its capability
// detection on.
var DefaultToolCallingModels = []string{
	"llama3.1", "mistral-nemo", "firefunction", "hermes3",
}

// DetectCapabilities reports a model's capabilities by testing whether
// model (lowercased) contains any entry of allowlist as a substring —
// the same check the original ModelManager.get_capabilities performs, so
// "llama3.1:8b" matches the "llama3.1" allowlist entry.
func DetectCapabilities(model string, allowlist []string) Capabilities {
	if len(allowlist) == 0 {
		allowlist = DefaultToolCallingModels
	}

	modelLower := strings.ToLower(model)
	for _, supported := range allowlist {
		if strings.Contains(modelLower, strings.ToLower(supported)) {
			return Capabilities{SupportsTools: true}
		}
	}
	return Capabilities{SupportsTools: false}
}
