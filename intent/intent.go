// Package intent extracts a structured action/namespace/project_id intent
// from a free-form chat message, either by asking the LLM for structured
// output or, when the LLM is unreachable or uncooperative, by falling
// back to a deterministic rule-based strategy.
package intent

import "context"

// Analysis is the structured intent extracted from a message, mirroring
// the original ProjectAnalysis model field-for-field.
type Analysis struct {
	Action     string  `json:"action"`
	Namespace  string  `json:"namespace"`
	ProjectID  string  `json:"project_id,omitempty"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// Overrides carries request-supplied fields that take precedence over
// whatever the analyzer inferred, per the "Override merge" rule: a
// namespace or project_id named explicitly in the request always wins.
type Overrides struct {
	Namespace string
	ProjectID string
}

// Analyzer extracts an Analysis from a chat message.
type Analyzer interface {
	Analyze(ctx context.Context, message string, overrides Overrides) (Analysis, error)
}

// applyOverrides mutates analysis in place per the original
// MessageAnalyzer.analyze_with_llm override semantics: an explicit
// request field replaces the analyzer's guess and the reasoning gets an
// annotation noting the override happened, so the audit trail in
// tool_info always explains where each field actually came from.
func applyOverrides(a *Analysis, o Overrides) {
	if o.Namespace != "" {
		a.Namespace = o.Namespace
		a.Reasoning += " (namespace overridden from request field)"
	}
	if o.ProjectID != "" {
		a.ProjectID = o.ProjectID
		a.Reasoning += " (project_id overridden from request field)"
	}
}
