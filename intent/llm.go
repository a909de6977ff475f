package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/kadirpekel/llamarouter/llmclient"
	"github.com/mitchellh/mapstructure"
)

const systemPrompt = `You are an expert at analyzing user messages to determine project management actions.

Analyze the user's message and determine:
1. What action they want to take (create or list)
2. If they specified a namespace
3. If they specified a project ID/name (for create actions)
4. Your confidence in this analysis
5. Brief reasoning for your decision

Rules:
- "create", "new", "add", "make" usually indicate CREATE action
- "list", "show", "display", "view", "get" usually indicate LIST action
- Look for namespace patterns like "in X namespace", "namespace X", "in X"
- For create actions, look for project names/IDs
- Default namespace is "test" if not specified
- Be flexible with natural language variations`

var analysisSchema = func() map[string]any {
	reflector := &jsonschema.Reflector{ExpandedStruct: true, DoNotReference: true}
	schema := reflector.Reflect(&Analysis{})
	data, err := json.Marshal(schema)
	if err != nil {
		return map[string]any{}
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return map[string]any{}
	}
	return m
}()

// LLMAnalyzer asks the backing LLM for structured ProjectAnalysis output
// and falls back to a RuleAnalyzer on ANY failure: an unreachable
// endpoint, a malformed response, or a context cancellation. The
// fallback's reasoning gets an "(LLM unavailable)" suffix exactly like
// the original LLMAnalyzer._fallback_analysis, so a caller can tell from
// the reasoning string alone whether the LLM path was actually used.
type LLMAnalyzer struct {
	client   llmclient.Provider
	fallback *RuleAnalyzer
}

// NewLLMAnalyzer builds an LLMAnalyzer backed by client, falling back to
// fallback whenever the LLM call fails.
func NewLLMAnalyzer(client llmclient.Provider, fallback *RuleAnalyzer) *LLMAnalyzer {
	return &LLMAnalyzer{client: client, fallback: fallback}
}

func (a *LLMAnalyzer) Analyze(ctx context.Context, message string, overrides Overrides) (Analysis, error) {
	if strings.TrimSpace(message) == "" {
		result := Analysis{
			Action:     "list",
			Namespace:  a.fallback.defaultNamespace,
			Confidence: 0.0,
			Reasoning:  "empty message",
		}
		applyOverrides(&result, overrides)
		return result, nil
	}

	messages := []llmclient.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: "Analyze this message: " + message},
	}

	raw, err := a.client.GenerateStructured(ctx, messages, analysisSchema)
	if err != nil {
		return a.analyzeFallback(ctx, message, overrides)
	}

	var analysis Analysis
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{TagName: "json", Result: &analysis})
	if err != nil {
		return a.analyzeFallback(ctx, message, overrides)
	}
	if err := dec.Decode(raw); err != nil {
		return a.analyzeFallback(ctx, message, overrides)
	}

	applyOverrides(&analysis, overrides)
	if analysis.Namespace == "" {
		analysis.Namespace = a.fallback.defaultNamespace
	}
	return analysis, nil
}

func (a *LLMAnalyzer) analyzeFallback(ctx context.Context, message string, overrides Overrides) (Analysis, error) {
	result, err := a.fallback.Analyze(ctx, message, Overrides{})
	if err != nil {
		return Analysis{}, fmt.Errorf("intent: fallback analysis failed: %w", err)
	}
	result.Reasoning += " (LLM unavailable)"
	applyOverrides(&result, overrides)
	return result, nil
}

var _ Analyzer = (*LLMAnalyzer)(nil)
