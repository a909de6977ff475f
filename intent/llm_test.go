package intent_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kadirpekel/llamarouter/config"
	"github.com/kadirpekel/llamarouter/intent"
	"github.com/kadirpekel/llamarouter/llmclient"
)

func newFallbackRuleAnalyzer() *intent.RuleAnalyzer {
	d := config.DefaultConfig()
	return intent.NewRuleAnalyzer(d.Rules, d.Analysis)
}

type stubProvider struct {
	structured    map[string]any
	structuredErr error
}

func (s *stubProvider) Generate(ctx context.Context, messages []llmclient.Message, tools []llmclient.ToolDefinition) (llmclient.Reply, error) {
	return llmclient.Reply{}, nil
}

func (s *stubProvider) GenerateStructured(ctx context.Context, messages []llmclient.Message, schema map[string]any) (map[string]any, error) {
	return s.structured, s.structuredErr
}

func (s *stubProvider) SupportsTools() bool { return false }

func TestLLMAnalyzer_UsesStructuredResultWhenAvailable(t *testing.T) {
	provider := &stubProvider{structured: map[string]any{
		"action": "create", "namespace": "dev", "project_id": "demo",
		"confidence": 0.95, "reasoning": "looks like a create request",
	}}
	a := intent.NewLLMAnalyzer(provider, newFallbackRuleAnalyzer())

	got, err := a.Analyze(context.Background(), "create project demo in dev namespace", intent.Overrides{})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if got.Action != "create" || got.Namespace != "dev" || got.ProjectID != "demo" {
		t.Fatalf("got = %+v, want the structured result", got)
	}
	if strings.Contains(got.Reasoning, "LLM unavailable") {
		t.Fatalf("did not expect a fallback annotation, got %q", got.Reasoning)
	}
}

func TestLLMAnalyzer_FallsBackOnError(t *testing.T) {
	provider := &stubProvider{structuredErr: errors.New("connection refused")}
	fallback := newFallbackRuleAnalyzer()
	a := intent.NewLLMAnalyzer(provider, fallback)

	got, err := a.Analyze(context.Background(), "list my projects", intent.Overrides{})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if !strings.Contains(got.Reasoning, "LLM unavailable") {
		t.Fatalf("Reasoning = %q, want the fallback annotation", got.Reasoning)
	}
}

func TestLLMAnalyzer_EmptyMessageShortCircuitsWithoutCallingProvider(t *testing.T) {
	provider := &stubProvider{structuredErr: errors.New("should not be called")}
	a := intent.NewLLMAnalyzer(provider, newFallbackRuleAnalyzer())

	got, err := a.Analyze(context.Background(), "", intent.Overrides{})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if got.Action != "list" || got.Namespace != "test" || got.ProjectID != "" {
		t.Fatalf("got = %+v, want the documented empty-message result", got)
	}
	if got.Confidence != 0.0 {
		t.Fatalf("Confidence = %v, want 0.0", got.Confidence)
	}
	if got.Reasoning != "empty message" {
		t.Fatalf("Reasoning = %q, want %q", got.Reasoning, "empty message")
	}
}

func TestHybridAnalyzer_FallsBackBelowConfidenceThreshold(t *testing.T) {
	provider := &stubProvider{structured: map[string]any{
		"action": "list", "namespace": "test", "confidence": 0.3, "reasoning": "unsure",
	}}
	llmA := intent.NewLLMAnalyzer(provider, newFallbackRuleAnalyzer())
	rule := newFallbackRuleAnalyzer()
	hybrid := intent.NewHybridAnalyzer(llmA, rule, 0.7)

	got, err := hybrid.Analyze(context.Background(), "show me my projects", intent.Overrides{})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if !strings.HasPrefix(got.Reasoning, "Rule-based analysis") {
		t.Fatalf("Reasoning = %q, want the low-confidence result to fall back to the rule analyzer", got.Reasoning)
	}
}
