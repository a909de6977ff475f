package intent_test

import (
	"context"
	"strings"
	"testing"

	"github.com/kadirpekel/llamarouter/config"
	"github.com/kadirpekel/llamarouter/intent"
)

func newTestRuleAnalyzer() *intent.RuleAnalyzer {
	d := config.DefaultConfig()
	return intent.NewRuleAnalyzer(d.Rules, d.Analysis)
}

func TestRuleAnalyzer_CreateWithNamespaceAndProjectID(t *testing.T) {
	a := newTestRuleAnalyzer()
	got, err := a.Analyze(context.Background(), "create a new project called demo in dev namespace", intent.Overrides{})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if got.Action != "create" {
		t.Fatalf("Action = %q, want create", got.Action)
	}
	if got.ProjectID == "" {
		t.Fatalf("expected a non-empty project ID, got Reasoning=%q", got.Reasoning)
	}
}

func TestRuleAnalyzer_ListDefaultsToDefaultNamespace(t *testing.T) {
	a := newTestRuleAnalyzer()
	got, err := a.Analyze(context.Background(), "show me my projects", intent.Overrides{})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if got.Action != "list" {
		t.Fatalf("Action = %q, want list", got.Action)
	}
	if got.Namespace != "test" {
		t.Fatalf("Namespace = %q, want the default 'test'", got.Namespace)
	}
}

func TestRuleAnalyzer_OverridesWinOverExtraction(t *testing.T) {
	a := newTestRuleAnalyzer()
	got, err := a.Analyze(context.Background(), "list projects in dev namespace",
		intent.Overrides{Namespace: "prod"})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if got.Namespace != "prod" {
		t.Fatalf("Namespace = %q, want override 'prod' to win", got.Namespace)
	}
	if !strings.Contains(got.Reasoning, "overridden from request field") {
		t.Fatalf("Reasoning = %q, want an override annotation", got.Reasoning)
	}
}

func TestRuleAnalyzer_EmptyMessageShortCircuits(t *testing.T) {
	a := newTestRuleAnalyzer()
	got, err := a.Analyze(context.Background(), "", intent.Overrides{})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if got.Action != "list" {
		t.Fatalf("Action = %q, want list", got.Action)
	}
	if got.Namespace != "test" {
		t.Fatalf("Namespace = %q, want the default 'test'", got.Namespace)
	}
	if got.ProjectID != "" {
		t.Fatalf("ProjectID = %q, want empty", got.ProjectID)
	}
	if got.Confidence != 0.0 {
		t.Fatalf("Confidence = %v, want 0.0", got.Confidence)
	}
	if got.Reasoning != "empty message" {
		t.Fatalf("Reasoning = %q, want %q", got.Reasoning, "empty message")
	}
}

func TestRuleAnalyzer_WhitespaceOnlyMessageShortCircuits(t *testing.T) {
	a := newTestRuleAnalyzer()
	got, err := a.Analyze(context.Background(), "   \t  ", intent.Overrides{})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if got.Reasoning != "empty message" {
		t.Fatalf("Reasoning = %q, want %q", got.Reasoning, "empty message")
	}
}

func TestRuleAnalyzer_ConfidenceNeverExceedsOne(t *testing.T) {
	a := newTestRuleAnalyzer()
	got, err := a.Analyze(context.Background(), "create new project called app in dev namespace", intent.Overrides{})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if got.Confidence > 1.0 {
		t.Fatalf("Confidence = %v, want <= 1.0", got.Confidence)
	}
}
