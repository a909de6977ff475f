package validator_test

import (
	"strings"
	"testing"

	"github.com/kadirpekel/llamarouter/config"
	"github.com/kadirpekel/llamarouter/validator"
)

func newTestValidator() *validator.Validator {
	return validator.New(config.DefaultConfig().Validation)
}

func TestNeedsManualExecution_NotProjectRelatedNeverTriggers(t *testing.T) {
	v := newTestValidator()
	if v.NeedsManualExecution("short", "what's the weather today") {
		t.Fatalf("expected a non-project message never to require manual execution")
	}
}

func TestNeedsManualExecution_TemplateResponse(t *testing.T) {
	v := newTestValidator()
	reply := "Here are your projects in [namespace]: [project list]"
	if !v.NeedsManualExecution(reply, "list my projects") {
		t.Fatalf("expected a template placeholder reply to require manual execution")
	}
}

func TestNeedsManualExecution_InabilityPhrase(t *testing.T) {
	v := newTestValidator()
	reply := "I don't have access to your project list right now, sorry about that."
	if !v.NeedsManualExecution(reply, "list my projects") {
		t.Fatalf("expected an inability phrase reply to require manual execution")
	}
}

func TestNeedsManualExecution_TooShort(t *testing.T) {
	v := newTestValidator()
	if !v.NeedsManualExecution("Sure thing.", "list my projects") {
		t.Fatalf("expected a too-short reply to require manual execution")
	}
}

func TestNeedsManualExecution_Hallucination(t *testing.T) {
	v := newTestValidator()
	reply := strings.Repeat("x", 60) + " project 1, project 2, and project 3 are in your namespace."
	if !v.NeedsManualExecution(reply, "list my projects") {
		t.Fatalf("expected a hallucinated-sounding reply to require manual execution")
	}
}

func TestNeedsManualExecution_SuspiciousCountResponse(t *testing.T) {
	v := newTestValidator()
	reply := strings.Repeat("y", 60) + " You have 3 projects in that namespace."
	if !v.NeedsManualExecution(reply, "how many projects do I have") {
		t.Fatalf("expected a numeric count reply without 'found' to require manual execution")
	}
}

func TestNeedsManualExecution_CountResponseWithFoundIsFine(t *testing.T) {
	v := newTestValidator()
	reply := strings.Repeat("z", 60) + " I found 3 projects in that namespace for you."
	if v.NeedsManualExecution(reply, "how many projects do I have") {
		t.Fatalf("expected a count reply that says 'found' not to require manual execution")
	}
}

func TestNeedsManualExecution_GenuineLongAnswerPasses(t *testing.T) {
	v := newTestValidator()
	reply := strings.Repeat("a", 80) + " this is a perfectly ordinary, sufficiently long reply about your projects."
	if v.NeedsManualExecution(reply, "list my projects") {
		t.Fatalf("expected a normal, sufficiently long reply not to require manual execution")
	}
}
