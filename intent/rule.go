package intent

import (
	"context"
	"regexp"
	"strings"

	"github.com/kadirpekel/llamarouter/config"
)

// RuleAnalyzer extracts intent with configurable weighted pattern/keyword
// rules, with no LLM involved. It is both the manual fallback used when
// the LLM is unreachable and a usable analyzer on its own.
//
// Ported rule-for-rule from RuleBasedAnalysisStrategy: action scoring by
// keyword-match count times rule weight, namespace extraction by
// first-matching regex (skipping excluded stopwords), project-id
// extraction from the matching create-rule's own patterns with a
// hardcoded fallback chain, and the additive confidence formula.
type RuleAnalyzer struct {
	namespaceRules     []config.AnalysisRule
	actionRules        []config.AnalysisRule
	excludedNamespaces map[string]struct{}
	defaultNamespace   string
}

// NewRuleAnalyzer builds a RuleAnalyzer from the loaded RulesConfig and
// AnalysisConfig sections.
func NewRuleAnalyzer(rules config.RulesConfig, analysis config.AnalysisConfig) *RuleAnalyzer {
	excluded := make(map[string]struct{}, len(rules.ExcludedNamespaces))
	for _, ns := range rules.ExcludedNamespaces {
		excluded[ns] = struct{}{}
	}

	return &RuleAnalyzer{
		namespaceRules:     rules.NamespacePatterns,
		actionRules:        rules.ActionPatterns,
		excludedNamespaces: excluded,
		defaultNamespace:   analysis.DefaultNamespace,
	}
}

var fallbackProjectIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`create\s+(?:project\s+)?(?:called\s+)?['"]?([A-Za-z0-9._-]+)['"]?`),
	regexp.MustCompile(`new\s+project\s+['"]?([A-Za-z0-9._-]+)['"]?`),
	regexp.MustCompile(`project\s+['"]?([A-Za-z0-9._-]+)['"]?`),
}

func (a *RuleAnalyzer) Analyze(ctx context.Context, message string, overrides Overrides) (Analysis, error) {
	if strings.TrimSpace(message) == "" {
		result := Analysis{
			Action:     "list",
			Namespace:  a.defaultNamespace,
			Confidence: 0.0,
			Reasoning:  "empty message",
		}
		applyOverrides(&result, overrides)
		return result, nil
	}

	messageLower := strings.ToLower(message)

	actionScore := map[string]float64{"create": 0, "list": 0}
	for _, rule := range a.actionRules {
		if !rule.Enabled {
			continue
		}
		matches := countKeywordMatches(messageLower, rule.Keywords)
		if matches == 0 {
			continue
		}
		nameLower := strings.ToLower(rule.Name)
		switch {
		case strings.Contains(nameLower, "create"):
			actionScore["create"] += float64(matches) * rule.Weight
		case strings.Contains(nameLower, "list"):
			actionScore["list"] += float64(matches) * rule.Weight
		}
	}

	action := "list"
	if actionScore["create"] > actionScore["list"] {
		action = "create"
	}

	namespace := a.extractNamespace(messageLower)

	var projectID string
	if action == "create" {
		projectID = a.extractProjectID(messageLower)
	}

	confidence := a.calculateConfidence(actionScore, namespace, projectID, action)

	result := Analysis{
		Action:     action,
		Namespace:  namespace,
		ProjectID:  projectID,
		Confidence: confidence,
		Reasoning:  "Rule-based analysis: action=" + action + ", namespace=" + namespace,
	}
	applyOverrides(&result, overrides)
	return result, nil
}

func countKeywordMatches(messageLower string, keywords []string) int {
	count := 0
	for _, kw := range keywords {
		if strings.Contains(messageLower, kw) {
			count++
		}
	}
	return count
}

func (a *RuleAnalyzer) extractNamespace(messageLower string) string {
	for _, rule := range a.namespaceRules {
		if !rule.Enabled {
			continue
		}
		for _, pattern := range rule.Patterns {
			re, err := regexp.Compile(pattern)
			if err != nil {
				continue
			}
			if m := re.FindStringSubmatch(messageLower); len(m) > 1 {
				if _, excluded := a.excludedNamespaces[m[1]]; !excluded {
					return m[1]
				}
			}
		}
	}
	return a.defaultNamespace
}

func (a *RuleAnalyzer) extractProjectID(messageLower string) string {
	for _, rule := range a.actionRules {
		if !rule.Enabled || !strings.Contains(strings.ToLower(rule.Name), "create") {
			continue
		}
		for _, pattern := range rule.Patterns {
			re, err := regexp.Compile(pattern)
			if err != nil {
				continue
			}
			if m := re.FindStringSubmatch(messageLower); len(m) > 1 && !a.isStopword(m[1]) {
				return m[1]
			}
		}
	}

	for _, re := range fallbackProjectIDPatterns {
		if m := re.FindStringSubmatch(messageLower); len(m) > 1 && !a.isStopword(m[1]) {
			return m[1]
		}
	}
	return ""
}

// isStopword reports whether word is in the excluded stopword set, so an
// article or the word "project" is never taken as a project id.
func (a *RuleAnalyzer) isStopword(word string) bool {
	_, excluded := a.excludedNamespaces[word]
	return excluded
}

func (a *RuleAnalyzer) calculateConfidence(actionScore map[string]float64, namespace, projectID, action string) float64 {
	confidence := 0.7

	max := actionScore["create"]
	if actionScore["list"] > max {
		max = actionScore["list"]
	}
	if max > 1 {
		confidence += 0.1
	}

	if namespace != a.defaultNamespace {
		confidence += 0.1
	}

	if action == "create" && projectID != "" {
		confidence += 0.1
	}

	if confidence > 1.0 {
		confidence = 1.0
	}
	return confidence
}

var _ Analyzer = (*RuleAnalyzer)(nil)
