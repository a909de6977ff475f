// Package validator decides whether an LLM's conversational reply
// actually performed the work it claims to, or whether the router needs
// to fall back to manual tool execution. It never inspects tool call
// results directly — only the reply text and the original message.
package validator

import (
	"strings"

	"github.com/kadirpekel/llamarouter/config"
)

// Validator runs the five-check pipeline described in spec.md §4.3.
type Validator struct {
	templateIndicators      []string
	inabilityPhrases        []string
	hallucinationIndicators []string
	countQueryKeywords      []string
	triggerKeywords         []string
	minResponseLength       int
	hallucinationEnabled    bool
	countQueryEnabled       bool
}

// New builds a Validator from the loaded ValidationConfig.
func New(cfg config.ValidationConfig) *Validator {
	return &Validator{
		templateIndicators:      cfg.TemplateIndicators,
		inabilityPhrases:        cfg.InabilityPhrases,
		hallucinationIndicators: cfg.HallucinationIndicators,
		countQueryKeywords:      cfg.CountQueryKeywords,
		triggerKeywords:         cfg.TriggerKeywords,
		minResponseLength:       cfg.MinResponseLength,
		hallucinationEnabled:    cfg.EnableHallucinationCheck,
		countQueryEnabled:       cfg.EnableCountQueryValidation,
	}
}

// NeedsManualExecution reports whether reply requires the router to fall
// back to manual tool dispatch instead of trusting the LLM's own answer.
//
// The checks run in a fixed order ported from
// ResponseValidationStrategy.needs_manual_execution, short-circuiting on
// the first one that trips:
//  1. message isn't project-related at all -> never needs manual execution
//  2. reply contains an unfilled template placeholder
//  3. reply contains an "I can't do that" style inability phrase
//  4. reply is shorter than the configured minimum
//  5. reply contains known hallucination indicators (e.g. fabricated
//     example project names)
//  6. reply is a suspicious numeric answer to what looks like a count
//     query (has digits but never says "found")
func (v *Validator) NeedsManualExecution(reply, originalMessage string) bool {
	if !v.isProjectRelated(originalMessage) {
		return false
	}

	if v.isTemplateResponse(reply) {
		return true
	}
	if v.containsInabilityPhrases(reply) {
		return true
	}
	if len(strings.TrimSpace(reply)) < v.minResponseLength {
		return true
	}
	if v.hallucinationEnabled && v.isHallucinatedResponse(reply) {
		return true
	}
	if v.countQueryEnabled && v.isSuspiciousCountResponse(reply, originalMessage) {
		return true
	}

	return false
}

// IsToolRelated reports whether message contains any configured trigger
// keyword — the same pre-gate NeedsManualExecution applies, exposed so
// callers can decide whether to attach tool-info metadata to a reply the
// validator trusted as-is.
func (v *Validator) IsToolRelated(message string) bool {
	return v.isProjectRelated(message)
}

func (v *Validator) isProjectRelated(message string) bool {
	messageLower := strings.ToLower(message)
	for _, kw := range v.triggerKeywords {
		if strings.Contains(messageLower, kw) {
			return true
		}
	}
	return false
}

func (v *Validator) isTemplateResponse(reply string) bool {
	replyLower := strings.ToLower(reply)
	for _, indicator := range v.templateIndicators {
		if strings.Contains(replyLower, strings.ToLower(indicator)) {
			return true
		}
	}
	return false
}

func (v *Validator) containsInabilityPhrases(reply string) bool {
	replyLower := strings.ToLower(reply)
	for _, phrase := range v.inabilityPhrases {
		if strings.Contains(replyLower, phrase) {
			return true
		}
	}
	return false
}

func (v *Validator) isHallucinatedResponse(reply string) bool {
	replyLower := strings.ToLower(reply)
	for _, indicator := range v.hallucinationIndicators {
		if strings.Contains(replyLower, indicator) {
			return true
		}
	}
	return false
}

func (v *Validator) isSuspiciousCountResponse(reply, originalMessage string) bool {
	originalLower := strings.ToLower(originalMessage)

	isCountQuery := false
	for _, kw := range v.countQueryKeywords {
		if strings.Contains(originalLower, kw) {
			isCountQuery = true
			break
		}
	}
	if !isCountQuery {
		return false
	}

	hasDigit := strings.ContainsAny(reply, "0123456789")
	hasFound := strings.Contains(strings.ToLower(reply), "found")
	return hasDigit && !hasFound
}
