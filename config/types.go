// Package config provides configuration types and utilities for llamarouter.
// This file defines the router's immutable startup configuration: intent
// analysis rules, response-validation thresholds, and LLM/server settings.
package config

import "time"

// Config is the single entry point for all router configuration, loaded
// from a YAML file via Load and overlaid with environment variables.
type Config struct {
	Analysis   AnalysisConfig   `yaml:"analysis" json:"analysis"`
	Validation ValidationConfig `yaml:"response_validation" json:"response_validation"`
	Rules      RulesConfig      `yaml:"rules" json:"rules"`
	LLM        LLMConfig        `yaml:"llm" json:"llm"`
	Server     ServerConfig     `yaml:"server" json:"server"`
}

// AnalysisConfig tunes the Intent Analyzer.
type AnalysisConfig struct {
	DefaultNamespace    string  `yaml:"default_namespace" json:"default_namespace"`
	ConfidenceThreshold float64 `yaml:"confidence_threshold" json:"confidence_threshold"`
	EnableFuzzyMatching bool    `yaml:"enable_fuzzy_matching" json:"enable_fuzzy_matching"`
}

// ValidationConfig tunes the Response Validator's five checks.
type ValidationConfig struct {
	TemplateIndicators         []string `yaml:"template_indicators" json:"template_indicators"`
	InabilityPhrases           []string `yaml:"inability_phrases" json:"inability_phrases"`
	HallucinationIndicators    []string `yaml:"hallucination_indicators" json:"hallucination_indicators"`
	CountQueryKeywords         []string `yaml:"count_query_keywords" json:"count_query_keywords"`
	TriggerKeywords            []string `yaml:"trigger_keywords" json:"trigger_keywords"`
	MinResponseLength          int      `yaml:"min_response_length" json:"min_response_length"`
	EnableHallucinationCheck   bool     `yaml:"enable_hallucination_detection" json:"enable_hallucination_detection"`
	EnableCountQueryValidation bool     `yaml:"enable_count_query_validation" json:"enable_count_query_validation"`
}

// RulesConfig drives the rule-based Intent Analyzer fallback.
type RulesConfig struct {
	NamespacePatterns  []AnalysisRule `yaml:"namespace_patterns" json:"namespace_patterns"`
	ActionPatterns     []AnalysisRule `yaml:"action_patterns" json:"action_patterns"`
	ExcludedNamespaces []string       `yaml:"excluded_namespaces" json:"excluded_namespaces"`
}

// AnalysisRule is a single weighted pattern/keyword rule used for
// namespace or action scoring.
type AnalysisRule struct {
	Name     string   `yaml:"name" json:"name"`
	Patterns []string `yaml:"patterns" json:"patterns"`
	Keywords []string `yaml:"keywords" json:"keywords"`
	Weight   float64  `yaml:"weight" json:"weight"`
	Enabled  bool     `yaml:"enabled" json:"enabled"`
}

// LLMConfig describes the backing LLM endpoint used for structured intent
// extraction and conversational replies.
type LLMConfig struct {
	BaseURL           string        `yaml:"base_url" json:"base_url"`
	APIKey            string        `yaml:"api_key" json:"api_key"`
	Model             string        `yaml:"model" json:"model"`
	Temperature       float64       `yaml:"temperature" json:"temperature"`
	MaxTokens         int           `yaml:"max_tokens" json:"max_tokens"`
	Timeout           time.Duration `yaml:"timeout" json:"timeout"`
	ToolCallingModels []string      `yaml:"tool_calling_models" json:"tool_calling_models"`
}

// ServerConfig holds process-level settings that aren't part of the
// request/response transport itself (which is out of spec scope).
type ServerConfig struct {
	SessionIdleTimeout time.Duration `yaml:"session_idle_timeout" json:"session_idle_timeout"`
	LogLevel           string        `yaml:"log_level" json:"log_level"`
	LogFormat          string        `yaml:"log_format" json:"log_format"`
}

// Validate implements ConfigInterface.
func (c *Config) Validate() error {
	return nil
}

// SetDefaults implements ConfigInterface by filling any zero-valued field
// from DefaultConfig(). Fields are filled independently so a caller can
// override just one section in their YAML file.
func (c *Config) SetDefaults() {
	d := DefaultConfig()

	if c.Analysis.DefaultNamespace == "" {
		c.Analysis.DefaultNamespace = d.Analysis.DefaultNamespace
	}
	if c.Analysis.ConfidenceThreshold == 0 {
		c.Analysis.ConfidenceThreshold = d.Analysis.ConfidenceThreshold
	}

	if c.Validation.MinResponseLength == 0 {
		c.Validation.MinResponseLength = d.Validation.MinResponseLength
	}
	if len(c.Validation.TemplateIndicators) == 0 {
		c.Validation.TemplateIndicators = d.Validation.TemplateIndicators
	}
	if len(c.Validation.InabilityPhrases) == 0 {
		c.Validation.InabilityPhrases = d.Validation.InabilityPhrases
	}
	if len(c.Validation.HallucinationIndicators) == 0 {
		c.Validation.HallucinationIndicators = d.Validation.HallucinationIndicators
	}
	if len(c.Validation.CountQueryKeywords) == 0 {
		c.Validation.CountQueryKeywords = d.Validation.CountQueryKeywords
	}
	if len(c.Validation.TriggerKeywords) == 0 {
		c.Validation.TriggerKeywords = d.Validation.TriggerKeywords
	}

	if len(c.Rules.ExcludedNamespaces) == 0 {
		c.Rules.ExcludedNamespaces = d.Rules.ExcludedNamespaces
	}
	if len(c.Rules.NamespacePatterns) == 0 {
		c.Rules.NamespacePatterns = d.Rules.NamespacePatterns
	}
	if len(c.Rules.ActionPatterns) == 0 {
		c.Rules.ActionPatterns = d.Rules.ActionPatterns
	}

	if c.LLM.Timeout == 0 {
		c.LLM.Timeout = d.LLM.Timeout
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = d.LLM.MaxTokens
	}
	if len(c.LLM.ToolCallingModels) == 0 {
		c.LLM.ToolCallingModels = d.LLM.ToolCallingModels
	}

	if c.Server.SessionIdleTimeout == 0 {
		c.Server.SessionIdleTimeout = d.Server.SessionIdleTimeout
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = d.Server.LogLevel
	}
	if c.Server.LogFormat == "" {
		c.Server.LogFormat = d.Server.LogFormat
	}
}
