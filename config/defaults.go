package config

import "time"

// DefaultConfig returns the configuration used when no YAML file is found
// or the file fails to parse. Values in Analysis/Validation/Rules mirror
// ConfigLoader._get_default_config in the original analyzer verbatim;
// the namespace/action pattern rules were not part of the retrieved
// analysis_config.yaml and are reconstructed from the fallback regexes
// hardcoded in RuleBasedAnalysisStrategy so the rule analyzer works
// without any config file present (see DESIGN.md, config entry).
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			DefaultNamespace:    "test",
			ConfidenceThreshold: 0.7,
			EnableFuzzyMatching: true,
		},
		Validation: ValidationConfig{
			TemplateIndicators: []string{
				"[number of projects]", "[project list]", "[namespace]",
			},
			InabilityPhrases: []string{
				"i don't have access", "cannot directly",
			},
			HallucinationIndicators: []string{
				"project 1", "project 2", "project 3",
			},
			CountQueryKeywords: []string{
				"how many", "count", "number of", "total",
			},
			TriggerKeywords:            []string{"project", "list", "create", "show", "namespace"},
			MinResponseLength:          50,
			EnableHallucinationCheck:   true,
			EnableCountQueryValidation: true,
		},
		Rules: RulesConfig{
			ExcludedNamespaces: []string{"the", "a", "an", "my", "projects", "project"},
			NamespacePatterns: []AnalysisRule{
				{
					Name:     "namespace_in",
					Patterns: []string{`(?:in|under|within)\s+(?:namespace\s+)?['"]?([a-z0-9._-]+)['"]?\s+namespace`, `namespace\s+['"]?([a-z0-9._-]+)['"]?`},
					Keywords: []string{"namespace"},
					Weight:   1.0,
					Enabled:  true,
				},
				{
					Name:     "namespace_in_bare",
					Patterns: []string{`in\s+['"]?([a-z0-9._-]+)['"]?\s+(?:namespace)?`},
					Keywords: []string{"in"},
					Weight:   0.5,
					Enabled:  true,
				},
			},
			ActionPatterns: []AnalysisRule{
				{
					Name:     "create_project",
					Patterns: []string{`create\s+(?:project\s+)?(?:called\s+)?['"]?([a-z0-9._-]+)['"]?`, `new\s+project\s+['"]?([a-z0-9._-]+)['"]?`},
					Keywords: []string{"create", "new", "add", "make"},
					Weight:   1.0,
					Enabled:  true,
				},
				{
					Name:     "list_projects",
					Patterns: []string{`list\s+(?:all\s+)?projects?`, `show\s+(?:me\s+)?(?:all\s+)?projects?`},
					Keywords: []string{"list", "show", "display", "what", "how many"},
					Weight:   1.0,
					Enabled:  true,
				},
			},
		},
		LLM: LLMConfig{
			Temperature:       0.2,
			MaxTokens:         1024,
			Timeout:           30 * time.Second,
			ToolCallingModels: []string{"llama3.1", "llama3.2", "qwen2.5", "mistral-nemo", "firefunction", "hermes3"},
		},
		Server: ServerConfig{
			SessionIdleTimeout: 30 * time.Minute,
			LogLevel:           "info",
			LogFormat:          "text",
		},
	}
}
