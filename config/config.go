// Package config provides configuration types and utilities for llamarouter.
// This file contains the YAML file loader.
package config

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load reads path as YAML and unmarshals it into a Config, expanding
// ${VAR}/${VAR:-default}/$VAR references against the process environment.
// A missing or unparsable file is not an error: Load falls back to
// DefaultConfig() so the router always has a usable configuration.
func Load(path string) (*Config, error) {
	if path == "" {
		cfg := DefaultConfig()
		cfg.SetDefaults()
		return cfg, nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		cfg := DefaultConfig()
		cfg.SetDefaults()
		return cfg, nil
	}

	expanded, ok := ExpandEnvVarsInData(k.Raw()).(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("config: unexpected structure after env expansion")
	}

	kk := koanf.New(".")
	if err := kk.Load(confmap.Provider(expanded, "."), nil); err != nil {
		return nil, fmt.Errorf("config: reloading expanded values: %w", err)
	}

	cfg := &Config{}
	if err := kk.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "yaml"}); err != nil {
		return nil, fmt.Errorf("config: unmarshaling %s: %w", path, err)
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validating %s: %w", path, err)
	}

	return cfg, nil
}
