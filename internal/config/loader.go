package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if WB_CONFIG is set
//  3. env (prefix WB_)
func Load() (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("WB_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// Environment variables: WB_OUTPUT_PATH, WB_WORKERS, ...
	// Map env keys like WB_OUTPUT_PATH -> output_path (flat keys).
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("WB_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "wb_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if cfg.BaseURL == "" {
		return nil, errors.New("base_url must not be empty")
	}
	if cfg.OutputPath == "" {
		return nil, errors.New("output_path must not be empty")
	}
	if cfg.Workers < 1 {
		return nil, fmt.Errorf("workers must be >= 1 (got %d)", cfg.Workers)
	}
	if cfg.Mode != ModeConcurrent && cfg.Mode != ModeSequential {
		return nil, fmt.Errorf("mode must be %q or %q (got %q)", ModeConcurrent, ModeSequential, cfg.Mode)
	}
	return &cfg, nil
}
