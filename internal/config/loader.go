package config

import (
	"context"
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
//  2. file (YAML) if LCRP_CONFIG is set
//  3. env (prefix LCRP_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("LCRP_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: LCRP_ADDR, LCRP_CACHE_TTL_SECONDS, ...
	// Keys map to the koanf tags on the struct with underscores preserved.
	envProvider := env.Provider("LCRP_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "lcrp_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	switch {
	case cfg.Addr == "":
		return nil, fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case cfg.CacheTTLSeconds <= 0:
		return nil, fmt.Errorf("%w: cache_ttl_seconds must be positive", ErrInvalidConfig)
	case cfg.RemoteConcurrency <= 0:
		return nil, fmt.Errorf("%w: remote_concurrency must be positive", ErrInvalidConfig)
	case cfg.RemoteTimeoutSeconds <= 0:
		return nil, fmt.Errorf("%w: remote_timeout_seconds must be positive", ErrInvalidConfig)
	case cfg.MaxRank <= 0:
		return nil, fmt.Errorf("%w: max_rank must be positive", ErrInvalidConfig)
	}
	return &cfg, nil
}
