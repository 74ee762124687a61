// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load() layers file/env.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8000".
	Addr string `koanf:"addr"`

	// GraphQLURL is the provider endpoint.
	GraphQLURL string `koanf:"graphql_url"`

	// CacheTTLSeconds bounds how long user/contest lookups are memoized.
	CacheTTLSeconds int `koanf:"cache_ttl_seconds"`

	// RedisURL selects the shared-store cache variant when non-empty.
	RedisURL string `koanf:"redis_url"`

	// RemoteConcurrency bounds outstanding provider calls process-wide.
	RemoteConcurrency int `koanf:"remote_concurrency"`

	// RemoteTimeoutSeconds bounds each provider call.
	RemoteTimeoutSeconds int `koanf:"remote_timeout_seconds"`

	// MaxRank caps the accepted contest rank.
	MaxRank int `koanf:"max_rank"`

	// MaxUsernameLength caps the accepted username length.
	MaxUsernameLength int `koanf:"max_username_length"`

	// ModelPath and ScalerPath locate the trained artifacts.
	ModelPath  string `koanf:"model_path"`
	ScalerPath string `koanf:"scaler_path"`

	// AllowedOrigins feeds the CORS allow-list.
	AllowedOrigins []string `koanf:"allowed_origins"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		Addr:                 ":8000",
		GraphQLURL:           "https://leetcode.com/graphql",
		CacheTTLSeconds:      300,
		RemoteConcurrency:    5,
		RemoteTimeoutSeconds: 30,
		MaxRank:              1_000_000,
		MaxUsernameLength:    50,
		ModelPath:            "./model.json",
		ScalerPath:           "./scaler.json",
		AllowedOrigins: []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
		},
	}
}
