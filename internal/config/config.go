// Campusmatch - Personalized Campus Opportunity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campusmatch

// Package config defines the service configuration and its layered loading:
// built-in defaults, an optional YAML file, then environment variables.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the service.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Corpus    CorpusConfig    `koanf:"corpus"`
	Store     StoreConfig     `koanf:"store"`
	Embedding EmbeddingConfig `koanf:"embedding"`
	Recommend RecommendConfig `koanf:"recommend"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`
}

// CorpusConfig points at the vector files produced by the vectorizer.
type CorpusConfig struct {
	// ClubsPath is the club directory vector file.
	ClubsPath string `koanf:"clubs_path"`

	// LocalPath is the local opportunities vector file.
	LocalPath string `koanf:"local_path"`

	// GlobalPath is the global opportunities vector file.
	GlobalPath string `koanf:"global_path"`

	// Require makes startup fail when the corpus loads zero items.
	// Off by default: an empty corpus serves empty recommendations.
	Require bool `koanf:"require"`
}

// StoreConfig holds profile store settings.
type StoreConfig struct {
	// Path is the BadgerDB directory for user profiles.
	Path string `koanf:"path"`

	// InMemory keeps profiles in memory only. Intended for tests and
	// local experiments; state is lost on restart.
	InMemory bool `koanf:"in_memory"`
}

// EmbeddingConfig selects and tunes the embedding provider.
type EmbeddingConfig struct {
	// Provider is "openai" or "ollama".
	Provider string `koanf:"provider"`

	// Model is the provider-specific embedding model name.
	Model string `koanf:"model"`

	// OpenAIAPIKey authenticates against the OpenAI API.
	OpenAIAPIKey string `koanf:"openai_api_key"`

	// OllamaHost is the local Ollama base URL.
	OllamaHost string `koanf:"ollama_host"`

	// Timeout bounds a single embedding call.
	Timeout time.Duration `koanf:"timeout"`

	// BreakerFailureThreshold is the consecutive-failure count that opens
	// the embedding circuit breaker.
	BreakerFailureThreshold uint32 `koanf:"breaker_failure_threshold"`

	// BreakerTimeout is how long the circuit stays open before probing.
	BreakerTimeout time.Duration `koanf:"breaker_timeout"`
}

// RecommendConfig tunes the ranking engine.
type RecommendConfig struct {
	// DefaultTopK is the result count when a request omits top_k.
	DefaultTopK int `koanf:"default_top_k"`

	// MaxTopK caps the top_k a request may ask for.
	MaxTopK int `koanf:"max_top_k"`

	// BlendWeight is the pull toward a liked item on feedback, in (0,1).
	BlendWeight float64 `koanf:"blend_weight"`
}

// SecurityConfig holds CORS and rate-limit settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server timeout must be positive")
	}

	switch c.Embedding.Provider {
	case "openai", "ollama":
	default:
		return fmt.Errorf("unknown embedding provider %q", c.Embedding.Provider)
	}
	if c.Embedding.Provider == "ollama" && c.Embedding.OllamaHost == "" {
		return fmt.Errorf("embedding provider ollama requires ollama_host")
	}
	if c.Embedding.Timeout <= 0 {
		return fmt.Errorf("embedding timeout must be positive")
	}

	if c.Recommend.BlendWeight <= 0 || c.Recommend.BlendWeight >= 1 {
		return fmt.Errorf("blend weight %v must be in (0,1)", c.Recommend.BlendWeight)
	}
	if c.Recommend.DefaultTopK < 1 {
		return fmt.Errorf("default top_k must be at least 1")
	}
	if c.Recommend.MaxTopK < c.Recommend.DefaultTopK {
		return fmt.Errorf("max top_k %d below default top_k %d", c.Recommend.MaxTopK, c.Recommend.DefaultTopK)
	}

	if !c.Store.InMemory && c.Store.Path == "" {
		return fmt.Errorf("store path is required for persistent profiles")
	}

	return nil
}
