// Campusmatch - Personalized Campus Opportunity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campusmatch

package config

import "testing"

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: true,
		},
		{
			name:    "unknown provider",
			mutate:  func(c *Config) { c.Embedding.Provider = "sentencetransformers" },
			wantErr: true,
		},
		{
			name: "ollama without host",
			mutate: func(c *Config) {
				c.Embedding.Provider = "ollama"
				c.Embedding.OllamaHost = ""
			},
			wantErr: true,
		},
		{
			name: "openai without host is fine",
			mutate: func(c *Config) {
				c.Embedding.Provider = "openai"
				c.Embedding.OllamaHost = ""
			},
		},
		{
			name:    "blend weight at one",
			mutate:  func(c *Config) { c.Recommend.BlendWeight = 1.0 },
			wantErr: true,
		},
		{
			name:    "blend weight at zero",
			mutate:  func(c *Config) { c.Recommend.BlendWeight = 0 },
			wantErr: true,
		},
		{
			name: "max top_k below default",
			mutate: func(c *Config) {
				c.Recommend.DefaultTopK = 10
				c.Recommend.MaxTopK = 5
			},
			wantErr: true,
		},
		{
			name: "persistent store without path",
			mutate: func(c *Config) {
				c.Store.InMemory = false
				c.Store.Path = ""
			},
			wantErr: true,
		},
		{
			name: "in-memory store without path is fine",
			mutate: func(c *Config) {
				c.Store.InMemory = true
				c.Store.Path = ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{env: "HTTP_PORT", want: "server.port"},
		{env: "CORPUS_CLUBS_PATH", want: "corpus.clubs_path"},
		{env: "OPENAI_API_KEY", want: "embedding.openai_api_key"},
		{env: "RECOMMEND_BLEND_WEIGHT", want: "recommend.blend_weight"},
		{env: "PATH", want: ""},
		{env: "HOME", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			if got := envTransformFunc(tt.env); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.env, got, tt.want)
			}
		})
	}
}
