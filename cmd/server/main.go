// Campusmatch - Personalized Campus Opportunity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campusmatch

// Package main is the entry point for the Campusmatch server.
//
// Campusmatch recommends campus clubs, local events, and global opportunities
// to students, ranked against a per-user preference vector that evolves with
// like/skip feedback.
//
// The server initializes components in the following order:
//
//  1. Configuration: Koanf v2 with layered sources (defaults, config.yaml,
//     environment variables)
//  2. Corpus: pre-embedded vector files produced by cmd/vectorize
//  3. Profile store: BadgerDB-backed user profiles
//  4. Embedding provider: OpenAI or Ollama, behind a circuit breaker
//  5. HTTP server: Chi router with health, metrics, and API endpoints
//
// # Configuration
//
// Everything can be set through environment variables, for example:
//
//	export EMBEDDING_PROVIDER=ollama
//	export OLLAMA_HOST=http://localhost:11434
//	export CORPUS_CLUBS_PATH=/data/corpus/clubs_vectors.json
//	export STORE_PATH=/data/profiles
//	./campusmatch
//
// Using OpenAI embeddings instead:
//
//	export EMBEDDING_PROVIDER=openai
//	export OPENAI_API_KEY=sk-...
//	./campusmatch
//
// # Signal Handling
//
// The server shuts down gracefully on SIGINT and SIGTERM: it stops accepting
// new connections, waits up to 10 seconds for in-flight requests, then closes
// the profile store.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/tomtom215/campusmatch/internal/api"
	"github.com/tomtom215/campusmatch/internal/config"
	"github.com/tomtom215/campusmatch/internal/corpus"
	"github.com/tomtom215/campusmatch/internal/embedding"
	"github.com/tomtom215/campusmatch/internal/logging"
	"github.com/tomtom215/campusmatch/internal/metrics"
	"github.com/tomtom215/campusmatch/internal/profile"
	"github.com/tomtom215/campusmatch/internal/recommend"
)

func main() {
	// Optional .env file for local development
	_ = godotenv.Load()

	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("provider", cfg.Embedding.Provider).
		Str("store_path", cfg.Store.Path).
		Bool("store_in_memory", cfg.Store.InMemory).
		Msg("Starting Campusmatch")

	// Load the corpus. Missing files are skipped with a warning; whether an
	// empty corpus is fatal depends on configuration.
	index, err := corpus.Load([]corpus.Source{
		{Path: cfg.Corpus.ClubsPath, Type: corpus.TypeClub},
		{Path: cfg.Corpus.LocalPath, Type: corpus.TypeLocalEvent},
		{Path: cfg.Corpus.GlobalPath, Type: corpus.TypeGlobalOpportunity},
	}, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load corpus")
	}
	if index.Len() == 0 {
		if cfg.Corpus.Require {
			logging.Fatal().Msg("Corpus loaded zero items and corpus.require is set")
		}
		logging.Warn().Msg("Corpus is empty; serving empty recommendations")
	}
	metrics.CorpusItems.Set(float64(index.Len()))
	logging.Info().
		Int("items", index.Len()).
		Int("dimension", index.Dimension()).
		Msg("Corpus loaded")

	store, err := profile.Open(cfg.Store.Path, cfg.Store.InMemory)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open profile store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing profile store")
		}
	}()

	embedder, err := buildEmbedder(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize embedding provider")
	}
	if err := embedder.Ping(context.Background()); err != nil {
		logging.Warn().Err(err).Msg("Embedding provider unreachable at startup (will retry on demand)")
	}

	engine := recommend.NewEngine(index, store, embedder, recommend.Config{
		DefaultTopK: cfg.Recommend.DefaultTopK,
		BlendWeight: cfg.Recommend.BlendWeight,
	}, logging.Logger())
	feedback := recommend.NewFeedback(index, store, cfg.Recommend.BlendWeight, logging.Logger())

	handler := api.NewHandler(engine, feedback, index, embedder, cfg)
	chiMW := api.NewChiMiddlewareFromConfig(
		cfg.Security.CORSOrigins,
		cfg.Security.RateLimitReqs,
		cfg.Security.RateLimitWindow,
		cfg.Security.RateLimitDisabled,
	)
	router := api.NewRouter(handler, chiMW)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		errCh <- server.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("HTTP server failed")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("Graceful shutdown failed")
	}
	logging.Info().Msg("Server stopped")
}

// buildEmbedder constructs the configured provider and wraps it in a circuit
// breaker so a dead provider fails fast instead of piling up timeouts.
func buildEmbedder(cfg *config.Config) (embedding.Embedder, error) {
	var (
		inner embedding.Embedder
		err   error
	)

	switch cfg.Embedding.Provider {
	case "openai":
		inner, err = embedding.NewOpenAIEmbedder(cfg.Embedding.OpenAIAPIKey, cfg.Embedding.Model)
	case "ollama":
		inner, err = embedding.NewOllamaEmbedder(cfg.Embedding.OllamaHost, cfg.Embedding.Model, cfg.Embedding.Timeout)
	default:
		err = fmt.Errorf("unknown embedding provider %q", cfg.Embedding.Provider)
	}
	if err != nil {
		return nil, err
	}

	breakerCfg := embedding.DefaultBreakerConfig()
	if cfg.Embedding.BreakerFailureThreshold > 0 {
		breakerCfg.FailureThreshold = cfg.Embedding.BreakerFailureThreshold
	}
	if cfg.Embedding.BreakerTimeout > 0 {
		breakerCfg.Timeout = cfg.Embedding.BreakerTimeout
	}

	return embedding.NewBreaker(inner, breakerCfg), nil
}
