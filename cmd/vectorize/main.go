// Campusmatch - Personalized Campus Opportunity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campusmatch

// Package main is the offline vectorizer. It reads a scraped corpus file,
// embeds every item's display text through the configured provider, and
// writes a vector file the server can load directly.
//
// Items that fail to embed are skipped and reported; the output contains
// only items with embeddings.
//
// Usage:
//
//	vectorize -input clubs.json -output clubs_vectors.json -kind club
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/joho/godotenv"

	"github.com/tomtom215/campusmatch/internal/config"
	"github.com/tomtom215/campusmatch/internal/corpus"
	"github.com/tomtom215/campusmatch/internal/embedding"
	"github.com/tomtom215/campusmatch/internal/logging"
)

func main() {
	var (
		inputPath  = flag.String("input", "", "path to the raw corpus JSON file")
		outputPath = flag.String("output", "", "path to write the vector file")
		kind       = flag.String("kind", "club", "item kind: club, local_event, or global_opportunity")
	)
	flag.Parse()

	_ = godotenv.Load()

	if *inputPath == "" || *outputPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	itemType := corpus.ItemType(*kind)
	switch itemType {
	case corpus.TypeClub, corpus.TypeLocalEvent, corpus.TypeGlobalOpportunity:
	default:
		logging.Fatal().Str("kind", *kind).Msg("Unknown item kind")
	}

	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: "console",
		Caller: false,
	})

	embedder, err := buildEmbedder(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize embedding provider")
	}

	items, err := readItems(*inputPath, itemType)
	if err != nil {
		logging.Fatal().Err(err).Str("input", *inputPath).Msg("Failed to read corpus file")
	}
	logging.Info().Int("items", len(items)).Str("kind", *kind).Msg("Vectorizing corpus")

	embedded := make([]corpus.Item, 0, len(items))
	skipped := 0
	for i := range items {
		item := items[i]

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Embedding.Timeout)
		vec, err := embedder.Embed(ctx, item.EmbeddingText())
		cancel()
		if err != nil {
			skipped++
			logging.Warn().Err(err).Str("link", item.Link).Msg("Skipping item, embedding failed")
			continue
		}

		item.Embedding = vec
		embedded = append(embedded, item)
	}

	if err := writeItems(*outputPath, embedded); err != nil {
		logging.Fatal().Err(err).Str("output", *outputPath).Msg("Failed to write vector file")
	}

	logging.Info().
		Int("embedded", len(embedded)).
		Int("skipped", skipped).
		Str("output", *outputPath).
		Msg("Vectorization complete")
}

// readItems loads the raw corpus and tags untyped items with the given kind.
func readItems(path string, itemType corpus.ItemType) ([]corpus.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	var items []corpus.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse input: %w", err)
	}

	for i := range items {
		if items[i].Type == "" {
			items[i].Type = itemType
		}
	}
	return items, nil
}

func writeItems(path string, items []corpus.Item) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// buildEmbedder constructs the configured provider. The vectorizer talks to
// the provider directly, without the circuit breaker: a batch run should see
// every per-item failure rather than fail fast.
func buildEmbedder(cfg *config.Config) (embedding.Embedder, error) {
	switch cfg.Embedding.Provider {
	case "openai":
		return embedding.NewOpenAIEmbedder(cfg.Embedding.OpenAIAPIKey, cfg.Embedding.Model)
	case "ollama":
		return embedding.NewOllamaEmbedder(cfg.Embedding.OllamaHost, cfg.Embedding.Model, cfg.Embedding.Timeout)
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Embedding.Provider)
	}
}
