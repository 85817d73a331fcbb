// Campusmatch - Personalized Campus Opportunity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campusmatch

// Package recommend implements personalized ranking over the corpus index
// and the preference-evolution loop driven by user feedback.
//
// Each user has a single preference vector living in the same embedding
// space as the corpus. It is seeded from the user's first search query and
// nudged toward every item they like, so rankings drift toward demonstrated
// taste over time.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/campusmatch/internal/corpus"
	"github.com/tomtom215/campusmatch/internal/embedding"
	"github.com/tomtom215/campusmatch/internal/metrics"
	"github.com/tomtom215/campusmatch/internal/profile"
)

// ErrEmbeddingFailed marks errors originating from the embedding provider,
// so the API layer can map them to an upstream-failure status.
var ErrEmbeddingFailed = errors.New("embedding failed")

// Config tunes the ranking engine.
type Config struct {
	// DefaultTopK is used when a request does not specify a result count.
	DefaultTopK int

	// BlendWeight is the pull toward a liked item's vector on feedback.
	BlendWeight float64
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		DefaultTopK: 5,
		BlendWeight: 0.2,
	}
}

// normalizeConfig fills zero values with defaults and clamps nonsense.
func normalizeConfig(cfg Config) Config {
	def := DefaultConfig()
	if cfg.DefaultTopK <= 0 {
		cfg.DefaultTopK = def.DefaultTopK
	}
	if cfg.BlendWeight <= 0 || cfg.BlendWeight >= 1 {
		cfg.BlendWeight = def.BlendWeight
	}
	return cfg
}

// Result is one ranked recommendation, projected for display.
type Result struct {
	Title      string          `json:"title"`
	Link       string          `json:"link"`
	Source     string          `json:"source"`
	MatchScore float64         `json:"match_score"`
	ItemType   corpus.ItemType `json:"item_type"`
}

// Engine ranks corpus items for a user. It is stateless apart from its
// injected dependencies and safe for concurrent use.
type Engine struct {
	index    *corpus.Index
	store    profile.Store
	embedder embedding.Embedder
	cfg      Config
	logger   zerolog.Logger
}

// NewEngine creates a ranking engine.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewEngine(index *corpus.Index, store profile.Store, embedder embedding.Embedder, cfg Config, logger zerolog.Logger) *Engine {
	return &Engine{
		index:    index,
		store:    store,
		embedder: embedder,
		cfg:      normalizeConfig(cfg),
		logger:   logger.With().Str("component", "recommend").Logger(),
	}
}

// DefaultTopK exposes the configured default result count for the API layer.
func (e *Engine) DefaultTopK() int {
	return e.cfg.DefaultTopK
}

// Recommend returns up to topK items for the user, best match first.
//
// The search vector is the user's stored preference vector when one exists.
// Otherwise the query is embedded and the resulting vector is persisted
// verbatim as the user's initial preference vector; embedding failures are
// returned to the caller. Items the user has already seen are skipped, and
// topK is clamped to [0, corpus size]. An empty corpus yields an empty
// result slice, not an error.
func (e *Engine) Recommend(ctx context.Context, userID, query string, topK int) ([]Result, error) {
	start := time.Now()

	p, err := e.store.Get(ctx, userID)
	if err != nil {
		metrics.RecordRecommend("error", time.Since(start))
		metrics.ProfileStoreErrors.Inc()
		return nil, fmt.Errorf("load profile: %w", err)
	}

	outcome := "ok"
	searchVec := p.PreferenceVector
	if searchVec == nil {
		outcome = "cold_start"
		searchVec, p, err = e.seedPreferenceVector(ctx, userID, query)
		if err != nil {
			metrics.RecordRecommend("error", time.Since(start))
			return nil, err
		}
	}

	if topK < 0 {
		topK = 0
	}
	if topK > e.index.Len() {
		topK = e.index.Len()
	}

	seen := make(map[string]struct{}, len(p.SeenLinks))
	for _, link := range p.SeenLinks {
		seen[link] = struct{}{}
	}

	results := make([]Result, 0, topK)
	for _, s := range e.index.ScoreAll(searchVec) {
		if len(results) >= topK {
			break
		}
		item := e.index.Item(s.Index)
		if _, ok := seen[item.Link]; ok {
			continue
		}
		results = append(results, Result{
			Title:      item.DisplayTitle(),
			Link:       item.Link,
			Source:     item.DisplaySource(),
			MatchScore: matchScore(s.Score),
			ItemType:   item.Type,
		})
	}

	e.logger.Debug().
		Str("user_id", userID).
		Str("outcome", outcome).
		Int("top_k", topK).
		Int("results", len(results)).
		Msg("Recommendation computed")
	metrics.RecordRecommend(outcome, time.Since(start))

	return results, nil
}

// seedPreferenceVector embeds the query and persists it as the user's
// initial preference vector. The check-and-set runs inside a single store
// update, so a concurrent request cannot overwrite an already-seeded vector;
// whichever vector lands first is the one both requests search with.
func (e *Engine) seedPreferenceVector(ctx context.Context, userID, query string) ([]float32, *profile.Profile, error) {
	queryVec, err := e.embedder.Embed(ctx, query)
	if err != nil {
		metrics.EmbeddingRequests.WithLabelValues("error").Inc()
		return nil, nil, fmt.Errorf("%w: %w", ErrEmbeddingFailed, err)
	}
	metrics.EmbeddingRequests.WithLabelValues("ok").Inc()

	p, err := e.store.Update(ctx, userID, func(p *profile.Profile) error {
		if p.PreferenceVector == nil {
			p.PreferenceVector = queryVec
		}
		return nil
	})
	if err != nil {
		metrics.ProfileStoreErrors.Inc()
		return nil, nil, fmt.Errorf("seed preference vector: %w", err)
	}

	e.logger.Info().
		Str("user_id", userID).
		Int("dimension", len(p.PreferenceVector)).
		Msg("Seeded preference vector from query")

	return p.PreferenceVector, p, nil
}

// matchScore converts a cosine similarity to a percentage with two decimal
// places.
func matchScore(similarity float64) float64 {
	return math.Round(similarity*100*100) / 100
}
