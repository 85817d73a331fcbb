// Campusmatch - Personalized Campus Opportunity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campusmatch

// Package embedding turns free text into vectors via an external provider.
// Two providers are supported: the OpenAI embeddings API and a local Ollama
// instance. Both sit behind the Embedder interface so the ranking engine
// never knows which one is configured.
package embedding

import (
	"context"
	"errors"
)

// ErrEmptyEmbedding is returned when a provider responds successfully but
// yields no vector.
var ErrEmptyEmbedding = errors.New("provider returned empty embedding")

// Embedder converts text into an embedding vector.
type Embedder interface {
	// Embed returns the embedding for the given text. Provider failures are
	// returned to the caller; there is no silent fallback vector.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Ping checks provider reachability. Used by the readiness probe.
	Ping(ctx context.Context) error
}
