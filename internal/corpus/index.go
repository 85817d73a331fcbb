// Campusmatch - Personalized Campus Opportunity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campusmatch

package corpus

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/tomtom215/campusmatch/internal/vectormath"
)

// Index is the in-memory catalog the ranking engine scores against.
// It is built once at startup and read-only afterwards, so concurrent reads
// need no locking. The corpus is small enough (hundreds to low thousands of
// items) that a brute-force scan beats the complexity of an ANN index.
type Index struct {
	items     []Item
	dimension int
	logger    zerolog.Logger
}

// ScoredItem pairs a corpus position with its similarity score.
type ScoredItem struct {
	// Index is the item's position in the corpus load order.
	Index int

	// Score is the cosine similarity against the query vector.
	Score float64
}

// NewIndex builds an index from loaded items. Items without an embedding are
// dropped, as are items whose embedding dimension disagrees with the first
// valid item; both are logged and skipped rather than failing the load.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewIndex(items []Item, logger zerolog.Logger) *Index {
	idx := &Index{
		items:  make([]Item, 0, len(items)),
		logger: logger.With().Str("component", "corpus").Logger(),
	}

	dropped := 0
	for _, it := range items {
		if len(it.Embedding) == 0 {
			dropped++
			idx.logger.Debug().
				Str("link", it.Link).
				Msg("Dropping item without embedding")
			continue
		}
		if idx.dimension == 0 {
			idx.dimension = len(it.Embedding)
		}
		if len(it.Embedding) != idx.dimension {
			dropped++
			idx.logger.Warn().
				Str("link", it.Link).
				Int("dimension", len(it.Embedding)).
				Int("expected", idx.dimension).
				Msg("Dropping item with mismatched embedding dimension")
			continue
		}
		idx.items = append(idx.items, it)
	}

	if dropped > 0 {
		idx.logger.Info().
			Int("dropped", dropped).
			Int("kept", len(idx.items)).
			Msg("Corpus index built with dropped items")
	}

	return idx
}

// Len returns the number of scoreable items.
func (idx *Index) Len() int {
	return len(idx.items)
}

// Dimension returns the embedding dimension of the corpus, or 0 when empty.
func (idx *Index) Dimension() int {
	return idx.dimension
}

// Item returns the item at the given load-order position.
func (idx *Index) Item(i int) *Item {
	return &idx.items[i]
}

// VectorOf returns the embedding of the item with the given link, or nil when
// no such item exists. The linear scan is fine at corpus scale; a lookup map
// would only pay off well past the sizes this service sees.
func (idx *Index) VectorOf(link string) []float32 {
	for i := range idx.items {
		if idx.items[i].Link == link {
			return idx.items[i].Embedding
		}
	}
	return nil
}

// ScoreAll scores every item against the query vector and returns the results
// sorted by descending similarity. Ties keep corpus load order, so repeated
// calls with the same query produce identical rankings. Items whose dimension
// cannot be compared to the query score as errors and are skipped.
func (idx *Index) ScoreAll(query []float32) []ScoredItem {
	scored := make([]ScoredItem, 0, len(idx.items))
	for i := range idx.items {
		sim, err := vectormath.CosineSimilarity(query, idx.items[i].Embedding)
		if err != nil {
			idx.logger.Debug().
				Str("link", idx.items[i].Link).
				Err(err).
				Msg("Skipping unscoreable item")
			continue
		}
		scored = append(scored, ScoredItem{Index: i, Score: sim})
	}

	sort.SliceStable(scored, func(a, b int) bool {
		return scored[a].Score > scored[b].Score
	})

	return scored
}
