// Campusmatch - Personalized Campus Opportunity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campusmatch

package corpus

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// Source describes one vector file feeding the corpus.
type Source struct {
	// Path is the JSON file holding an array of items with embeddings.
	Path string

	// Type is assigned to items that do not carry their own type field.
	Type ItemType
}

// Load reads the configured vector files and builds the index. A missing or
// empty path contributes nothing and logs a warning; corrupt JSON fails the
// whole load. The returned index may be empty when no source yields items.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func Load(sources []Source, logger zerolog.Logger) (*Index, error) {
	log := logger.With().Str("component", "corpus").Logger()

	var items []Item
	for _, src := range sources {
		if src.Path == "" {
			continue
		}

		loaded, err := loadFile(src)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				log.Warn().
					Str("path", src.Path).
					Str("type", string(src.Type)).
					Msg("Corpus file not found, skipping")
				continue
			}
			return nil, fmt.Errorf("load corpus file %s: %w", src.Path, err)
		}

		log.Info().
			Str("path", src.Path).
			Str("type", string(src.Type)).
			Int("items", len(loaded)).
			Msg("Loaded corpus file")
		items = append(items, loaded...)
	}

	idx := NewIndex(items, logger)
	log.Info().
		Int("total_items", idx.Len()).
		Int("dimension", idx.Dimension()).
		Msg("Corpus index ready")

	return idx, nil
}

// loadFile parses one vector file and tags untyped items with the source type.
func loadFile(src Source) ([]Item, error) {
	data, err := os.ReadFile(src.Path)
	if err != nil {
		return nil, err
	}

	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse items: %w", err)
	}

	for i := range items {
		if items[i].Type == "" {
			items[i].Type = src.Type
		}
	}

	return items, nil
}
