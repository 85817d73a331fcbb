// Campusmatch - Personalized Campus Opportunity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campusmatch

// Package corpus holds the recommendable item catalog: clubs scraped from the
// student union directory and opportunity listings from local and global
// feeds, each carrying a precomputed embedding vector.
package corpus

import "fmt"

// ItemType identifies which feed an item came from and which fields carry
// its display text.
type ItemType string

const (
	// TypeClub is a student club from the club directory.
	TypeClub ItemType = "club"

	// TypeLocalEvent is an opportunity from the local events feed.
	TypeLocalEvent ItemType = "local_event"

	// TypeGlobalOpportunity is a listing from the global opportunities feed.
	TypeGlobalOpportunity ItemType = "global_opportunity"
)

// Item is a single recommendable entry. The Link is its identity across the
// whole system: dedup, seen tracking, and feedback all key on it.
//
// Clubs populate ClubName/Category/Description; event-style items populate
// Title/Source/Snippet. Both shapes share Link, Type, and Embedding.
type Item struct {
	Link        string    `json:"link"`
	Type        ItemType  `json:"type"`
	ClubName    string    `json:"club_name,omitempty"`
	Category    string    `json:"category,omitempty"`
	Title       string    `json:"title,omitempty"`
	Source      string    `json:"source,omitempty"`
	Snippet     string    `json:"snippet,omitempty"`
	Description string    `json:"description,omitempty"`
	Embedding   []float32 `json:"embedding,omitempty"`
}

// DisplayTitle returns the human-facing title: the club name for clubs, the
// listing title for everything else.
func (it *Item) DisplayTitle() string {
	if it.Type == TypeClub {
		return it.ClubName
	}
	return it.Title
}

// DisplaySource returns the human-facing source line: the club category for
// clubs, the feed source for everything else.
func (it *Item) DisplaySource() string {
	if it.Type == TypeClub {
		return it.Category
	}
	return it.Source
}

// EmbeddingText builds the text representation an item is embedded from.
// The field labels are part of the representation: the corpus and user
// queries must be embedded from the same kind of text for similarity scores
// to be meaningful.
func (it *Item) EmbeddingText() string {
	if it.Type == TypeClub {
		return fmt.Sprintf("Name: %s. Category: %s. Description: %s", it.ClubName, it.Category, it.Description)
	}
	return fmt.Sprintf("Title: %s. Source: %s. Description: %s", it.Title, it.Source, it.Snippet)
}
