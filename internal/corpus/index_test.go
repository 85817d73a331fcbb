// Campusmatch - Personalized Campus Opportunity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campusmatch

package corpus

import (
	"io"
	"testing"

	"github.com/tomtom215/campusmatch/internal/logging"
)

func testItems() []Item {
	return []Item{
		{Link: "https://clubs.example/chess", Type: TypeClub, ClubName: "Chess Club", Category: "Games", Embedding: []float32{1, 0, 0}},
		{Link: "https://events.example/hackathon", Type: TypeLocalEvent, Title: "Campus Hackathon", Source: "Events Board", Embedding: []float32{0, 1, 0}},
		{Link: "https://jobs.example/intern", Type: TypeGlobalOpportunity, Title: "Research Internship", Source: "Global Feed", Embedding: []float32{0, 0, 1}},
	}
}

func TestNewIndexDropsItemsWithoutEmbeddings(t *testing.T) {
	items := append(testItems(),
		Item{Link: "https://clubs.example/no-vector", Type: TypeClub, ClubName: "No Vector"},
	)

	idx := NewIndex(items, logging.NewTestLogger(io.Discard))

	if idx.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", idx.Len())
	}
	if vec := idx.VectorOf("https://clubs.example/no-vector"); vec != nil {
		t.Errorf("VectorOf(dropped item) = %v, want nil", vec)
	}
}

func TestNewIndexDropsMismatchedDimensions(t *testing.T) {
	items := append(testItems(),
		Item{Link: "https://events.example/odd", Type: TypeLocalEvent, Title: "Odd", Embedding: []float32{1, 2}},
	)

	idx := NewIndex(items, logging.NewTestLogger(io.Discard))

	if idx.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", idx.Len())
	}
	if idx.Dimension() != 3 {
		t.Errorf("Dimension() = %d, want 3", idx.Dimension())
	}
}

func TestVectorOf(t *testing.T) {
	idx := NewIndex(testItems(), logging.NewTestLogger(io.Discard))

	tests := []struct {
		name string
		link string
		want []float32
	}{
		{name: "existing item", link: "https://events.example/hackathon", want: []float32{0, 1, 0}},
		{name: "unknown link", link: "https://nowhere.example", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := idx.VectorOf(tt.link)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("VectorOf(%q) = %v, want %v", tt.link, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("VectorOf(%q)[%d] = %v, want %v", tt.link, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestScoreAllOrdering(t *testing.T) {
	idx := NewIndex(testItems(), logging.NewTestLogger(io.Discard))

	// Query closest to the hackathon, then the internship, then the club.
	scored := idx.ScoreAll([]float32{0.1, 1, 0.3})

	if len(scored) != 3 {
		t.Fatalf("ScoreAll() returned %d items, want 3", len(scored))
	}
	for i := 1; i < len(scored); i++ {
		if scored[i].Score > scored[i-1].Score {
			t.Errorf("ScoreAll() not sorted descending at position %d: %v > %v", i, scored[i].Score, scored[i-1].Score)
		}
	}
	if idx.Item(scored[0].Index).Link != "https://events.example/hackathon" {
		t.Errorf("top item = %s, want hackathon", idx.Item(scored[0].Index).Link)
	}
}

func TestScoreAllStableTieBreak(t *testing.T) {
	items := []Item{
		{Link: "first", Type: TypeClub, ClubName: "First", Embedding: []float32{1, 0}},
		{Link: "second", Type: TypeClub, ClubName: "Second", Embedding: []float32{1, 0}},
		{Link: "third", Type: TypeClub, ClubName: "Third", Embedding: []float32{2, 0}},
	}
	idx := NewIndex(items, logging.NewTestLogger(io.Discard))

	// All three have identical direction, so all scores tie; load order
	// must be preserved.
	scored := idx.ScoreAll([]float32{1, 0})

	wantOrder := []string{"first", "second", "third"}
	for i, want := range wantOrder {
		if got := idx.Item(scored[i].Index).Link; got != want {
			t.Errorf("position %d = %s, want %s", i, got, want)
		}
	}
}

func TestScoreAllEmptyCorpus(t *testing.T) {
	idx := NewIndex(nil, logging.NewTestLogger(io.Discard))

	scored := idx.ScoreAll([]float32{1, 0})
	if len(scored) != 0 {
		t.Errorf("ScoreAll() on empty corpus returned %d items, want 0", len(scored))
	}
}

func TestDisplayProjection(t *testing.T) {
	tests := []struct {
		name       string
		item       Item
		wantTitle  string
		wantSource string
	}{
		{
			name:       "club projects name and category",
			item:       Item{Type: TypeClub, ClubName: "Chess Club", Category: "Games", Title: "ignored", Source: "ignored"},
			wantTitle:  "Chess Club",
			wantSource: "Games",
		},
		{
			name:       "local event projects title and source",
			item:       Item{Type: TypeLocalEvent, Title: "Campus Hackathon", Source: "Events Board"},
			wantTitle:  "Campus Hackathon",
			wantSource: "Events Board",
		},
		{
			name:       "global opportunity projects title and source",
			item:       Item{Type: TypeGlobalOpportunity, Title: "Research Internship", Source: "Global Feed"},
			wantTitle:  "Research Internship",
			wantSource: "Global Feed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.item.DisplayTitle(); got != tt.wantTitle {
				t.Errorf("DisplayTitle() = %q, want %q", got, tt.wantTitle)
			}
			if got := tt.item.DisplaySource(); got != tt.wantSource {
				t.Errorf("DisplaySource() = %q, want %q", got, tt.wantSource)
			}
		})
	}
}

func TestEmbeddingText(t *testing.T) {
	club := Item{Type: TypeClub, ClubName: "Chess Club", Category: "Games", Description: "Weekly games"}
	if got, want := club.EmbeddingText(), "Name: Chess Club. Category: Games. Description: Weekly games"; got != want {
		t.Errorf("club EmbeddingText() = %q, want %q", got, want)
	}

	event := Item{Type: TypeLocalEvent, Title: "Hackathon", Source: "Events Board", Snippet: "48 hours of builds"}
	if got, want := event.EmbeddingText(), "Title: Hackathon. Source: Events Board. Description: 48 hours of builds"; got != want {
		t.Errorf("event EmbeddingText() = %q, want %q", got, want)
	}
}
