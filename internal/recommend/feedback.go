// Campusmatch - Personalized Campus Opportunity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campusmatch

package recommend

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/campusmatch/internal/corpus"
	"github.com/tomtom215/campusmatch/internal/metrics"
	"github.com/tomtom215/campusmatch/internal/profile"
	"github.com/tomtom215/campusmatch/internal/vectormath"
)

// ErrInvalidAction is returned for feedback actions other than like or skip.
var ErrInvalidAction = errors.New("invalid feedback action")

// Action is a user's reaction to a recommended item.
type Action string

const (
	// ActionLike marks the item seen, records the like, and pulls the
	// preference vector toward the item.
	ActionLike Action = "like"

	// ActionSkip marks the item seen without touching the preference vector.
	ActionSkip Action = "skip"
)

// InteractionResult summarizes the state after a feedback interaction.
type InteractionResult struct {
	UserID        string `json:"user_id"`
	Action        Action `json:"action"`
	TotalSeen     int    `json:"total_seen"`
	TotalLiked    int    `json:"total_liked"`
	VectorShifted bool   `json:"vector_shifted"`
}

// Feedback processes like/skip interactions and evolves preference vectors.
// Safe for concurrent use.
type Feedback struct {
	index       *corpus.Index
	store       profile.Store
	blendWeight float64
	logger      zerolog.Logger
}

// NewFeedback creates a feedback processor. A blendWeight outside (0,1)
// falls back to the default.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewFeedback(index *corpus.Index, store profile.Store, blendWeight float64, logger zerolog.Logger) *Feedback {
	if blendWeight <= 0 || blendWeight >= 1 {
		blendWeight = DefaultConfig().BlendWeight
	}
	return &Feedback{
		index:       index,
		store:       store,
		blendWeight: blendWeight,
		logger:      logger.With().Str("component", "feedback").Logger(),
	}
}

// Interact records a user's reaction to an item in one atomic profile
// update.
//
// Any action marks the item seen. A like additionally records the item in
// the liked set and shifts the preference vector toward the item:
//
//	preference = normalize(blend(preference, itemVector, blendWeight))
//
// The shift is skipped silently when the user has no preference vector yet,
// the link is not in the corpus, or the dimensions disagree; the like is
// still recorded. Liking the same item again re-applies the shift, which
// makes repeat likes act as a stronger signal. An unknown action returns
// ErrInvalidAction without touching any state. Store failures abort the
// whole interaction.
func (f *Feedback) Interact(ctx context.Context, userID, link string, action Action) (*InteractionResult, error) {
	if action != ActionLike && action != ActionSkip {
		metrics.RecordInteraction("invalid")
		return nil, fmt.Errorf("%w: %q", ErrInvalidAction, action)
	}

	shifted := false
	p, err := f.store.Update(ctx, userID, func(p *profile.Profile) error {
		p.MarkSeen(link)
		if action != ActionLike {
			return nil
		}

		p.MarkLiked(link)
		shifted = f.shiftVector(p, link)
		return nil
	})
	if err != nil {
		metrics.ProfileStoreErrors.Inc()
		return nil, fmt.Errorf("record interaction: %w", err)
	}

	metrics.RecordInteraction(string(action))
	if shifted {
		metrics.VectorShifts.Inc()
	}

	f.logger.Debug().
		Str("user_id", userID).
		Str("link", link).
		Str("action", string(action)).
		Bool("vector_shifted", shifted).
		Msg("Interaction recorded")

	return &InteractionResult{
		UserID:        userID,
		Action:        action,
		TotalSeen:     len(p.SeenLinks),
		TotalLiked:    len(p.LikedLinks),
		VectorShifted: shifted,
	}, nil
}

// shiftVector pulls the profile's preference vector toward the liked item.
// Returns false without modifying the profile when the shift cannot apply.
func (f *Feedback) shiftVector(p *profile.Profile, link string) bool {
	if p.PreferenceVector == nil {
		return false
	}

	itemVec := f.index.VectorOf(link)
	if itemVec == nil {
		f.logger.Debug().
			Str("link", link).
			Msg("Liked item not in corpus, vector unchanged")
		return false
	}

	blended, err := vectormath.Blend(p.PreferenceVector, itemVec, f.blendWeight)
	if err != nil {
		f.logger.Debug().
			Str("link", link).
			Err(err).
			Msg("Liked item dimension mismatch, vector unchanged")
		return false
	}

	p.PreferenceVector = vectormath.Normalize(blended)
	return true
}
