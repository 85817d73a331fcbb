// Campusmatch - Personalized Campus Opportunity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campusmatch

// Package profile persists per-user recommendation state: which items a user
// has seen and liked, and the preference vector their feedback has evolved.
package profile

import (
	"context"
	"errors"
	"time"
)

// ErrProfileNotFound is returned by lookups that do not create missing
// profiles.
var ErrProfileNotFound = errors.New("profile not found")

// Profile is the persisted state for one user. SeenLinks and LikedLinks are
// sets stored as slices; membership checks scan linearly, which holds up for
// the session counts a single user accumulates. There is no eviction: a
// permanently growing seen set will eventually exhaust the corpus for that
// user.
type Profile struct {
	UserID           string    `json:"user_id"`
	SeenLinks        []string  `json:"seen_links"`
	LikedLinks       []string  `json:"liked_links"`
	PreferenceVector []float32 `json:"preference_vector,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// NewProfile returns an empty profile for the given user.
func NewProfile(userID string) *Profile {
	now := time.Now().UTC()
	return &Profile{
		UserID:     userID,
		SeenLinks:  []string{},
		LikedLinks: []string{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// HasSeen reports whether the user has already been shown the item.
func (p *Profile) HasSeen(link string) bool {
	return contains(p.SeenLinks, link)
}

// HasLiked reports whether the user has liked the item.
func (p *Profile) HasLiked(link string) bool {
	return contains(p.LikedLinks, link)
}

// MarkSeen adds the link to the seen set if not already present.
func (p *Profile) MarkSeen(link string) {
	if !contains(p.SeenLinks, link) {
		p.SeenLinks = append(p.SeenLinks, link)
	}
}

// MarkLiked adds the link to the liked set if not already present.
func (p *Profile) MarkLiked(link string) {
	if !contains(p.LikedLinks, link) {
		p.LikedLinks = append(p.LikedLinks, link)
	}
}

func contains(links []string, link string) bool {
	for _, l := range links {
		if l == link {
			return true
		}
	}
	return false
}

// Store is the persistence interface for user profiles.
//
// Get lazily creates and persists an empty profile on first access, so
// callers never see a missing-user error for reads.
//
// Update applies mutate to the current profile under a per-user lock and
// persists the result atomically. If mutate returns an error, nothing is
// written and the error is returned unchanged. Persistence failures abort
// the whole update; callers never observe partially applied state.
type Store interface {
	Get(ctx context.Context, userID string) (*Profile, error)
	Update(ctx context.Context, userID string, mutate func(*Profile) error) (*Profile, error)
	Close() error
}
