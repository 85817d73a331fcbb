// Campusmatch - Personalized Campus Opportunity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campusmatch

package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is the shared validator instance. validator.Validate is
// concurrency-safe and caches struct metadata, so one instance serves all
// handlers.
var validate = validator.New()

// RecommendRequest is the request body for POST /recommend.
//
// Fields:
//   - UserID: Required user identifier
//   - Query: Required free-text interest description; used only to seed the
//     preference vector on a user's first request
//   - TopK: Result count (0 means the configured default)
type RecommendRequest struct {
	UserID string `json:"user_id" validate:"required,min=1,max=256"`
	Query  string `json:"query" validate:"required,min=1,max=2000"`
	TopK   int    `json:"top_k" validate:"min=0,max=1000"`
}

// InteractRequest is the request body for POST /interact.
//
// Fields:
//   - UserID: Required user identifier
//   - Link: Required item link (the item's identity)
//   - Action: Feedback action; the engine accepts like or skip and rejects
//     everything else, so it is not constrained here
type InteractRequest struct {
	UserID string `json:"user_id" validate:"required,min=1,max=256"`
	Link   string `json:"link" validate:"required,min=1,max=2048"`
	Action string `json:"action" validate:"required"`
}

// validateRequest runs struct validation and flattens failures into a
// client-friendly message.
func validateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}
