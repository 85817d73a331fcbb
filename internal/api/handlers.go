// Campusmatch - Personalized Campus Opportunity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campusmatch

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/campusmatch/internal/config"
	"github.com/tomtom215/campusmatch/internal/corpus"
	"github.com/tomtom215/campusmatch/internal/embedding"
	"github.com/tomtom215/campusmatch/internal/logging"
	"github.com/tomtom215/campusmatch/internal/recommend"
)

// Handler holds the dependencies behind the HTTP endpoints.
type Handler struct {
	engine    *recommend.Engine
	feedback  *recommend.Feedback
	index     *corpus.Index
	embedder  embedding.Embedder
	config    *config.Config
	startTime time.Time
}

// NewHandler creates the API handler.
func NewHandler(engine *recommend.Engine, feedback *recommend.Feedback, index *corpus.Index, embedder embedding.Embedder, cfg *config.Config) *Handler {
	return &Handler{
		engine:    engine,
		feedback:  feedback,
		index:     index,
		embedder:  embedder,
		config:    cfg,
		startTime: time.Now(),
	}
}

// recommendResponse is the payload for POST /recommend.
type recommendResponse struct {
	UserID  string             `json:"user_id"`
	Query   string             `json:"query"`
	Results []recommend.Result `json:"results"`
	Count   int                `json:"count"`
}

// Recommend handles POST /api/v1/recommend.
// Returns personalized rankings for the user, seeding a preference vector
// from the query on first contact.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req RecommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rw.BadRequest("Invalid JSON body")
		return
	}
	if err := validateRequest(&req); err != nil {
		rw.ValidationError("Invalid request parameters", err.Error())
		return
	}

	topK := req.TopK
	if topK == 0 {
		topK = h.engine.DefaultTopK()
	}
	if topK > h.config.Recommend.MaxTopK {
		topK = h.config.Recommend.MaxTopK
	}

	results, err := h.engine.Recommend(r.Context(), req.UserID, req.Query, topK)
	if err != nil {
		if errors.Is(err, recommend.ErrEmbeddingFailed) {
			rw.ExternalServiceError("embedding", err)
			return
		}
		rw.StoreError(err)
		return
	}

	rw.Success(recommendResponse{
		UserID:  req.UserID,
		Query:   req.Query,
		Results: results,
		Count:   len(results),
	})
}

// Interact handles POST /api/v1/interact.
// Records like/skip feedback and evolves the user's preference vector.
func (h *Handler) Interact(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req InteractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rw.BadRequest("Invalid JSON body")
		return
	}
	if err := validateRequest(&req); err != nil {
		rw.ValidationError("Invalid request parameters", err.Error())
		return
	}

	result, err := h.feedback.Interact(r.Context(), req.UserID, req.Link, recommend.Action(req.Action))
	if err != nil {
		if errors.Is(err, recommend.ErrInvalidAction) {
			rw.InvalidAction("Action must be 'like' or 'skip'")
			return
		}
		rw.StoreError(err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("user_id", req.UserID).
		Str("action", req.Action).
		Bool("vector_shifted", result.VectorShifted).
		Msg("Interaction processed")

	rw.Success(result)
}
