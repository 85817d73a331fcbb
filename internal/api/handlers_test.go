// Campusmatch - Personalized Campus Opportunity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campusmatch

package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/campusmatch/internal/config"
	"github.com/tomtom215/campusmatch/internal/corpus"
	"github.com/tomtom215/campusmatch/internal/logging"
	"github.com/tomtom215/campusmatch/internal/profile"
	"github.com/tomtom215/campusmatch/internal/recommend"
)

type stubEmbedder struct {
	vec     []float32
	err     error
	pingErr error
}

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.vec, nil
}

func (s *stubEmbedder) Ping(ctx context.Context) error {
	return s.pingErr
}

func testItems() []corpus.Item {
	return []corpus.Item{
		{
			Link:      "https://clubs.example.edu/chess",
			Type:      corpus.TypeClub,
			ClubName:  "Chess Club",
			Category:  "Games",
			Embedding: []float32{1, 0, 0},
		},
		{
			Link:      "https://events.example.edu/hackathon",
			Type:      corpus.TypeLocalEvent,
			Title:     "Fall Hackathon",
			Source:    "Engineering Society",
			Embedding: []float32{0, 1, 0},
		},
		{
			Link:      "https://global.example.org/internship",
			Type:      corpus.TypeGlobalOpportunity,
			Title:     "Research Internship",
			Source:    "Global Programs",
			Embedding: []float32{0, 0, 1},
		},
	}
}

// newTestServer builds a full router backed by an in-memory profile store.
func newTestServer(t *testing.T, embedder *stubEmbedder) (http.Handler, profile.Store) {
	t.Helper()

	logger := logging.NewTestLogger(io.Discard)
	index := corpus.NewIndex(testItems(), logger)

	store, err := profile.Open("", true)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	engine := recommend.NewEngine(index, store, embedder, recommend.DefaultConfig(), logger)
	feedback := recommend.NewFeedback(index, store, 0.2, logger)

	cfg := &config.Config{}
	cfg.Recommend.MaxTopK = 50

	handler := NewHandler(engine, feedback, index, embedder, cfg)
	mw := NewChiMiddleware(&ChiMiddlewareConfig{RateLimitDisabled: true})
	return NewRouter(handler, mw).Setup(), store
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return rec, resp
}

func TestRecommendEndpoint(t *testing.T) {
	h, _ := newTestServer(t, &stubEmbedder{vec: []float32{0.9, 0.1, 0}})

	rec, resp := doJSON(t, h, http.MethodPost, "/api/v1/recommend", RecommendRequest{
		UserID: "alice",
		Query:  "strategy games",
		TopK:   2,
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	if !resp.Success {
		t.Fatal("expected success response")
	}

	data, err := json.Marshal(resp.Data)
	if err != nil {
		t.Fatalf("remarshal data: %v", err)
	}
	var payload recommendResponse
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}

	if payload.Count != 2 || len(payload.Results) != 2 {
		t.Fatalf("count = %d, results = %d, want 2", payload.Count, len(payload.Results))
	}
	if payload.Results[0].Title != "Chess Club" {
		t.Errorf("top result = %q, want Chess Club", payload.Results[0].Title)
	}
	if payload.Results[0].Source != "Games" {
		t.Errorf("club source = %q, want category", payload.Results[0].Source)
	}
}

func TestRecommendEndpointValidation(t *testing.T) {
	h, _ := newTestServer(t, &stubEmbedder{vec: []float32{1, 0, 0}})

	tests := []struct {
		name     string
		body     interface{}
		wantCode string
	}{
		{
			name:     "missing user_id",
			body:     RecommendRequest{Query: "games"},
			wantCode: ErrCodeValidationFailed,
		},
		{
			name:     "missing query",
			body:     RecommendRequest{UserID: "alice"},
			wantCode: ErrCodeValidationFailed,
		},
		{
			name:     "malformed JSON",
			body:     nil,
			wantCode: ErrCodeBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec *httptest.ResponseRecorder
			var resp APIResponse
			if tt.body == nil {
				req := httptest.NewRequest(http.MethodPost, "/api/v1/recommend", bytes.NewBufferString("{not json"))
				rec = httptest.NewRecorder()
				h.ServeHTTP(rec, req)
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
					t.Fatalf("decode response: %v", err)
				}
			} else {
				rec, resp = doJSON(t, h, http.MethodPost, "/api/v1/recommend", tt.body)
			}

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
			if resp.Error == nil || resp.Error.Code != tt.wantCode {
				t.Errorf("error = %+v, want code %s", resp.Error, tt.wantCode)
			}
		})
	}
}

func TestRecommendEndpointEmbedderDown(t *testing.T) {
	h, _ := newTestServer(t, &stubEmbedder{err: errors.New("connection refused")})

	rec, resp := doJSON(t, h, http.MethodPost, "/api/v1/recommend", RecommendRequest{
		UserID: "bob",
		Query:  "robotics",
	})

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadGateway)
	}
	if resp.Error == nil || resp.Error.Code != ErrCodeExternalServiceFail {
		t.Errorf("error = %+v, want code %s", resp.Error, ErrCodeExternalServiceFail)
	}
}

func TestInteractEndpoint(t *testing.T) {
	h, store := newTestServer(t, &stubEmbedder{vec: []float32{1, 0, 0}})

	rec, resp := doJSON(t, h, http.MethodPost, "/api/v1/interact", InteractRequest{
		UserID: "alice",
		Link:   "https://clubs.example.edu/chess",
		Action: "like",
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
	}

	data, err := json.Marshal(resp.Data)
	if err != nil {
		t.Fatalf("remarshal data: %v", err)
	}
	var result recommend.InteractionResult
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("decode payload: %v", err)
	}

	if result.TotalSeen != 1 || result.TotalLiked != 1 {
		t.Errorf("seen = %d, liked = %d, want 1/1", result.TotalSeen, result.TotalLiked)
	}
	if result.VectorShifted {
		t.Error("vector shifted without a preference vector")
	}

	p, err := store.Get(context.Background(), "alice")
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if !p.HasLiked("https://clubs.example.edu/chess") {
		t.Error("like not persisted")
	}
}

func TestInteractEndpointInvalidAction(t *testing.T) {
	h, store := newTestServer(t, &stubEmbedder{vec: []float32{1, 0, 0}})

	rec, resp := doJSON(t, h, http.MethodPost, "/api/v1/interact", InteractRequest{
		UserID: "alice",
		Link:   "https://clubs.example.edu/chess",
		Action: "superlike",
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if resp.Error == nil || resp.Error.Code != ErrCodeInvalidAction {
		t.Errorf("error = %+v, want code %s", resp.Error, ErrCodeInvalidAction)
	}

	p, err := store.Get(context.Background(), "alice")
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if len(p.SeenLinks) != 0 {
		t.Error("rejected action must not mutate the profile")
	}
}

func TestHealthEndpoint(t *testing.T) {
	h, _ := newTestServer(t, &stubEmbedder{vec: []float32{1, 0, 0}})

	rec, resp := doJSON(t, h, http.MethodGet, "/api/v1/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data type = %T, want map", resp.Data)
	}
	if data["status"] != "healthy" {
		t.Errorf("status = %v, want healthy", data["status"])
	}
	if got, ok := data["total_items_loaded"].(float64); !ok || int(got) != 3 {
		t.Errorf("total_items_loaded = %v, want 3", data["total_items_loaded"])
	}
}

func TestHealthReadyEndpoint(t *testing.T) {
	tests := []struct {
		name     string
		embedder *stubEmbedder
		wantCode int
		ready    bool
	}{
		{
			name:     "embedder reachable",
			embedder: &stubEmbedder{vec: []float32{1, 0, 0}},
			wantCode: http.StatusOK,
			ready:    true,
		},
		{
			name:     "embedder down",
			embedder: &stubEmbedder{pingErr: errors.New("no route to host")},
			wantCode: http.StatusServiceUnavailable,
			ready:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestServer(t, tt.embedder)

			rec, resp := doJSON(t, h, http.MethodGet, "/api/v1/health/ready", nil)
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}

			data, ok := resp.Data.(map[string]interface{})
			if !ok {
				t.Fatalf("data type = %T, want map", resp.Data)
			}
			if data["ready_to_serve"] != tt.ready {
				t.Errorf("ready_to_serve = %v, want %v", data["ready_to_serve"], tt.ready)
			}
		})
	}
}
