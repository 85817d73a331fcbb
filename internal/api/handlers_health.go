// Campusmatch - Personalized Campus Opportunity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campusmatch

package api

import (
	"net/http"
	"time"
)

// Health handles GET /api/v1/health.
// The service is healthy when the corpus loaded at least one item; with an
// empty corpus it still serves requests but reports degraded.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	status := "healthy"
	if h.index.Len() == 0 {
		status = "degraded"
	}

	rw.Success(map[string]interface{}{
		"status":             status,
		"total_items_loaded": h.index.Len(),
		"uptime":             time.Since(h.startTime).String(),
	})
}

// HealthLive handles GET /api/v1/health/live.
// Liveness only proves the process responds; it never checks dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	rw.Success(map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).String(),
	})
}

// HealthReady handles GET /api/v1/health/ready.
// Readiness requires a non-empty corpus and a reachable embedding provider.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	corpusLoaded := h.index.Len() > 0
	embedderConnected := h.embedder.Ping(r.Context()) == nil
	ready := corpusLoaded && embedderConnected

	data := map[string]interface{}{
		"status":             "ready",
		"corpus_loaded":      corpusLoaded,
		"embedder_connected": embedderConnected,
		"ready_to_serve":     ready,
		"uptime":             time.Since(h.startTime).String(),
	}

	if !ready {
		data["status"] = "not_ready"
		rw.SuccessWithStatus(http.StatusServiceUnavailable, data)
		return
	}

	rw.Success(data)
}
