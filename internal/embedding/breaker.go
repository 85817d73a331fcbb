// Campusmatch - Personalized Campus Opportunity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campusmatch

package embedding

import (
	"context"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/campusmatch/internal/logging"
)

// BreakerConfig tunes the embedding circuit breaker.
type BreakerConfig struct {
	// FailureThreshold is the number of consecutive failures that opens the
	// circuit.
	FailureThreshold uint32

	// Timeout is how long the circuit stays open before allowing a probe.
	Timeout time.Duration

	// MaxRequests is the number of probe requests allowed while half-open.
	MaxRequests uint32
}

// DefaultBreakerConfig returns production defaults.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		FailureThreshold: 5,
		Timeout:          30 * time.Second,
		MaxRequests:      1,
	}
}

// Breaker wraps an Embedder with a circuit breaker so a failing provider
// fails fast instead of stalling every recommendation request on its
// timeout. When the circuit is open, callers get gobreaker.ErrOpenState
// immediately.
type Breaker struct {
	inner Embedder
	cb    *gobreaker.CircuitBreaker[[]float32]
}

// NewBreaker wraps inner with circuit-breaking per cfg.
func NewBreaker(inner Embedder, cfg BreakerConfig) *Breaker {
	if cfg.FailureThreshold == 0 {
		cfg = DefaultBreakerConfig()
	}

	settings := gobreaker.Settings{
		Name:        "embedding",
		MaxRequests: cfg.MaxRequests,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("component", "embedding").
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Embedding circuit breaker state change")
		},
	}

	return &Breaker{
		inner: inner,
		cb:    gobreaker.NewCircuitBreaker[[]float32](settings),
	}
}

// Embed runs the wrapped embedder through the circuit breaker.
func (b *Breaker) Embed(ctx context.Context, text string) ([]float32, error) {
	return b.cb.Execute(func() ([]float32, error) {
		return b.inner.Embed(ctx, text)
	})
}

// Ping bypasses the breaker: probes should report real provider state even
// while the circuit is open.
func (b *Breaker) Ping(ctx context.Context) error {
	return b.inner.Ping(ctx)
}
