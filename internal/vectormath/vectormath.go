// Campusmatch - Personalized Campus Opportunity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campusmatch

// Package vectormath implements the embedding-vector primitives used by the
// ranking engine: L2 normalization, cosine similarity, and weighted blending.
//
// Vectors are []float32, matching what embedding providers return. Dot
// products and norms accumulate in float64 to limit rounding drift on
// high-dimensional vectors.
package vectormath

import (
	"errors"
	"math"
)

// ErrDimensionMismatch is returned when two vectors of different lengths are
// combined.
var ErrDimensionMismatch = errors.New("vector dimension mismatch")

// Normalize returns the unit-length version of vec.
// A zero vector (or empty vector) is returned unchanged: there is no
// meaningful direction to preserve and division by zero must be avoided.
func Normalize(vec []float32) []float32 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}

	norm := math.Sqrt(sum)
	if norm == 0 {
		return vec
	}

	out := make([]float32, len(vec))
	for i, v := range vec {
		out[i] = float32(float64(v) / norm)
	}
	return out
}

// CosineSimilarity computes the cosine of the angle between a and b.
// Returns ErrDimensionMismatch when lengths differ. If either vector has
// zero magnitude the similarity is 0.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, ErrDimensionMismatch
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// Blend computes the element-wise weighted average of old and new:
//
//	out[i] = (1-weight)*old[i] + weight*new[i]
//
// weight is the pull toward the new vector. Returns ErrDimensionMismatch
// when lengths differ. The result is not normalized; callers that need a
// unit vector should pass it through Normalize.
func Blend(old, new []float32, weight float64) ([]float32, error) {
	if len(old) != len(new) {
		return nil, ErrDimensionMismatch
	}

	out := make([]float32, len(old))
	for i := range old {
		out[i] = float32((1-weight)*float64(old[i]) + weight*float64(new[i]))
	}
	return out, nil
}
