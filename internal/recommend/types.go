// Reelmatch - Panel-based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"time"

	"github.com/tomtom215/reelmatch/internal/ratings"
)

// Request identifies the target user and the similarity algorithm.
type Request struct {
	// Target is the panel index of the user to recommend for.
	Target int

	// Algorithm selects the similarity measure.
	Algorithm Algorithm

	// RequestID is used for log correlation. Generated when empty.
	RequestID string
}

// Result holds the two proposal lists and the similarity vector they were
// derived from.
type Result struct {
	// Recommended is the recommend pass output, at most K ratings.
	Recommended []ratings.Rating

	// Avoid is the avoid pass output, at most K ratings. Titles never
	// overlap with Recommended.
	Avoid []ratings.Rating

	// Scores is aligned with the panel. Scores[Target] is always 0.
	Scores []float64

	Metadata Metadata
}

// Metadata describes how a result was produced.
type Metadata struct {
	RequestID string
	Target    int
	Algorithm string
	Users     int
	Latency   time.Duration
}
