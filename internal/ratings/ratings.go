// Reelmatch - Panel-based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package ratings holds the in-memory rating panel: the users, the movies
// each of them rated, and the scores they gave.
//
// A Panel is built once by the loader and is read-only afterwards, so it can
// be shared across scoring goroutines without locking.
package ratings

import (
	"errors"
	"fmt"
	"math"
)

// Score bounds for a single rating.
const (
	MinScore = 0.0
	MaxScore = 10.0
)

var (
	// ErrInvalidScore is returned when a rating is NaN, infinite, or outside [MinScore, MaxScore].
	ErrInvalidScore = errors.New("invalid rating score")

	// ErrTargetOutOfRange is returned when a user index does not address a panel member.
	ErrTargetOutOfRange = errors.New("user index out of range")

	// ErrEmptyPanel is returned when a panel has no users.
	ErrEmptyPanel = errors.New("rating panel is empty")
)

// Rating is one (title, score) pair given by a user.
// Titles are expected to be canonicalized before they reach this package.
type Rating struct {
	Title string  `json:"title"`
	Score float64 `json:"score"`
}

// Profile is the ordered list of ratings given by one user.
// The same title may appear more than once.
type Profile []Rating

// ByTitle returns a title-keyed view of the profile.
// When a title is repeated the last occurrence wins.
func (p Profile) ByTitle() map[string]float64 {
	m := make(map[string]float64, len(p))
	for _, r := range p {
		m[r.Title] = r.Score
	}
	return m
}

// Titles returns the set of titles rated in the profile.
func (p Profile) Titles() map[string]struct{} {
	set := make(map[string]struct{}, len(p))
	for _, r := range p {
		set[r.Title] = struct{}{}
	}
	return set
}

// Panel is the ordered collection of user profiles. A user is identified by
// its index in the panel.
type Panel []Profile

// Len returns the number of users in the panel.
func (p Panel) Len() int {
	return len(p)
}

// CheckIndex reports whether i addresses a member of the panel.
func (p Panel) CheckIndex(i int) error {
	if i < 0 || i >= len(p) {
		return fmt.Errorf("%w: %d (panel has %d users)", ErrTargetOutOfRange, i, len(p))
	}
	return nil
}

// Validate rejects empty panels and scores that are not finite numbers in
// [MinScore, MaxScore].
func (p Panel) Validate() error {
	if len(p) == 0 {
		return ErrEmptyPanel
	}
	for u, profile := range p {
		for j, r := range profile {
			if err := CheckScore(r.Score); err != nil {
				return fmt.Errorf("user %d rating %d (%q): %w", u, j, r.Title, err)
			}
		}
	}
	return nil
}

// Titles returns every distinct title in the panel in first-seen order.
func (p Panel) Titles() []string {
	seen := make(map[string]struct{})
	var titles []string
	for _, profile := range p {
		for _, r := range profile {
			if _, ok := seen[r.Title]; ok {
				continue
			}
			seen[r.Title] = struct{}{}
			titles = append(titles, r.Title)
		}
	}
	return titles
}

// CheckScore validates a single score.
func CheckScore(score float64) error {
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return fmt.Errorf("%w: %v is not a finite number", ErrInvalidScore, score)
	}
	if score < MinScore || score > MaxScore {
		return fmt.Errorf("%w: %v outside [%v, %v]", ErrInvalidScore, score, MinScore, MaxScore)
	}
	return nil
}
