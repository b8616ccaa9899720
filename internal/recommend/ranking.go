// Reelmatch - Panel-based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"sort"

	"github.com/tomtom215/reelmatch/internal/ratings"
)

// Direction orders users for a selection pass.
type Direction int

const (
	// Descending puts the most similar users first (recommend pass).
	Descending Direction = iota

	// Ascending puts the least similar users first (avoid pass).
	Ascending
)

// String returns a readable name for the direction.
func (d Direction) String() string {
	if d == Ascending {
		return "ascending"
	}
	return "descending"
}

// Rank returns panel indices ordered by score in the given direction.
// The sort is stable: users with equal scores keep their panel order.
func Rank(scores []float64, dir Direction) []int {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}

	sort.SliceStable(order, func(a, b int) bool {
		sa, sb := scores[order[a]], scores[order[b]]
		if dir == Ascending {
			return sa < sb
		}
		return sa > sb
	})

	return order
}

// Select walks users in order, and each user's ratings in profile order,
// picking every rating whose title is not excluded and whose score is at least
// minScore. It stops as soon as k ratings are picked.
//
// Picks are not added to exclude during the walk, so a title rated highly by
// two users in the walk can be picked twice.
func Select(panel ratings.Panel, order []int, exclude map[string]struct{}, minScore float64, k int) []ratings.Rating {
	picked := make([]ratings.Rating, 0, k)
	if k <= 0 {
		return picked
	}

	for _, u := range order {
		for _, r := range panel[u] {
			if _, skip := exclude[r.Title]; skip {
				continue
			}
			if r.Score < minScore {
				continue
			}
			picked = append(picked, r)
			if len(picked) == k {
				return picked
			}
		}
	}

	return picked
}
