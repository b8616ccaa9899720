// Reelmatch - Panel-based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package loader

import (
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/tomtom215/reelmatch/internal/ratings"
)

// NearDuplicate is a pair of distinct titles that are probably the same movie.
type NearDuplicate struct {
	A, B     string
	Distance int
}

// FindNearDuplicates returns title pairs whose edit distance is between 1 and
// maxDistance. Titles are compared in first-seen order. A maxDistance below 1
// disables the check.
func FindNearDuplicates(panel ratings.Panel, maxDistance int) []NearDuplicate {
	if maxDistance < 1 {
		return nil
	}

	titles := panel.Titles()
	var out []NearDuplicate
	for i := 0; i < len(titles); i++ {
		for j := i + 1; j < len(titles); j++ {
			a, b := titles[i], titles[j]
			if abs(utf8.RuneCountInString(a)-utf8.RuneCountInString(b)) > maxDistance {
				continue
			}
			d := levenshtein.ComputeDistance(a, b)
			if d >= 1 && d <= maxDistance {
				out = append(out, NearDuplicate{A: a, B: b, Distance: d})
			}
		}
	}
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
