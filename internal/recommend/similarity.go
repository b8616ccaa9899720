// Reelmatch - Panel-based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/tomtom215/reelmatch/internal/ratings"
)

// ErrUnknownAlgorithm is returned when an algorithm key is not recognized.
var ErrUnknownAlgorithm = errors.New("unknown similarity algorithm")

// Algorithm selects the similarity measure used to compare two users.
type Algorithm int

const (
	// Euclidean scores users by inverse Euclidean distance of shared ratings.
	Euclidean Algorithm = iota + 1

	// Pearson scores users by the Pearson correlation of shared ratings.
	Pearson
)

// String returns the configuration key of the algorithm.
func (a Algorithm) String() string {
	switch a {
	case Euclidean:
		return "euclidean"
	case Pearson:
		return "pearson"
	default:
		return fmt.Sprintf("algorithm(%d)", int(a))
	}
}

// Valid reports whether a is one of the defined algorithms.
func (a Algorithm) Valid() bool {
	return a == Euclidean || a == Pearson
}

// Algorithms returns every supported algorithm in a stable order.
func Algorithms() []Algorithm {
	return []Algorithm{Euclidean, Pearson}
}

// AlgorithmNames returns the configuration keys of every supported algorithm.
func AlgorithmNames() []string {
	algs := Algorithms()
	names := make([]string, len(algs))
	for i, a := range algs {
		names[i] = a.String()
	}
	return names
}

// ParseAlgorithm maps a configuration key to an Algorithm.
// Matching ignores case and surrounding whitespace. There is no fallback:
// any other key is an error.
func ParseAlgorithm(s string) (Algorithm, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for _, a := range Algorithms() {
		if a.String() == key {
			return a, nil
		}
	}
	return 0, fmt.Errorf("%w: %q (expected one of: %s)", ErrUnknownAlgorithm, s, strings.Join(AlgorithmNames(), ", "))
}

// Score returns the similarity of other to self under alg.
//
// Only titles rated by both users take part. Self is looked up by title
// (last rating wins for repeated titles) while other is walked in order, so a
// title repeated in other counts once per occurrence.
//
// Callers must pass an algorithm for which Valid reports true, normally one
// returned by ParseAlgorithm. Any other value scores 0 for every pair.
func Score(self, other ratings.Profile, alg Algorithm) float64 {
	switch alg {
	case Euclidean:
		return euclidean(self, other)
	case Pearson:
		return pearson(self, other)
	default:
		return 0
	}
}

// euclidean returns 1 / (1 + sqrt(sum of squared differences)).
func euclidean(self, other ratings.Profile) float64 {
	target := self.ByTitle()

	var sum float64
	shared := 0
	for _, r := range other {
		x, ok := target[r.Title]
		if !ok {
			continue
		}
		d := r.Score - x
		sum += d * d
		shared++
	}

	if shared == 0 {
		return 0
	}
	return 1 / (1 + math.Sqrt(sum))
}

// pearson returns the Pearson correlation of the shared ratings using the
// single-pass sums formulation.
func pearson(self, other ratings.Profile) float64 {
	target := self.ByTitle()

	var n, sumX, sumY, sumX2, sumY2, sumXY float64
	for _, r := range other {
		x, ok := target[r.Title]
		if !ok {
			continue
		}
		y := r.Score
		n++
		sumX += x
		sumY += y
		sumX2 += x * x
		sumY2 += y * y
		sumXY += x * y
	}

	if n == 0 {
		return 0
	}

	sxy := sumXY - sumX*sumY/n
	sxx := sumX2 - sumX*sumX/n
	syy := sumY2 - sumY*sumY/n

	// Rounding can push a zero variance slightly negative.
	denom := sxx * syy
	if denom <= 0 {
		return 0
	}
	return math.Max(-1, math.Min(1, sxy/math.Sqrt(denom)))
}
