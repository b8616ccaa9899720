// Reelmatch - Panel-based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"reflect"
	"testing"

	"github.com/tomtom215/reelmatch/internal/ratings"
)

func TestRank(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
		dir    Direction
		want   []int
	}{
		{"descending", []float64{0, 0.2, 0.125}, Descending, []int{1, 2, 0}},
		{"ascending", []float64{0, 0.2, 0.125}, Ascending, []int{0, 2, 1}},
		{"ties keep panel order descending", []float64{0.5, 0.9, 0.5, 0.9}, Descending, []int{1, 3, 0, 2}},
		{"ties keep panel order ascending", []float64{0.5, 0.9, 0.5, 0.9}, Ascending, []int{0, 2, 1, 3}},
		{"negative correlations", []float64{-0.5, 0, 1, -1}, Descending, []int{2, 1, 0, 3}},
		{"empty", []float64{}, Descending, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Rank(tt.scores, tt.dir)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Rank(%v, %s) = %v, want %v", tt.scores, tt.dir, got, tt.want)
			}
		})
	}
}

func titles(rs []ratings.Rating) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Title
	}
	return out
}

func TestSelect(t *testing.T) {
	panel := ratings.Panel{
		{{Title: "Seen", Score: 9}},
		{{Title: "Low", Score: 7.99}, {Title: "Edge", Score: 8}, {Title: "Seen", Score: 10}, {Title: "Top", Score: 10}},
		{{Title: "Other", Score: 9}, {Title: "Edge", Score: 9}},
	}
	exclude := map[string]struct{}{"Seen": {}}

	tests := []struct {
		name  string
		order []int
		k     int
		want  []string
	}{
		{"walks users in order", []int{1, 2, 0}, 5, []string{"Edge", "Top", "Other", "Edge"}},
		{"stops at k", []int{1, 2, 0}, 2, []string{"Edge", "Top"}},
		{"reverse order", []int{0, 2, 1}, 5, []string{"Other", "Edge", "Edge", "Top"}},
		{"zero k", []int{1, 2, 0}, 0, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := titles(Select(panel, tt.order, exclude, GoodScoreThreshold, tt.k))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Select() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSelect_NeverBelowThresholdOrExcluded(t *testing.T) {
	panel := ratings.Panel{
		{{Title: "A", Score: 10}, {Title: "B", Score: 1}, {Title: "C", Score: 8}},
		{{Title: "D", Score: 9}, {Title: "E", Score: 7.5}, {Title: "F", Score: 8.5}},
		{{Title: "G", Score: 9}, {Title: "H", Score: 9}, {Title: "I", Score: 9}},
	}
	exclude := map[string]struct{}{"A": {}, "G": {}}

	got := Select(panel, []int{0, 1, 2}, exclude, GoodScoreThreshold, ProposalCount)
	if len(got) > ProposalCount {
		t.Fatalf("Select() returned %d ratings, want <= %d", len(got), ProposalCount)
	}
	for _, r := range got {
		if _, ok := exclude[r.Title]; ok {
			t.Errorf("Select() returned excluded title %q", r.Title)
		}
		if r.Score < GoodScoreThreshold {
			t.Errorf("Select() returned %q rated %v, below threshold", r.Title, r.Score)
		}
	}
	want := []string{"C", "D", "F", "H", "I"}
	if !reflect.DeepEqual(titles(got), want) {
		t.Errorf("Select() = %v, want %v", titles(got), want)
	}
}
