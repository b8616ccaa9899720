// Reelmatch - Panel-based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/ratings"
)

func newTestEngine(t *testing.T, cfg *Config) *Engine {
	t.Helper()
	engine, err := NewEngine(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return engine
}

func toyPanel() ratings.Panel {
	return ratings.Panel{
		{{Title: "A", Score: 9}, {Title: "B", Score: 7}},
		{{Title: "A", Score: 9}, {Title: "B", Score: 3}},
		{{Title: "A", Score: 2}, {Title: "C", Score: 8}},
	}
}

// largePanel builds a deterministic panel with overlapping titles.
func largePanel(users, perUser int) ratings.Panel {
	panel := make(ratings.Panel, users)
	for u := 0; u < users; u++ {
		profile := make(ratings.Profile, perUser)
		for j := 0; j < perUser; j++ {
			title := fmt.Sprintf("Movie %d", (u*7+j*3)%40)
			score := float64((u*13+j*5)%11) * 1.0
			profile[j] = ratings.Rating{Title: title, Score: score}
		}
		panel[u] = profile
	}
	return panel
}

func TestNewEngine_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
	}{
		{"zero workers", &Config{Workers: 0, MinScore: 8, K: 5}},
		{"too many workers", &Config{Workers: 1000, MinScore: 8, K: 5}},
		{"negative min score", &Config{Workers: 1, MinScore: -1, K: 5}},
		{"zero k", &Config{Workers: 1, MinScore: 8, K: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewEngine(tt.cfg, zerolog.Nop()); err == nil {
				t.Error("NewEngine() error = nil, want error")
			}
		})
	}
}

func TestNewEngine_NilConfigUsesDefaults(t *testing.T) {
	engine := newTestEngine(t, nil)
	if engine.Config().K != ProposalCount {
		t.Errorf("Config().K = %d, want %d", engine.Config().K, ProposalCount)
	}
	if engine.Config().MinScore != GoodScoreThreshold {
		t.Errorf("Config().MinScore = %v, want %v", engine.Config().MinScore, GoodScoreThreshold)
	}
}

func TestEngine_Recommend_ToyPanel(t *testing.T) {
	engine := newTestEngine(t, nil)

	res, err := engine.Recommend(context.Background(), toyPanel(), Request{Target: 0, Algorithm: Euclidean})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	wantScores := []float64{0, 0.2, 0.125}
	for i, want := range wantScores {
		if !almostEqual(res.Scores[i], want) {
			t.Errorf("Scores[%d] = %v, want %v", i, res.Scores[i], want)
		}
	}

	// User 1 is most similar but has nothing unseen rated >= 8.
	// User 2 follows and contributes C.
	if got := titles(res.Recommended); !reflect.DeepEqual(got, []string{"C"}) {
		t.Errorf("Recommended = %v, want [C]", got)
	}
	if len(res.Avoid) != 0 {
		t.Errorf("Avoid = %v, want empty", titles(res.Avoid))
	}
	if res.Metadata.Algorithm != "euclidean" || res.Metadata.Users != 3 {
		t.Errorf("Metadata = %+v, want algorithm euclidean and 3 users", res.Metadata)
	}
	if res.Metadata.RequestID == "" {
		t.Error("Metadata.RequestID is empty, want generated ID")
	}
}

func TestEngine_Recommend_NoEligibleMovies(t *testing.T) {
	engine := newTestEngine(t, nil)
	panel := ratings.Panel{
		{{Title: "A", Score: 9}, {Title: "B", Score: 7}},
		{{Title: "A", Score: 9}, {Title: "B", Score: 3}},
		{{Title: "A", Score: 2}, {Title: "C", Score: 7.9}},
	}

	res, err := engine.Recommend(context.Background(), panel, Request{Target: 0, Algorithm: Euclidean})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(res.Recommended) != 0 || len(res.Avoid) != 0 {
		t.Errorf("Recommended = %v, Avoid = %v, want both empty", titles(res.Recommended), titles(res.Avoid))
	}
}

func TestEngine_Recommend_Errors(t *testing.T) {
	engine := newTestEngine(t, nil)
	ctx := context.Background()

	tests := []struct {
		name    string
		panel   ratings.Panel
		req     Request
		wantErr error
	}{
		{"index equals length", toyPanel(), Request{Target: 3, Algorithm: Euclidean}, ratings.ErrTargetOutOfRange},
		{"negative index", toyPanel(), Request{Target: -1, Algorithm: Pearson}, ratings.ErrTargetOutOfRange},
		{"unknown algorithm", toyPanel(), Request{Target: 0, Algorithm: Algorithm(99)}, ErrUnknownAlgorithm},
		{"zero algorithm", toyPanel(), Request{Target: 0}, ErrUnknownAlgorithm},
		{"nan rating", ratings.Panel{{{Title: "A", Score: 9}}, {{Title: "A", Score: math.NaN()}}}, Request{Target: 0, Algorithm: Pearson}, ratings.ErrInvalidScore},
		{"empty panel", ratings.Panel{}, Request{Target: 0, Algorithm: Euclidean}, ratings.ErrTargetOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := engine.Recommend(ctx, tt.panel, tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Recommend() error = %v, want %v", err, tt.wantErr)
			}
			if res != nil {
				t.Errorf("Recommend() result = %+v, want nil on error", res)
			}
		})
	}
}

func TestEngine_Recommend_Invariants(t *testing.T) {
	engine := newTestEngine(t, nil)
	panel := largePanel(30, 12)

	for _, alg := range Algorithms() {
		for target := 0; target < panel.Len(); target++ {
			res, err := engine.Recommend(context.Background(), panel, Request{Target: target, Algorithm: alg})
			if err != nil {
				t.Fatalf("Recommend(%d, %s) error = %v", target, alg, err)
			}

			if res.Scores[target] != 0 {
				t.Errorf("Scores[%d] = %v, want 0 for target", target, res.Scores[target])
			}
			if len(res.Recommended) > ProposalCount || len(res.Avoid) > ProposalCount {
				t.Errorf("target %d: list sizes %d/%d exceed %d", target, len(res.Recommended), len(res.Avoid), ProposalCount)
			}

			seen := panel[target].Titles()
			recommended := make(map[string]struct{})
			for _, r := range res.Recommended {
				if _, ok := seen[r.Title]; ok {
					t.Errorf("target %d: recommended already rated title %q", target, r.Title)
				}
				if r.Score < GoodScoreThreshold {
					t.Errorf("target %d: recommended %q rated %v", target, r.Title, r.Score)
				}
				recommended[r.Title] = struct{}{}
			}
			for _, r := range res.Avoid {
				if _, ok := seen[r.Title]; ok {
					t.Errorf("target %d: avoid lists already rated title %q", target, r.Title)
				}
				if _, ok := recommended[r.Title]; ok {
					t.Errorf("target %d: %q is in both lists", target, r.Title)
				}
			}
		}
	}
}

func TestEngine_Scores_ParallelMatchesSequential(t *testing.T) {
	panel := largePanel(101, 15)
	sequential := newTestEngine(t, &Config{Workers: 1, MinScore: GoodScoreThreshold, K: ProposalCount})
	parallel := newTestEngine(t, &Config{Workers: 8, MinScore: GoodScoreThreshold, K: ProposalCount})
	ctx := context.Background()

	for _, alg := range Algorithms() {
		t.Run(alg.String(), func(t *testing.T) {
			want, err := sequential.Scores(ctx, panel, 17, alg)
			if err != nil {
				t.Fatalf("sequential Scores() error = %v", err)
			}
			got, err := parallel.Scores(ctx, panel, 17, alg)
			if err != nil {
				t.Fatalf("parallel Scores() error = %v", err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("parallel Scores() differs from sequential")
			}
		})
	}
}

func TestEngine_Scores_MoreWorkersThanUsers(t *testing.T) {
	engine := newTestEngine(t, &Config{Workers: 16, MinScore: GoodScoreThreshold, K: ProposalCount})

	scores, err := engine.Scores(context.Background(), toyPanel(), 0, Euclidean)
	if err != nil {
		t.Fatalf("Scores() error = %v", err)
	}
	if len(scores) != 3 || !almostEqual(scores[1], 0.2) || !almostEqual(scores[2], 0.125) {
		t.Errorf("Scores() = %v, want [0 0.2 0.125]", scores)
	}
}

func TestEngine_Scores_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, workers := range []int{1, 4} {
		engine := newTestEngine(t, &Config{Workers: workers, MinScore: GoodScoreThreshold, K: ProposalCount})
		if _, err := engine.Scores(ctx, largePanel(10, 5), 0, Pearson); !errors.Is(err, context.Canceled) {
			t.Errorf("Scores() with %d workers error = %v, want context.Canceled", workers, err)
		}
	}
}

func TestEngine_Recommend_CustomK(t *testing.T) {
	engine := newTestEngine(t, &Config{Workers: 1, MinScore: 5, K: 2})
	panel := ratings.Panel{
		{{Title: "A", Score: 9}},
		{{Title: "A", Score: 9}, {Title: "B", Score: 6}, {Title: "C", Score: 5}, {Title: "D", Score: 10}},
	}

	res, err := engine.Recommend(context.Background(), panel, Request{Target: 0, Algorithm: Euclidean})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if got := titles(res.Recommended); !reflect.DeepEqual(got, []string{"B", "C"}) {
		t.Errorf("Recommended = %v, want [B C]", got)
	}
	if got := titles(res.Avoid); !reflect.DeepEqual(got, []string{"D"}) {
		t.Errorf("Avoid = %v, want [D]", got)
	}
}
