// Reelmatch - Panel-based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/metrics"
	"github.com/tomtom215/reelmatch/internal/ratings"
)

// Engine produces recommend and avoid lists for a user of a panel.
// It is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger
}

// NewEngine creates a new recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Engine{
		config: cfg,
		logger: logger.With().Str("component", "recommend").Logger(),
	}, nil
}

// Recommend runs both selection passes for req.Target.
//
// The target index and algorithm are checked before any scoring, and the
// panel is validated so that a non-finite rating can never reach the math.
func (e *Engine) Recommend(ctx context.Context, panel ratings.Panel, req Request) (*Result, error) {
	start := time.Now()

	if req.RequestID == "" {
		req.RequestID = uuid.New().String()
	}
	if !req.Algorithm.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAlgorithm, req.Algorithm)
	}
	if err := panel.CheckIndex(req.Target); err != nil {
		return nil, err
	}
	if err := panel.Validate(); err != nil {
		return nil, fmt.Errorf("invalid panel: %w", err)
	}

	logger := e.logger.With().
		Str("request_id", req.RequestID).
		Int("target", req.Target).
		Str("algorithm", req.Algorithm.String()).
		Logger()
	logger.Debug().Int("users", panel.Len()).Msg("scoring panel")

	scores, err := e.Scores(ctx, panel, req.Target, req.Algorithm)
	if err != nil {
		return nil, fmt.Errorf("score panel: %w", err)
	}
	metrics.RecommendScoringDuration.WithLabelValues(req.Algorithm.String()).Observe(time.Since(start).Seconds())

	exclude := panel[req.Target].Titles()
	recommended := Select(panel, Rank(scores, Descending), exclude, e.config.MinScore, e.config.K)

	for _, r := range recommended {
		exclude[r.Title] = struct{}{}
	}
	avoid := Select(panel, Rank(scores, Ascending), exclude, e.config.MinScore, e.config.K)

	metrics.RecommendSelections.WithLabelValues("recommend").Add(float64(len(recommended)))
	metrics.RecommendSelections.WithLabelValues("avoid").Add(float64(len(avoid)))

	latency := time.Since(start)
	logger.Debug().
		Int("recommended", len(recommended)).
		Int("avoid", len(avoid)).
		Dur("latency", latency).
		Msg("recommendation complete")

	return &Result{
		Recommended: recommended,
		Avoid:       avoid,
		Scores:      scores,
		Metadata: Metadata{
			RequestID: req.RequestID,
			Target:    req.Target,
			Algorithm: req.Algorithm.String(),
			Users:     panel.Len(),
			Latency:   latency,
		},
	}, nil
}

// Scores returns the similarity vector of every panel user against target.
// The target's own slot is 0.
//
// With more than one worker the panel is split into contiguous chunks and
// each worker writes only the slots of its chunk.
func (e *Engine) Scores(ctx context.Context, panel ratings.Panel, target int, alg Algorithm) ([]float64, error) {
	if err := panel.CheckIndex(target); err != nil {
		return nil, err
	}

	scores := make([]float64, panel.Len())
	self := panel[target]

	scoreRange := func(start, end int) {
		for u := start; u < end; u++ {
			if u == target {
				continue
			}
			scores[u] = Score(self, panel[u], alg)
		}
	}

	workers := e.config.Workers
	if workers > panel.Len() {
		workers = panel.Len()
	}

	if workers <= 1 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		scoreRange(0, panel.Len())
		metrics.RecommendUsersScored.Add(float64(panel.Len() - 1))
		return scores, nil
	}

	var wg sync.WaitGroup
	chunkSize := (panel.Len() + workers - 1) / workers

	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > panel.Len() {
			end = panel.Len()
		}
		if start >= end {
			continue
		}
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, err
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			scoreRange(start, end)
		}(start, end)
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	metrics.RecommendUsersScored.Add(float64(panel.Len() - 1))
	return scores, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() *Config {
	return e.config
}
