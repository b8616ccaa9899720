// Reelmatch - Panel-based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import "fmt"

const (
	// GoodScoreThreshold is the minimum rating a movie needs to be proposed.
	GoodScoreThreshold = 8.0

	// ProposalCount is the number of movies proposed per list.
	ProposalCount = 5

	// maxWorkers caps parallel scoring.
	maxWorkers = 256
)

// Config contains configuration for the recommendation engine.
type Config struct {
	// Workers is the number of goroutines used to score users.
	// 1 scores sequentially.
	Workers int `json:"workers"`

	// MinScore is the minimum rating a movie needs to be proposed.
	MinScore float64 `json:"min_score"`

	// K is the number of movies proposed per list.
	K int `json:"k"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Workers:  1,
		MinScore: GoodScoreThreshold,
		K:        ProposalCount,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Workers < 1 || c.Workers > maxWorkers {
		return fmt.Errorf("workers must be in [1, %d], got %d", maxWorkers, c.Workers)
	}
	if c.MinScore < 0 || c.MinScore > 10 {
		return fmt.Errorf("min_score must be in [0, 10], got %v", c.MinScore)
	}
	if c.K < 1 {
		return fmt.Errorf("k must be >= 1, got %d", c.K)
	}
	return nil
}
