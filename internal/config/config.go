// Reelmatch - Panel-based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package config

import (
	"time"

	"github.com/tomtom215/reelmatch/internal/logging"
	"github.com/tomtom215/reelmatch/internal/recommend"
)

// Config holds all application configuration.
type Config struct {
	Data      DataConfig      `koanf:"data"`
	Cache     CacheConfig     `koanf:"cache"`
	Translate TranslateConfig `koanf:"translate"`
	Plot      PlotConfig      `koanf:"plot"`
	Recommend RecommendConfig `koanf:"recommend"`
	Metrics   MetricsConfig   `koanf:"metrics"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// DataConfig locates the rating panel.
type DataConfig struct {
	// Path is the CSV file with one row per user of alternating title, rating cells.
	Path string `koanf:"path" validate:"required"`

	// DuplicateDistance is the edit distance under which two different titles
	// are reported as probable duplicates. 0 disables the check.
	DuplicateDistance int `koanf:"duplicate_distance" validate:"gte=0,lte=5"`
}

// CacheConfig controls the persistent panel cache.
type CacheConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path" validate:"required_if=Enabled true"`
}

// TranslateConfig configures the title translation service.
// Any LibreTranslate-compatible endpoint works.
type TranslateConfig struct {
	Enabled       bool          `koanf:"enabled"`
	URL           string        `koanf:"url" validate:"omitempty,http_url"`
	APIKey        string        `koanf:"api_key"`
	Source        string        `koanf:"source" validate:"required"`
	Target        string        `koanf:"target" validate:"required"`
	Timeout       time.Duration `koanf:"timeout" validate:"gt=0"`
	RatePerSecond float64       `koanf:"rate_per_second" validate:"gt=0"`
	Burst         int           `koanf:"burst" validate:"min=1"`
}

// PlotConfig configures the OMDb plot lookup used when printing results.
// Lookups are skipped when APIKey is empty.
type PlotConfig struct {
	URL           string        `koanf:"url" validate:"required,http_url"`
	APIKey        string        `koanf:"api_key"`
	Timeout       time.Duration `koanf:"timeout" validate:"gt=0"`
	RatePerSecond float64       `koanf:"rate_per_second" validate:"gt=0"`
	Burst         int           `koanf:"burst" validate:"min=1"`
}

// RecommendConfig tunes the recommendation engine. MinScore and K default to
// recommend.GoodScoreThreshold and recommend.ProposalCount.
type RecommendConfig struct {
	Workers  int     `koanf:"workers" validate:"min=1,max=256"`
	MinScore float64 `koanf:"min_score" validate:"gte=0,lte=10"`
	K        int     `koanf:"k" validate:"min=1,max=100"`
}

// MetricsConfig controls metric export.
type MetricsConfig struct {
	// TextfilePath receives Prometheus text output at exit. Empty disables export.
	TextfilePath string `koanf:"textfile_path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"loglevel"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// EngineConfig converts the recommend section into an engine configuration.
func (c *Config) EngineConfig() *recommend.Config {
	return &recommend.Config{
		Workers:  c.Recommend.Workers,
		MinScore: c.Recommend.MinScore,
		K:        c.Recommend.K,
	}
}

// LoggingSettings converts the logging section into a logger configuration.
func (c *Config) LoggingSettings() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = c.Logging.Level
	cfg.Format = c.Logging.Format
	cfg.Caller = c.Logging.Caller
	return cfg
}
