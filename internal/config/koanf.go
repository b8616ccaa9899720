// Reelmatch - Panel-based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/reelmatch/internal/recommend"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"reelmatch.yaml",
	"reelmatch.yml",
	"config.yaml",
	"config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Path:              "data.csv",
			DuplicateDistance: 1,
		},
		Cache: CacheConfig{
			Enabled: true,
			Path:    ".reelmatch-cache",
		},
		Translate: TranslateConfig{
			Enabled:       false, // needs a reachable translation endpoint
			URL:           "",
			APIKey:        "",
			Source:        "auto",
			Target:        "en",
			Timeout:       10 * time.Second,
			RatePerSecond: 5,
			Burst:         5,
		},
		Plot: PlotConfig{
			URL:           "https://www.omdbapi.com/",
			APIKey:        "",
			Timeout:       10 * time.Second,
			RatePerSecond: 10,
			Burst:         10,
		},
		Recommend: RecommendConfig{
			Workers:  1,
			MinScore: recommend.GoodScoreThreshold,
			K:        recommend.ProposalCount,
		},
		Metrics: MetricsConfig{
			TextfilePath: "",
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in defaults
//  2. Config File: Optional YAML config file (explicitPath, CONFIG_PATH, or DefaultConfigPaths)
//  3. Environment Variables: Override any setting
//
// An explicitPath that does not exist is an error. Missing default files are not.
func LoadWithKoanf(explicitPath string) (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	configPath, err := findConfigFile(explicitPath)
	if err != nil {
		return nil, err
	}
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the config file to load, or empty string if none.
func findConfigFile(explicitPath string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("config file %s: %w", explicitPath, err)
		}
		return explicitPath, nil
	}

	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath, nil
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", nil
}

// envMappings maps environment variable names (lowercased) to config paths.
var envMappings = map[string]string{
	// Data
	"reelmatch_data":               "data.path",
	"data_path":                    "data.path",
	"data_duplicate_distance":      "data.duplicate_distance",
	"reelmatch_duplicate_distance": "data.duplicate_distance",

	// Cache
	"cache_enabled": "cache.enabled",
	"cache_path":    "cache.path",

	// Translation
	"translate_enabled":         "translate.enabled",
	"translate_url":             "translate.url",
	"translate_api_key":         "translate.api_key",
	"translate_source":          "translate.source",
	"translate_target":          "translate.target",
	"translate_timeout":         "translate.timeout",
	"translate_rate_per_second": "translate.rate_per_second",
	"translate_burst":           "translate.burst",

	// Plot lookup (OMDb)
	"omdb_url":             "plot.url",
	"omdb_api_key":         "plot.api_key",
	"omdb_timeout":         "plot.timeout",
	"omdb_rate_per_second": "plot.rate_per_second",
	"omdb_burst":           "plot.burst",

	// Recommendation engine
	"recommend_workers":   "recommend.workers",
	"recommend_min_score": "recommend.min_score",
	"recommend_k":         "recommend.k",

	// Metrics
	"metrics_textfile_path": "metrics.textfile_path",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
// Variables without a mapping are ignored.
//
// Examples:
//   - OMDB_API_KEY -> plot.api_key
//   - TRANSLATE_URL -> translate.url
//   - LOG_LEVEL -> logging.level
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
