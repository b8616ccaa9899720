// Reelmatch - Panel-based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package main

import (
	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/config"
	"github.com/tomtom215/reelmatch/internal/loader"
	"github.com/tomtom215/reelmatch/internal/panelcache"
	"github.com/tomtom215/reelmatch/internal/plot"
	"github.com/tomtom215/reelmatch/internal/recommend"
	"github.com/tomtom215/reelmatch/internal/translate"
)

// app holds the components built from configuration.
type app struct {
	cfg       *config.Config
	store     panelcache.Store
	loader    *loader.Loader
	engine    *recommend.Engine
	describer plot.Describer
	logger    zerolog.Logger
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func newApp(cfg *config.Config, logger zerolog.Logger) (*app, error) {
	engine, err := recommend.NewEngine(cfg.EngineConfig(), logger)
	if err != nil {
		return nil, err
	}

	var translator translate.Translator = translate.Noop{}
	if cfg.Translate.Enabled {
		client := translate.NewClient(translate.ClientConfig{
			URL:           cfg.Translate.URL,
			APIKey:        cfg.Translate.APIKey,
			Source:        cfg.Translate.Source,
			Target:        cfg.Translate.Target,
			Timeout:       cfg.Translate.Timeout,
			RatePerSecond: cfg.Translate.RatePerSecond,
			Burst:         cfg.Translate.Burst,
		}, logger)
		translator = translate.NewFallback(client, logger)
	}

	var store panelcache.Store = panelcache.Nop{}
	if cfg.Cache.Enabled {
		b, err := panelcache.OpenBadger(cfg.Cache.Path, logger)
		if err != nil {
			// The cache only saves work; run without it.
			logger.Warn().Err(err).Str("path", cfg.Cache.Path).Msg("Panel cache unavailable")
		} else {
			store = b
		}
	}

	var describer plot.Describer = plot.Disabled{}
	if cfg.Plot.APIKey != "" {
		describer = plot.NewOMDb(plot.OMDbConfig{
			URL:           cfg.Plot.URL,
			APIKey:        cfg.Plot.APIKey,
			Timeout:       cfg.Plot.Timeout,
			RatePerSecond: cfg.Plot.RatePerSecond,
			Burst:         cfg.Plot.Burst,
		}, logger)
	} else {
		logger.Debug().Msg("OMDb API key not set, plot lookups disabled")
	}

	// The cache key includes the target language only when titles are
	// actually translated.
	target := ""
	if cfg.Translate.Enabled {
		target = cfg.Translate.Target
	}

	return &app{
		cfg:   cfg,
		store: store,
		loader: loader.New(loader.Options{
			Translator:        translator,
			Store:             store,
			Target:            target,
			DuplicateDistance: cfg.Data.DuplicateDistance,
		}, logger),
		engine:    engine,
		describer: describer,
		logger:    logger,
	}, nil
}

// Close releases the panel cache.
func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Error().Err(err).Msg("Error closing panel cache")
	}
}
