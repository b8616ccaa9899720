// Reelmatch - Panel-based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package loader builds a rating panel from a CSV file.
//
// Each CSV row is one user; cells alternate between a movie title and the
// rating that user gave it. Titles are canonicalized and translated into the
// target language so that the same movie entered by different users compares
// equal. Finished panels are stored in a panelcache.Store keyed by the raw
// file contents.
package loader

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/metrics"
	"github.com/tomtom215/reelmatch/internal/panelcache"
	"github.com/tomtom215/reelmatch/internal/ratings"
	"github.com/tomtom215/reelmatch/internal/translate"
)

// Options configures a Loader. Nil collaborators default to translate.Noop
// and panelcache.Nop.
type Options struct {
	Translator translate.Translator
	Store      panelcache.Store

	// Target is the translation target language. It is part of the cache key.
	Target string

	// DuplicateDistance is the largest edit distance reported by the
	// near-duplicate title check. Zero disables it.
	DuplicateDistance int
}

// degradable is implemented by translators that can hand back an
// untranslated title instead of failing, such as translate.Fallback.
type degradable interface {
	Fallbacks() int64
}

// Loader reads panels from disk.
type Loader struct {
	translator  translate.Translator
	store       panelcache.Store
	target      string
	dupDistance int
	logger      zerolog.Logger
}

// New creates a Loader.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(opts Options, logger zerolog.Logger) *Loader {
	if opts.Translator == nil {
		opts.Translator = translate.Noop{}
	}
	if opts.Store == nil {
		opts.Store = panelcache.Nop{}
	}
	return &Loader{
		translator:  opts.Translator,
		store:       opts.Store,
		target:      opts.Target,
		dupDistance: opts.DuplicateDistance,
		logger:      logger.With().Str("component", "loader").Logger(),
	}
}

// Load reads the CSV file at path and returns its panel.
func (l *Loader) Load(ctx context.Context, path string) (ratings.Panel, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ratings file: %w", err)
	}
	return l.LoadBytes(ctx, raw)
}

// LoadBytes returns the panel for raw CSV data, using the cache when it
// already holds a valid entry for the same bytes and target language.
func (l *Loader) LoadBytes(ctx context.Context, raw []byte) (ratings.Panel, error) {
	start := time.Now()
	key := panelcache.Key(raw, l.target)

	if panel, ok := l.cached(ctx, key); ok {
		metrics.RecordPanelLoad("cache", panel.Len(), time.Since(start))
		l.logger.Debug().Int("users", panel.Len()).Msg("panel loaded from cache")
		return panel, nil
	}

	before := l.fallbacks()
	panel, err := l.build(ctx, raw)
	if err != nil {
		return nil, err
	}

	// Panels with untranslated titles are rebuilt next run, not cached.
	if degraded := l.fallbacks() - before; degraded > 0 {
		metrics.PanelCacheRequests.WithLabelValues("skipped").Inc()
		l.logger.Warn().
			Int64("untranslated", degraded).
			Msg("translation degraded, panel not cached")
	} else if err := l.store.Put(ctx, key, panel); err != nil {
		l.logger.Warn().Err(err).Msg("failed to store panel in cache")
	}

	metrics.RecordPanelLoad("csv", panel.Len(), time.Since(start))
	l.logger.Debug().
		Int("users", panel.Len()).
		Dur("duration", time.Since(start)).
		Msg("panel loaded from csv")
	return panel, nil
}

// cached returns a valid cached panel. Any cache problem is logged and
// treated as a miss.
func (l *Loader) cached(ctx context.Context, key string) (ratings.Panel, bool) {
	panel, ok, err := l.store.Get(ctx, key)
	switch {
	case err != nil:
		metrics.PanelCacheRequests.WithLabelValues("error").Inc()
		l.logger.Warn().Err(err).Msg("panel cache read failed, loading from csv")
		return nil, false
	case !ok:
		metrics.PanelCacheRequests.WithLabelValues("miss").Inc()
		return nil, false
	}

	if err := panel.Validate(); err != nil {
		metrics.PanelCacheRequests.WithLabelValues("error").Inc()
		l.logger.Warn().Err(err).Msg("cached panel is invalid, loading from csv")
		return nil, false
	}

	metrics.PanelCacheRequests.WithLabelValues("hit").Inc()
	return panel, true
}

func (l *Loader) fallbacks() int64 {
	if d, ok := l.translator.(degradable); ok {
		return d.Fallbacks()
	}
	return 0
}

func (l *Loader) build(ctx context.Context, raw []byte) (ratings.Panel, error) {
	rows, err := Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}

	panel := make(ratings.Panel, len(rows))
	for u, row := range rows {
		profile := make(ratings.Profile, len(row))
		for j, r := range row {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			title, err := l.translator.Translate(ctx, CanonicalTitle(r.Title))
			if err != nil {
				return nil, fmt.Errorf("translate %q: %w", r.Title, err)
			}
			profile[j] = ratings.Rating{Title: title, Score: r.Score}
		}
		panel[u] = profile
	}

	if err := panel.Validate(); err != nil {
		return nil, err
	}

	for _, d := range FindNearDuplicates(panel, l.dupDistance) {
		l.logger.Warn().
			Str("title", d.A).
			Str("similar_to", d.B).
			Int("distance", d.Distance).
			Msg("possible duplicate title spelling")
	}

	return panel, nil
}
