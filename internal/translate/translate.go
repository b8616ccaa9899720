// Reelmatch - Panel-based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package translate turns movie titles written in any language into the
// target language before they are compared across users.
package translate

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/metrics"
)

// Translator translates a single title.
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

// Noop returns every title unchanged. It is used when translation is disabled.
type Noop struct{}

// Translate implements Translator.
func (Noop) Translate(_ context.Context, text string) (string, error) {
	return text, nil
}

// Fallback wraps a Translator so that a failed translation keeps the
// original title instead of failing the load. Results are memoized for the
// lifetime of the Fallback because the same title usually appears in many
// profiles.
type Fallback struct {
	inner  Translator
	logger zerolog.Logger

	mu   sync.Mutex
	memo map[string]string

	fallbacks atomic.Int64
}

// NewFallback wraps inner.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewFallback(inner Translator, logger zerolog.Logger) *Fallback {
	return &Fallback{
		inner:  inner,
		logger: logger.With().Str("component", "translate").Logger(),
		memo:   make(map[string]string),
	}
}

// Translate implements Translator. It never returns an error.
func (f *Fallback) Translate(ctx context.Context, text string) (string, error) {
	f.mu.Lock()
	if out, ok := f.memo[text]; ok {
		f.mu.Unlock()
		return out, nil
	}
	f.mu.Unlock()

	out, err := f.inner.Translate(ctx, text)
	if err != nil || out == "" {
		f.fallbacks.Add(1)
		metrics.TranslationRequests.WithLabelValues("fallback").Inc()
		f.logger.Warn().Err(err).Str("title", text).Msg("translation failed, keeping original title")
		// Failures are not memoized so a later call can still succeed.
		return text, nil
	}
	metrics.TranslationRequests.WithLabelValues("success").Inc()

	f.mu.Lock()
	f.memo[text] = out
	f.mu.Unlock()

	return out, nil
}

// Fallbacks returns how many titles were returned untranslated so far.
func (f *Fallback) Fallbacks() int64 {
	return f.fallbacks.Load()
}
