// Reelmatch - Panel-based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package panelcache stores fully loaded rating panels so that repeated runs
// over the same data skip canonicalization and translation.
//
// Entries are keyed by a hash of the raw source bytes and the translation
// target, so different datasets never share an entry and an edited CSV is
// picked up on the next run.
package panelcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/tomtom215/reelmatch/internal/ratings"
)

// keyPrefix namespaces panel entries in the store.
const keyPrefix = "panel:"

// ErrMalformedEntry is returned when a stored value cannot be decoded into a panel.
var ErrMalformedEntry = errors.New("malformed cache entry")

// Store caches panels by key.
type Store interface {
	// Get returns the cached panel and true, or false when the key is absent.
	Get(ctx context.Context, key string) (ratings.Panel, bool, error)

	// Put stores panel under key, replacing any previous entry.
	Put(ctx context.Context, key string, panel ratings.Panel) error

	Close() error
}

// Key derives the cache key for raw source data translated to target.
func Key(raw []byte, target string) string {
	h := sha256.New()
	h.Write(raw)
	h.Write([]byte{0})
	h.Write([]byte(target))
	return keyPrefix + hex.EncodeToString(h.Sum(nil))
}

// Nop never caches anything.
type Nop struct{}

// Get implements Store.
func (Nop) Get(context.Context, string) (ratings.Panel, bool, error) {
	return nil, false, nil
}

// Put implements Store.
func (Nop) Put(context.Context, string, ratings.Panel) error {
	return nil
}

// Close implements Store.
func (Nop) Close() error {
	return nil
}

// Encode serializes a panel as nested [title, rating] pairs:
//
//	[[["Heat", 7.5], ["Up", 9]], [["Alien", 8]]]
func Encode(panel ratings.Panel) ([]byte, error) {
	rows := make([][][2]interface{}, len(panel))
	for u, profile := range panel {
		row := make([][2]interface{}, len(profile))
		for j, r := range profile {
			row[j] = [2]interface{}{r.Title, r.Score}
		}
		rows[u] = row
	}

	data, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("marshal panel: %w", err)
	}
	return data, nil
}

// Decode parses the format written by Encode.
func Decode(data []byte) (ratings.Panel, error) {
	var rows [][][]interface{}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEntry, err)
	}

	panel := make(ratings.Panel, len(rows))
	for u, row := range rows {
		profile := make(ratings.Profile, len(row))
		for j, pair := range row {
			if len(pair) != 2 {
				return nil, fmt.Errorf("%w: user %d rating %d has %d fields", ErrMalformedEntry, u, j, len(pair))
			}
			title, ok := pair[0].(string)
			if !ok {
				return nil, fmt.Errorf("%w: user %d rating %d title is %T", ErrMalformedEntry, u, j, pair[0])
			}
			score, ok := pair[1].(float64)
			if !ok {
				return nil, fmt.Errorf("%w: user %d rating %d score is %T", ErrMalformedEntry, u, j, pair[1])
			}
			profile[j] = ratings.Rating{Title: title, Score: score}
		}
		panel[u] = profile
	}

	return panel, nil
}
