// Reelmatch - Panel-based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package panelcache

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/ratings"
)

// Badger implements Store on an embedded BadgerDB.
type Badger struct {
	db     *badger.DB
	logger zerolog.Logger
}

// OpenBadger opens (or creates) a cache directory at path.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func OpenBadger(path string, logger zerolog.Logger) (*Badger, error) {
	logger = logger.With().Str("component", "panelcache").Logger()

	opts := badger.DefaultOptions(path).
		WithLogger(badgerLogger{logger: logger}).
		WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open panel cache %s: %w", path, err)
	}

	return NewBadger(db, logger), nil
}

// NewBadger wraps an already open database. Close closes db.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBadger(db *badger.DB, logger zerolog.Logger) *Badger {
	return &Badger{db: db, logger: logger}
}

// Get implements Store.
func (b *Badger) Get(ctx context.Context, key string) (ratings.Panel, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	var data []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get panel: %w", err)
	}

	panel, err := Decode(data)
	if err != nil {
		return nil, false, err
	}
	return panel, true, nil
}

// Put implements Store.
func (b *Badger) Put(ctx context.Context, key string, panel ratings.Panel) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := Encode(panel)
	if err != nil {
		return err
	}

	return b.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(key), data); err != nil {
			return fmt.Errorf("set panel: %w", err)
		}
		return nil
	})
}

// Close implements Store.
func (b *Badger) Close() error {
	return b.db.Close()
}

// badgerLogger routes BadgerDB's internal logging through zerolog.
type badgerLogger struct {
	logger zerolog.Logger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error().Msgf(strings.TrimSpace(format), args...)
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn().Msgf(strings.TrimSpace(format), args...)
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info().Msgf(strings.TrimSpace(format), args...)
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug().Msgf(strings.TrimSpace(format), args...)
}
