// Reelmatch - Panel-based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
)

var (
	// ErrMalformedRating is returned when a rating cell is not a number.
	ErrMalformedRating = errors.New("malformed rating")

	// ErrMissingRating is returned when a row ends with a title that has no rating.
	ErrMissingRating = errors.New("missing rating")
)

// RawRating is a parsed but not yet canonicalized rating.
type RawRating struct {
	Title string
	Score float64
}

// Parse reads CSV rows of alternating title and rating cells. Each row is one
// user. A row ends at its first empty cell, so rows may have different
// lengths. Rows and columns in errors are 1-based.
func Parse(r io.Reader) ([][]RawRating, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]RawRating
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}

		row, err := parseRow(record, len(rows)+1)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func parseRow(record []string, line int) ([]RawRating, error) {
	row := make([]RawRating, 0, len(record)/2)

	var title string
	pending := false
	for col, cell := range record {
		cell = CleanCell(cell)
		if cell == "" {
			break
		}

		if !pending {
			title = cell
			pending = true
			continue
		}

		score, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d column %d: %q", ErrMalformedRating, line, col+1, cell)
		}
		row = append(row, RawRating{Title: title, Score: score})
		pending = false
	}

	if pending {
		return nil, fmt.Errorf("%w: row %d: title %q has no rating", ErrMissingRating, line, title)
	}
	return row, nil
}
