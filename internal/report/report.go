// Reelmatch - Panel-based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package report prints recommendation results for a terminal.
package report

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/tomtom215/reelmatch/internal/plot"
	"github.com/tomtom215/reelmatch/internal/ratings"
	"github.com/tomtom215/reelmatch/internal/recommend"
)

// Printer writes results with a description for every title.
type Printer struct {
	w         io.Writer
	describer plot.Describer
}

// NewPrinter creates a Printer. A nil describer prints the placeholder for
// every title.
func NewPrinter(w io.Writer, describer plot.Describer) *Printer {
	if describer == nil {
		describer = plot.Disabled{}
	}
	return &Printer{w: w, describer: describer}
}

// Print writes both lists for the user at target:
//
//	Recommended movies to watch for user 0:
//	Heat - A group of professional bank robbers ...
//
//	Not recommended movies to watch for user 0:
//	...
func (p *Printer) Print(ctx context.Context, target int, result *recommend.Result) error {
	bw := bufio.NewWriter(p.w)

	fmt.Fprintf(bw, "Recommended movies to watch for user %d:\n", target)
	p.writeList(ctx, bw, result.Recommended)

	fmt.Fprintf(bw, "Not recommended movies to watch for user %d:\n", target)
	p.writeList(ctx, bw, result.Avoid)

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func (p *Printer) writeList(ctx context.Context, w io.Writer, list []ratings.Rating) {
	for _, r := range list {
		fmt.Fprintf(w, "%s - %s\n\n", r.Title, plot.DescribeOrPlaceholder(ctx, p.describer, r.Title))
	}
}
