// Reelmatch - Panel-based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package main is the entry point for the reelmatch command.
//
// Reelmatch reads a panel of user movie ratings, finds the users whose taste
// is closest to (and furthest from) a chosen user, and prints movies that
// user should and should not watch.
//
// # Usage
//
//	reelmatch [-config path] <user-index> <algorithm>
//
// The user index is the zero-based row of the user in the ratings CSV.
// The algorithm is "euclidean" or "pearson" (case-insensitive).
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest priority wins):
//   - Environment variables (REELMATCH_DATA, OMDB_API_KEY, TRANSLATE_URL, LOG_LEVEL, ...)
//   - Config file (-config, CONFIG_PATH, or reelmatch.yaml in the working directory)
//   - Built-in defaults
//
// # Exit Codes
//
//	0  success
//	1  the ratings data could not be loaded or processed
//	2  invalid arguments or configuration
//
// # Example Usage
//
//	export OMDB_API_KEY=your-omdb-key
//	./reelmatch 0 pearson
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
