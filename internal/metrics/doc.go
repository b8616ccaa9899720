// Reelmatch - Panel-based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package metrics provides Prometheus instrumentation for a recommendation run.

# Overview

The package provides metrics for:
  - Similarity scoring latency and volume
  - Selection pass output sizes
  - Panel cache hits and misses
  - Title translation and plot lookup outcomes
  - Circuit breaker state transitions

# Export

The CLI is a short-lived process, so there is no scrape endpoint. When a
textfile path is configured the default registry is written once at exit in
the node_exporter textfile collector format:

	metrics.WriteTextfile("/var/lib/node_exporter/reelmatch.prom")
*/
package metrics
