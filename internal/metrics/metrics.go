// Reelmatch - Panel-based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Recommendation Metrics
	RecommendScoringDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reelmatch_scoring_duration_seconds",
			Help:    "Duration of similarity scoring for one target user",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10), // 100us .. ~26s
		},
		[]string{"algorithm"},
	)

	RecommendUsersScored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reelmatch_users_scored_total",
			Help: "Total number of users scored against a target",
		},
	)

	RecommendSelections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelmatch_selected_titles_total",
			Help: "Total number of titles selected per pass",
		},
		[]string{"pass"}, // "recommend", "avoid"
	)

	// Panel Loading Metrics
	PanelLoadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reelmatch_panel_load_duration_seconds",
			Help:    "Duration of loading the rating panel",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"}, // "cache", "csv"
	)

	PanelUsers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reelmatch_panel_users",
			Help: "Number of users in the loaded panel",
		},
	)

	PanelCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelmatch_panel_cache_requests_total",
			Help: "Panel cache operations by result",
		},
		[]string{"result"}, // "hit", "miss", "error", "skipped"
	)

	// External Collaborator Metrics
	TranslationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelmatch_translation_requests_total",
			Help: "Title translation requests by result",
		},
		[]string{"result"}, // "success", "fallback"
	)

	PlotLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelmatch_plot_lookups_total",
			Help: "Plot description lookups by result",
		},
		[]string{"result"}, // "success", "placeholder"
	)

	ExternalRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reelmatch_external_request_duration_seconds",
			Help:    "Duration of HTTP calls to external APIs",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"api", "status"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordPanelLoad records how long loading the panel took and its size.
func RecordPanelLoad(source string, users int, duration time.Duration) {
	PanelLoadDuration.WithLabelValues(source).Observe(duration.Seconds())
	PanelUsers.Set(float64(users))
}

// RecordExternalRequest records one HTTP call to an external API.
// A zero status means the request never got a response.
func RecordExternalRequest(api string, status int, duration time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	ExternalRequestDuration.WithLabelValues(api, label).Observe(duration.Seconds())
}

// WriteTextfile writes the default registry to path in the Prometheus text
// format. The file is written atomically.
func WriteTextfile(path string) error {
	return WriteTextfileFrom(prometheus.DefaultGatherer, path)
}

// WriteTextfileFrom writes the metrics gathered by g to path.
func WriteTextfileFrom(g prometheus.Gatherer, path string) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("failed to write metrics textfile %s: %w", path, err)
	}
	return nil
}
