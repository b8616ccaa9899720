// Reelmatch - Panel-based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package plot looks up one-line movie descriptions for printed results.
package plot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/logging"
	"github.com/tomtom215/reelmatch/internal/metrics"
	"github.com/tomtom215/reelmatch/internal/resilience"
)

// Placeholder is printed when no description can be fetched.
const Placeholder = "Failed to fetch description from external API"

// maxErrorBodySize limits how much of an error response is read.
const maxErrorBodySize = 1024

var (
	// ErrNoPlot is returned when the service knows no plot for a title.
	ErrNoPlot = errors.New("no plot available")

	// ErrDisabled is returned by Disabled for every title.
	ErrDisabled = errors.New("plot lookup disabled")
)

// Describer returns a one-line description for a title.
type Describer interface {
	Describe(ctx context.Context, title string) (string, error)
}

// Disabled is used when no API key is configured.
type Disabled struct{}

// Describe implements Describer.
func (Disabled) Describe(context.Context, string) (string, error) {
	return "", ErrDisabled
}

// DescribeOrPlaceholder returns the description for title, or Placeholder
// when the lookup fails for any reason.
func DescribeOrPlaceholder(ctx context.Context, d Describer, title string) string {
	text, err := d.Describe(ctx, title)
	if err != nil || strings.TrimSpace(text) == "" {
		metrics.PlotLookups.WithLabelValues("placeholder").Inc()
		return Placeholder
	}
	metrics.PlotLookups.WithLabelValues("success").Inc()
	return text
}

// OMDbConfig configures an OMDb client.
type OMDbConfig struct {
	URL           string
	APIKey        string
	Timeout       time.Duration
	RatePerSecond float64
	Burst         int
}

// OMDb queries the Open Movie Database by exact title.
type OMDb struct {
	baseURL string
	apiKey  string
	client  *http.Client
	guard   *resilience.Guard
	logger  zerolog.Logger
}

// omdbResponse holds the fields used from an OMDb title lookup.
type omdbResponse struct {
	Title    string `json:"Title"`
	Plot     string `json:"Plot"`
	Response string `json:"Response"`
	Error    string `json:"Error"`
}

// NewOMDb creates an OMDb client.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewOMDb(cfg OMDbConfig, logger zerolog.Logger) *OMDb {
	settings := resilience.DefaultSettings("omdb-api")
	settings.RatePerSecond = cfg.RatePerSecond
	settings.Burst = cfg.Burst
	settings.Ignore = func(err error) bool { return errors.Is(err, ErrNoPlot) }

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	logger = logger.With().Str("component", "plot").Logger()
	logger.Debug().
		Str("url", cfg.URL).
		Str("api_key", logging.MaskSecret(cfg.APIKey)).
		Msg("omdb client configured")

	return &OMDb{
		baseURL: cfg.URL,
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: timeout},
		guard:   resilience.NewGuard(settings, logger),
		logger:  logger,
	}
}

// Describe implements Describer.
func (o *OMDb) Describe(ctx context.Context, title string) (string, error) {
	text, err := resilience.Do(ctx, o.guard, func(ctx context.Context) (string, error) {
		return o.lookup(ctx, title)
	})
	if err != nil {
		o.logger.Debug().
			Err(err).
			Str("title", title).
			Bool("circuit_open", resilience.IsOpen(err)).
			Str("breaker_state", o.guard.State()).
			Msg("plot lookup failed")
		return "", err
	}
	return text, nil
}

// buildURL returns the lookup URL for title.
func (o *OMDb) buildURL(title string) (string, error) {
	u, err := url.Parse(o.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid OMDb url: %w", err)
	}
	params := u.Query()
	params.Set("apikey", o.apiKey)
	params.Set("t", title)
	u.RawQuery = params.Encode()
	return u.String(), nil
}

func (o *OMDb) lookup(ctx context.Context, title string) (string, error) {
	reqURL, err := o.buildURL(title)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := o.client.Do(req)
	if err != nil {
		metrics.RecordExternalRequest("omdb", 0, time.Since(start))
		// Drop the URL from the error so the API key never reaches logs.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	metrics.RecordExternalRequest("omdb", resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return "", fmt.Errorf("request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result omdbResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if strings.EqualFold(result.Response, "False") {
		return "", fmt.Errorf("%w: %s", ErrNoPlot, result.Error)
	}
	plot := strings.TrimSpace(result.Plot)
	if plot == "" || plot == "N/A" {
		return "", fmt.Errorf("%w: empty plot for %q", ErrNoPlot, title)
	}

	return plot, nil
}
