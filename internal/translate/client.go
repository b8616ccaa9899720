// Reelmatch - Panel-based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package translate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/logging"
	"github.com/tomtom215/reelmatch/internal/metrics"
	"github.com/tomtom215/reelmatch/internal/resilience"
)

// maxErrorBodySize limits how much of an error response is read.
const maxErrorBodySize = 1024

// ErrEmptyTranslation is returned when the service answers without text.
var ErrEmptyTranslation = errors.New("empty translation")

// ClientConfig configures a LibreTranslate-compatible client.
type ClientConfig struct {
	URL           string
	APIKey        string
	Source        string
	Target        string
	Timeout       time.Duration
	RatePerSecond float64
	Burst         int
}

// Client calls a LibreTranslate-compatible /translate endpoint.
type Client struct {
	baseURL string
	apiKey  string
	source  string
	target  string
	client  *http.Client
	guard   *resilience.Guard
}

type translateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type translateResponse struct {
	TranslatedText string `json:"translatedText"`
	Error          string `json:"error"`
}

// NewClient creates a translation client.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewClient(cfg ClientConfig, logger zerolog.Logger) *Client {
	settings := resilience.DefaultSettings("translate-api")
	settings.RatePerSecond = cfg.RatePerSecond
	settings.Burst = cfg.Burst

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	source := cfg.Source
	if source == "" {
		source = "auto"
	}

	logger.Debug().
		Str("url", cfg.URL).
		Str("api_key", logging.MaskSecret(cfg.APIKey)).
		Str("target", cfg.Target).
		Msg("translation client configured")

	return &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		apiKey:  cfg.APIKey,
		source:  source,
		target:  cfg.Target,
		client:  &http.Client{Timeout: timeout},
		guard:   resilience.NewGuard(settings, logger),
	}
}

// Translate implements Translator.
func (c *Client) Translate(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}
	return resilience.Do(ctx, c.guard, func(ctx context.Context) (string, error) {
		return c.translate(ctx, text)
	})
}

func (c *Client) translate(ctx context.Context, text string) (string, error) {
	payload, err := json.Marshal(translateRequest{
		Q:      text,
		Source: c.source,
		Target: c.target,
		Format: "text",
		APIKey: c.apiKey,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/translate", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		metrics.RecordExternalRequest("translate", 0, time.Since(start))
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	metrics.RecordExternalRequest("translate", resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		body := readBodyForError(resp.Body)
		return "", fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result translateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if result.Error != "" {
		return "", fmt.Errorf("translation service error: %s", result.Error)
	}
	if strings.TrimSpace(result.TranslatedText) == "" {
		return "", ErrEmptyTranslation
	}

	return result.TranslatedText, nil
}

// readBodyForError reads a bounded prefix of an error response body.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}
