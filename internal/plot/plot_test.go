// Reelmatch - Panel-based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package plot

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type stubDescriber struct {
	text string
	err  error
}

func (s stubDescriber) Describe(context.Context, string) (string, error) {
	return s.text, s.err
}

func newTestOMDb(t *testing.T, handler http.HandlerFunc) *OMDb {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewOMDb(OMDbConfig{
		URL:     server.URL + "/",
		APIKey:  "test-key",
		Timeout: 2 * time.Second,
	}, zerolog.Nop())
}

func TestDescribeOrPlaceholder(t *testing.T) {
	tests := []struct {
		name string
		d    Describer
		want string
	}{
		{"success", stubDescriber{text: "A thief steals secrets."}, "A thief steals secrets."},
		{"error", stubDescriber{err: errors.New("timeout")}, Placeholder},
		{"blank", stubDescriber{text: "  "}, Placeholder},
		{"disabled", Disabled{}, Placeholder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DescribeOrPlaceholder(context.Background(), tt.d, "Inception"); got != tt.want {
				t.Errorf("DescribeOrPlaceholder() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPlaceholderText(t *testing.T) {
	if Placeholder != "Failed to fetch description from external API" {
		t.Errorf("Placeholder = %q", Placeholder)
	}
}

func TestOMDb_Describe(t *testing.T) {
	o := newTestOMDb(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("apikey") != "test-key" {
			t.Errorf("apikey = %q, want test-key", q.Get("apikey"))
		}
		if q.Get("t") != "The Good, The Bad & The Ugly" {
			t.Errorf("t = %q, want escaped title round trip", q.Get("t"))
		}
		_, _ = w.Write([]byte(`{"Title":"The Good, the Bad and the Ugly","Plot":"A bounty hunting scam joins two men.","Response":"True"}`))
	})

	got, err := o.Describe(context.Background(), "The Good, The Bad & The Ugly")
	if err != nil {
		t.Fatalf("Describe() error = %v", err)
	}
	if got != "A bounty hunting scam joins two men." {
		t.Errorf("Describe() = %q", got)
	}
}

func TestOMDb_Describe_NoPlot(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not found", `{"Response":"False","Error":"Movie not found!"}`},
		{"missing plot", `{"Title":"X","Response":"True"}`},
		{"na plot", `{"Title":"X","Plot":"N/A","Response":"True"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := newTestOMDb(t, func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := o.Describe(context.Background(), "X")
			if !errors.Is(err, ErrNoPlot) {
				t.Errorf("Describe() error = %v, want ErrNoPlot", err)
			}
		})
	}
}

func TestOMDb_Describe_NotFoundDoesNotTripBreaker(t *testing.T) {
	o := newTestOMDb(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"Response":"False","Error":"Movie not found!"}`))
	})

	for i := 0; i < 20; i++ {
		_, _ = o.Describe(context.Background(), "Unknown")
	}
	if o.guard.State() != "closed" {
		t.Errorf("breaker state = %q, want closed", o.guard.State())
	}
}

func TestOMDb_Describe_ServerErrorOpensBreaker(t *testing.T) {
	var hits atomic.Int32
	o := newTestOMDb(t, func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"Response":"False","Error":"down"}`))
	})
	var logs bytes.Buffer
	o.logger = zerolog.New(&logs)

	var lastErr error
	for i := 0; i < 10; i++ {
		_, lastErr = o.Describe(context.Background(), "Heat")
	}
	if lastErr == nil || !strings.Contains(lastErr.Error(), "breaker is open") {
		t.Errorf("last Describe() error = %v, want open breaker", lastErr)
	}
	if n := hits.Load(); n >= 10 {
		t.Errorf("server hits = %d, want fewer than 10 once the breaker opens", n)
	}
	if !strings.Contains(logs.String(), `"circuit_open":true,"breaker_state":"open"`) {
		t.Errorf("logs missing open breaker fields:\n%s", logs.String())
	}
}

func TestOMDb_Describe_KeyNotInTransportError(t *testing.T) {
	o := NewOMDb(OMDbConfig{
		URL:     "http://127.0.0.1:1/",
		APIKey:  "very-secret-api-key",
		Timeout: 500 * time.Millisecond,
	}, zerolog.Nop())

	_, err := o.Describe(context.Background(), "Heat")
	if err == nil {
		t.Fatal("Describe() error = nil, want connection error")
	}
	if strings.Contains(err.Error(), "very-secret-api-key") {
		t.Errorf("Describe() error leaks API key: %v", err)
	}
}
