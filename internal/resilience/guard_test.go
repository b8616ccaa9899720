// Reelmatch - Panel-based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/reelmatch/internal/metrics"
)

var errNotFound = errors.New("not found")

func testSettings(name string) Settings {
	s := DefaultSettings(name)
	s.RatePerSecond = 0 // unlimited
	s.MinRequests = 10
	return s
}

func fail(context.Context) (string, error) {
	return "", errors.New("simulated API failure")
}

func succeed(context.Context) (string, error) {
	return "ok", nil
}

// TestGuard_OpensAfterFailures verifies the circuit opens after exceeding the failure threshold
func TestGuard_OpensAfterFailures(t *testing.T) {
	g := NewGuard(testSettings("test-opens"), zerolog.Nop())
	ctx := context.Background()

	if g.cb.State() != gobreaker.StateClosed {
		t.Fatalf("initial state = %v, want closed", g.cb.State())
	}

	failures := 0
	for i := 0; i < 10; i++ {
		fn := succeed
		if i < 7 {
			fn = fail
		}
		if _, err := Do(ctx, g, fn); err != nil {
			failures++
		}
	}
	if failures != 7 {
		t.Errorf("failures = %d, want 7", failures)
	}

	// The trip check runs on failure; one more pushes it over with 10+ requests.
	_, _ = Do(ctx, g, fail)

	if g.State() != "open" {
		t.Fatalf("State() = %q, want open after 70%% failure rate", g.State())
	}
	if got := testutil.ToFloat64(metrics.CircuitBreakerState.WithLabelValues("test-opens")); got != 2 {
		t.Errorf("circuit_breaker_state = %v, want 2", got)
	}

	called := false
	_, err := Do(ctx, g, func(context.Context) (string, error) {
		called = true
		return "should not execute", nil
	})
	if !errors.Is(err, gobreaker.ErrOpenState) || !IsOpen(err) {
		t.Errorf("Do() error = %v, want ErrOpenState", err)
	}
	if called {
		t.Error("function executed while circuit open")
	}
}

// TestGuard_DoesNotOpenBelowThreshold verifies the circuit stays closed below the failure threshold
func TestGuard_DoesNotOpenBelowThreshold(t *testing.T) {
	g := NewGuard(testSettings("test-below"), zerolog.Nop())
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		fn := succeed
		if i < 5 {
			fn = fail
		}
		_, _ = Do(ctx, g, fn)
	}

	if g.State() != "closed" {
		t.Errorf("State() = %q, want closed with 50%% failure rate", g.State())
	}
}

// TestGuard_RequiresMinimumRequests verifies the breaker waits for MinRequests
func TestGuard_RequiresMinimumRequests(t *testing.T) {
	g := NewGuard(testSettings("test-min"), zerolog.Nop())
	ctx := context.Background()

	for i := 0; i < 9; i++ {
		_, _ = Do(ctx, g, fail)
	}

	if g.State() != "closed" {
		t.Errorf("State() = %q, want closed before minimum requests", g.State())
	}
}

func TestGuard_IgnoredErrorsDoNotTrip(t *testing.T) {
	s := testSettings("test-ignore")
	s.Ignore = func(err error) bool { return errors.Is(err, errNotFound) }
	g := NewGuard(s, zerolog.Nop())
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		_, err := Do(ctx, g, func(context.Context) (string, error) {
			return "", errNotFound
		})
		if !errors.Is(err, errNotFound) {
			t.Fatalf("Do() error = %v, want errNotFound passed through", err)
		}
	}

	if g.State() != "closed" {
		t.Errorf("State() = %q, want closed when errors are ignored", g.State())
	}
}

func TestGuard_TypedResult(t *testing.T) {
	g := NewGuard(testSettings("test-typed"), zerolog.Nop())

	type plot struct{ text string }
	got, err := Do(context.Background(), g, func(context.Context) (*plot, error) {
		return &plot{text: "A heist."}, nil
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if got.text != "A heist." {
		t.Errorf("Do() = %q, want %q", got.text, "A heist.")
	}
}

func TestGuard_RateLimiterHonorsContext(t *testing.T) {
	s := DefaultSettings("test-rate")
	s.RatePerSecond = 0.001
	s.Burst = 1
	g := NewGuard(s, zerolog.Nop())

	// First call consumes the only token.
	if _, err := Do(context.Background(), g, succeed); err != nil {
		t.Fatalf("first Do() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	called := false
	_, err := Do(ctx, g, func(context.Context) (string, error) {
		called = true
		return "late", nil
	})
	if err == nil {
		t.Fatal("Do() error = nil, want rate limiter error")
	}
	if called {
		t.Error("function executed without a rate limit token")
	}
}

func TestStateHelpers(t *testing.T) {
	tests := []struct {
		state gobreaker.State
		str   string
		num   float64
	}{
		{gobreaker.StateClosed, "closed", 0},
		{gobreaker.StateHalfOpen, "half-open", 1},
		{gobreaker.StateOpen, "open", 2},
		{gobreaker.State(99), "unknown", -1},
	}

	for _, tt := range tests {
		if got := stateToString(tt.state); got != tt.str {
			t.Errorf("stateToString(%v) = %q, want %q", tt.state, got, tt.str)
		}
		if got := stateToFloat(tt.state); got != tt.num {
			t.Errorf("stateToFloat(%v) = %v, want %v", tt.state, got, tt.num)
		}
	}
}
