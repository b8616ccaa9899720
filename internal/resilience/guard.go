// Reelmatch - Panel-based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package resilience protects calls to external HTTP APIs with a client-side
// rate limiter and a circuit breaker.
//
// The translation and plot services are optional collaborators: when they
// misbehave the run degrades rather than stalls, so after repeated failures
// the breaker opens and further calls fail fast.
package resilience

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/reelmatch/internal/metrics"
)

// Settings configures a Guard.
type Settings struct {
	// Name labels metrics and log lines.
	Name string

	// RatePerSecond and Burst configure the token bucket. RatePerSecond <= 0
	// disables rate limiting.
	RatePerSecond float64
	Burst         int

	// MinRequests is the number of requests in a window before the breaker
	// may open.
	MinRequests uint32

	// FailureRatio opens the breaker once reached.
	FailureRatio float64

	// MaxHalfOpen is the number of requests allowed through while half-open.
	MaxHalfOpen uint32

	// Interval resets counts while closed. Timeout is how long the breaker
	// stays open before probing.
	Interval time.Duration
	Timeout  time.Duration

	// Ignore reports errors that are answers rather than failures (for
	// example "movie not found"). They do not count against the breaker.
	Ignore func(error) bool
}

// DefaultSettings returns breaker settings for an external API:
//   - Max 3 requests in half-open state
//   - 1 minute measurement window
//   - 30 second open timeout
//   - Opens after 60% failure rate with minimum 5 requests
func DefaultSettings(name string) Settings {
	return Settings{
		Name:          name,
		RatePerSecond: 5,
		Burst:         5,
		MinRequests:   5,
		FailureRatio:  0.6,
		MaxHalfOpen:   3,
		Interval:      time.Minute,
		Timeout:       30 * time.Second,
	}
}

// Guard rate limits and circuit-breaks calls to one external API.
// It is safe for concurrent use.
type Guard struct {
	name    string
	cb      *gobreaker.CircuitBreaker[interface{}]
	limiter *rate.Limiter
	logger  zerolog.Logger
}

// NewGuard creates a guard from settings.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewGuard(s Settings, logger zerolog.Logger) *Guard {
	logger = logger.With().Str("component", "resilience").Str("breaker", s.Name).Logger()

	metrics.CircuitBreakerState.WithLabelValues(s.Name).Set(0) // 0 = closed
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(s.Name).Set(0)

	limit := rate.Inf
	if s.RatePerSecond > 0 {
		limit = rate.Limit(s.RatePerSecond)
	}
	burst := s.Burst
	if burst < 1 {
		burst = 1
	}

	ignore := s.Ignore

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: s.MaxHalfOpen,
		Interval:    s.Interval,
		Timeout:     s.Timeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < s.MinRequests {
				return false
			}

			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= s.FailureRatio

			if shouldTrip {
				logger.Warn().Uint32("failures", counts.TotalFailures).Float64("failure_rate", failureRatio*100).Msg("opening circuit")
			}

			return shouldTrip
		},

		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			// Caller cancellation says nothing about the remote side.
			if errors.Is(err, context.Canceled) {
				return true
			}
			return ignore != nil && ignore(err)
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logger.Info().Str("from", fromStr).Str("to", toStr).Msg("circuit state transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()

			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})

	return &Guard{
		name:    s.Name,
		cb:      cb,
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger,
	}
}

// State returns the current breaker state as a string.
func (g *Guard) State() string {
	return stateToString(g.cb.State())
}

// execute waits for a rate limit token and runs fn through the breaker.
func (g *Guard) execute(ctx context.Context, fn func() (interface{}, error)) (interface{}, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%s: rate limiter: %w", g.name, err)
	}

	result, err := g.cb.Execute(fn)

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(g.name, "rejected").Inc()
			g.logger.Debug().Err(err).Msg("request rejected")
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(g.name, "failure").Inc()

			counts := g.cb.Counts()
			metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(g.name).Set(float64(counts.ConsecutiveFailures))
		}
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(g.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(g.name).Set(0)

	return result, nil
}

// Do runs fn under g and returns its typed result.
func Do[T any](ctx context.Context, g *Guard, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	result, err := g.execute(ctx, func() (interface{}, error) {
		return fn(ctx)
	})
	if err != nil {
		return zero, err
	}

	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("%s: unexpected result type %T", g.name, result)
	}
	return typed, nil
}

// IsOpen reports whether err means the breaker refused the call.
func IsOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// stateToString converts circuit breaker state to string for logging
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
