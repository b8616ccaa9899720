// Reelmatch - Panel-based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tomtom215/reelmatch/internal/config"
	"github.com/tomtom215/reelmatch/internal/logging"
	"github.com/tomtom215/reelmatch/internal/metrics"
	"github.com/tomtom215/reelmatch/internal/ratings"
	"github.com/tomtom215/reelmatch/internal/recommend"
	"github.com/tomtom215/reelmatch/internal/report"
)

// Exit codes.
const (
	exitOK    = 0
	exitData  = 1
	exitUsage = 2
)

// errUsage wraps malformed command line arguments.
var errUsage = errors.New("usage error")

// invocation holds the validated command line.
type invocation struct {
	configPath string
	target     int
	algorithm  recommend.Algorithm
}

// parseArgs validates the command line before anything is loaded.
func parseArgs(argv []string, stderr io.Writer) (*invocation, error) {
	fs := flag.NewFlagSet("reelmatch", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to a YAML config file")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: reelmatch [flags] <user-index> <%s>\n", strings.Join(recommend.AlgorithmNames(), "|"))
		fs.PrintDefaults()
	}

	if err := fs.Parse(argv); err != nil {
		return nil, err
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return nil, fmt.Errorf("%w: expected 2 arguments, got %d", errUsage, fs.NArg())
	}

	target, err := strconv.Atoi(strings.TrimSpace(fs.Arg(0)))
	if err != nil {
		return nil, fmt.Errorf("%w: user index %q is not an integer", errUsage, fs.Arg(0))
	}

	alg, err := recommend.ParseAlgorithm(fs.Arg(1))
	if err != nil {
		return nil, err
	}

	return &invocation{configPath: *configPath, target: target, algorithm: alg}, nil
}

// run executes one recommendation and returns the process exit code.
func run(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	inv, err := parseArgs(argv, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(stderr, "reelmatch: %v\n", err)
		return exitUsage
	}

	cfg, err := config.LoadWithKoanf(inv.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "reelmatch: %v\n", err)
		return exitUsage
	}

	logCfg := cfg.LoggingSettings()
	logCfg.Output = stderr
	logging.Init(logCfg)

	ctx = logging.ContextWithNewCorrelationID(ctx)
	logger := logging.CtxWith(ctx).Logger()

	a, err := newApp(cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize")
		fmt.Fprintf(stderr, "reelmatch: %v\n", err)
		return exitData
	}
	defer a.Close()

	code := a.run(ctx, inv, stdout, stderr)

	if cfg.Metrics.TextfilePath != "" {
		if err := metrics.WriteTextfile(cfg.Metrics.TextfilePath); err != nil {
			logger.Warn().Err(err).Msg("Failed to write metrics")
		}
	}
	return code
}

func (a *app) run(ctx context.Context, inv *invocation, stdout, stderr io.Writer) int {
	panel, err := a.loader.Load(ctx, a.cfg.Data.Path)
	if err != nil {
		a.logger.Error().Err(err).Str("path", a.cfg.Data.Path).Msg("Failed to load ratings")
		fmt.Fprintf(stderr, "reelmatch: %v\n", err)
		return exitData
	}

	if err := panel.CheckIndex(inv.target); err != nil {
		fmt.Fprintf(stderr, "reelmatch: %v\n", err)
		return exitUsage
	}

	result, err := a.engine.Recommend(ctx, panel, recommend.Request{
		Target:    inv.target,
		Algorithm: inv.algorithm,
		RequestID: logging.CorrelationIDFromContext(ctx),
	})
	if err != nil {
		fmt.Fprintf(stderr, "reelmatch: %v\n", err)
		if errors.Is(err, ratings.ErrTargetOutOfRange) || errors.Is(err, recommend.ErrUnknownAlgorithm) {
			return exitUsage
		}
		return exitData
	}

	a.logger.Info().
		Int("users", result.Metadata.Users).
		Int("recommended", len(result.Recommended)).
		Int("avoid", len(result.Avoid)).
		Dur("latency", result.Metadata.Latency).
		Msg("Recommendation complete")

	if err := report.NewPrinter(stdout, a.describer).Print(ctx, inv.target, result); err != nil {
		a.logger.Error().Err(err).Msg("Failed to print report")
		return exitData
	}
	return exitOK
}
