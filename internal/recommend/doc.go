// Reelmatch - Panel-based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package recommend implements user-based collaborative filtering over a
// rating panel.
//
// # Overview
//
// For a target user the engine scores every other user with one of two
// similarity algorithms, ranks users by that score and walks their ratings to
// collect two lists:
//
//   - Recommended: the first ProposalCount unseen movies rated at least
//     GoodScoreThreshold by the most similar users.
//   - Avoid: the first ProposalCount movies rated at least GoodScoreThreshold
//     by the least similar users, skipping anything already recommended.
//
// # Algorithms
//
//   - Euclidean: 1 / (1 + distance) over shared titles, in (0, 1].
//   - Pearson: correlation of the shared ratings, in [-1, 1].
//
// Both return 0 when the two users share no titles. Pearson also returns 0
// when either side has zero variance over the shared titles.
//
// # Usage
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), logger)
//	if err != nil {
//	    return err
//	}
//	res, err := engine.Recommend(ctx, panel, recommend.Request{
//	    Target:    3,
//	    Algorithm: recommend.Pearson,
//	})
//
// # Thread Safety
//
// Engine is safe for concurrent use. The panel is only read.
package recommend
