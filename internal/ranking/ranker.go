// Rankfeed - Social Feed Recommendation Service
// Copyright 2026 Rankfeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rankfeed/rankfeed

// Package ranking implements the feed-ranking computation.
//
// Given a user id and a reference time, the ranker joins the user's
// covariates onto every candidate post's covariates, adds the hour and month
// derived from the reference time, scores the whole batch with the
// classifier, drops posts the user has already liked and returns the top
// `limit` posts.
//
// Output ordering is pinned: candidates are stable-sorted by ascending score
// (ties keep candidate pool order) and the last `limit` entries are returned
// in that ascending order. Identical inputs against an unchanged feature
// store always produce identical output.
package ranking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rankfeed/rankfeed/internal/classifier"
	"github.com/rankfeed/rankfeed/internal/features"
	"github.com/rankfeed/rankfeed/internal/logging"
	"github.com/rankfeed/rankfeed/internal/metrics"
	"github.com/rankfeed/rankfeed/internal/models"
)

// ErrUnknownUser indicates the requested user has no feature row.
// Callers map this to HTTP 404.
var ErrUnknownUser = errors.New("user not present in feature store")

// ErrInvalidLimit indicates a negative result limit.
var ErrInvalidLimit = errors.New("limit must be >= 0")

// Ranker scores candidate posts for a user. It holds only read-only state
// and is safe for concurrent use.
type Ranker struct {
	store *features.Store
	model *classifier.Model

	// perm maps each model feature position to its index in the joined row,
	// resolved by column name at construction time.
	perm []int
}

// New builds a Ranker and verifies that the classifier's feature names can
// be satisfied by the feature store's join columns. A mismatch is a
// configuration error surfaced at startup, not a per-request fault.
func New(store *features.Store, model *classifier.Model) (*Ranker, error) {
	joinCols := features.JoinColumns()
	joinIdx := make(map[string]int, len(joinCols))
	for i, name := range joinCols {
		joinIdx[name] = i
	}

	names := model.FeatureNames()
	if len(names) != len(joinCols) {
		return nil, fmt.Errorf("model expects %d features, joined rows have %d", len(names), len(joinCols))
	}

	perm := make([]int, len(names))
	seen := make(map[string]struct{}, len(names))
	for i, name := range names {
		idx, ok := joinIdx[name]
		if !ok {
			return nil, fmt.Errorf("model feature %q not present in joined feature row", name)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("model feature %q listed twice", name)
		}
		seen[name] = struct{}{}
		perm[i] = idx
	}

	return &Ranker{store: store, model: model, perm: perm}, nil
}

// Rank returns up to limit PostSummary values for the user, highest-scoring
// posts last-selected but emitted in ascending score order. Posts the user
// has already liked are never returned.
func (r *Ranker) Rank(ctx context.Context, userID int64, refTime time.Time, limit int) ([]models.PostSummary, error) {
	start := time.Now()

	if limit < 0 {
		return nil, ErrInvalidLimit
	}

	userVec, ok := r.store.UserVector(userID)
	if !ok {
		metrics.RankRequestsTotal.WithLabelValues("unknown_user").Inc()
		return nil, fmt.Errorf("user %d: %w", userID, ErrUnknownUser)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	posts := r.store.Posts()
	logging.Debug().Int64("user_id", userID).Int("candidates", len(posts)).Msg("assembling feature rows")

	hour := float64(refTime.Hour())
	month := float64(int(refTime.Month()))

	rows := make([][]float64, len(posts))
	for i, post := range posts {
		rows[i] = r.joinRow(post, userVec, hour, month)
	}

	logging.Debug().Int64("user_id", userID).Msg("predicting")
	scores, err := r.model.PredictProba(rows)
	if err != nil {
		metrics.RankRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("scoring candidates for user %d: %w", userID, err)
	}

	liked := r.store.Liked(userID)

	// Candidate order is the stable tie-break: posts entering the sort in
	// pool order leave equal scores in pool order.
	type candidate struct {
		post  features.PostFeatureRow
		score float64
	}
	candidates := make([]candidate, 0, len(posts))
	for i, post := range posts {
		if _, isLiked := liked[post.PostID]; isLiked {
			continue
		}
		candidates = append(candidates, candidate{post: post, score: scores[i]})
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].score < candidates[b].score
	})

	if limit < len(candidates) {
		candidates = candidates[len(candidates)-limit:]
	}

	result := make([]models.PostSummary, len(candidates))
	for i, c := range candidates {
		result[i] = models.PostSummary{
			ID:    c.post.PostID,
			Text:  c.post.Text,
			Topic: c.post.Topic,
		}
	}

	metrics.RankRequestsTotal.WithLabelValues("success").Inc()
	metrics.RankCandidates.Observe(float64(len(posts)))
	metrics.RankDuration.Observe(time.Since(start).Seconds())

	return result, nil
}

// joinRow builds one scoring row in the model's feature order: post
// covariates, then the user's covariates broadcast across all posts, then
// the time-derived hour and month.
func (r *Ranker) joinRow(post features.PostFeatureRow, userVec []float64, hour, month float64) []float64 {
	joined := make([]float64, 0, len(r.perm))
	joined = append(joined, post.Vector()...)
	joined = append(joined, userVec...)
	joined = append(joined, hour, month)

	row := make([]float64, len(r.perm))
	for i, src := range r.perm {
		row[i] = joined[src]
	}
	return row
}
