// Rankfeed - Social Feed Recommendation Service
// Copyright 2026 Rankfeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rankfeed/rankfeed

// Package features holds the in-memory feature store used for scoring.
//
// The store is loaded once at process start from the feature tables and the
// historical like events, then held immutable for the process lifetime. It is
// injected explicitly into the ranking function rather than read from ambient
// globals, and is safe for concurrent reads by construction (never mutated
// after load).
//
// Feature rows are fully typed. The join performed at ranking time
// concatenates a post's covariates, the requesting user's covariates and two
// time-derived covariates in the fixed order reported by JoinColumns; the
// classifier checks this order against its own feature names at startup, so
// silent column collisions cannot occur.
package features

import (
	"context"
	"fmt"
	"time"

	"github.com/rankfeed/rankfeed/internal/logging"
	"github.com/rankfeed/rankfeed/internal/metrics"
)

// UserFeatureRow holds the numeric-encoded scoring covariates for one user.
type UserFeatureRow struct {
	UserID   int64
	Gender   float64
	Age      float64
	Country  float64
	City     float64
	ExpGroup float64
	OS       float64
	Source   float64
}

// Vector returns the user covariates in userColumns order.
func (r UserFeatureRow) Vector() []float64 {
	return []float64{r.Gender, r.Age, r.Country, r.City, r.ExpGroup, r.OS, r.Source}
}

// PostFeatureRow holds the scoring covariates and display fields for one post.
type PostFeatureRow struct {
	PostID    int64
	Text      string
	Topic     string
	TextLen   float64
	TFIDFSum  float64
	TFIDFMean float64
	TFIDFMax  float64
}

// Vector returns the post covariates in postColumns order.
func (r PostFeatureRow) Vector() []float64 {
	return []float64{r.TextLen, r.TFIDFSum, r.TFIDFMean, r.TFIDFMax}
}

// LikedPair is one (user, post) like event, used purely as an exclusion
// filter during ranking.
type LikedPair struct {
	UserID int64
	PostID int64
}

var (
	postColumns = []string{"text_length", "tfidf_sum", "tfidf_mean", "tfidf_max"}
	userColumns = []string{"gender", "age", "country", "city", "exp_group", "os", "source"}
	timeColumns = []string{"hour", "month"}
)

// Source supplies feature rows, typically backed by the relational store.
type Source interface {
	UserFeatureRows(ctx context.Context, limit int) ([]UserFeatureRow, error)
	PostFeatureRows(ctx context.Context, limit int) ([]PostFeatureRow, error)
	LikedPairs(ctx context.Context, limit int) ([]LikedPair, error)
}

// Store is the process-wide read-only feature store.
type Store struct {
	users     map[int64][]float64
	posts     []PostFeatureRow
	postIndex map[int64]int
	liked     map[int64]map[int64]struct{}
}

// Load reads all feature tables through src and builds the store.
// Each table load is capped at limit rows.
func Load(ctx context.Context, src Source, limit int) (*Store, error) {
	start := time.Now()

	logging.Info().Msg("loading liked posts")
	likedPairs, err := src.LikedPairs(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("loading liked pairs: %w", err)
	}

	logging.Info().Msg("loading posts features")
	postRows, err := src.PostFeatureRows(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("loading post features: %w", err)
	}

	logging.Info().Msg("loading user features")
	userRows, err := src.UserFeatureRows(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("loading user features: %w", err)
	}

	store, err := NewStore(userRows, postRows, likedPairs)
	if err != nil {
		return nil, err
	}

	metrics.FeatureStoreRows.WithLabelValues("user_features").Set(float64(len(userRows)))
	metrics.FeatureStoreRows.WithLabelValues("post_features").Set(float64(len(postRows)))
	metrics.FeatureStoreRows.WithLabelValues("liked_pairs").Set(float64(len(likedPairs)))
	metrics.FeatureStoreLoadDuration.Set(time.Since(start).Seconds())

	logging.Info().
		Int("users", len(userRows)).
		Int("posts", len(postRows)).
		Int("liked_pairs", len(likedPairs)).
		Dur("elapsed", time.Since(start)).
		Msg("feature store loaded")

	return store, nil
}

// NewStore builds a store from already-loaded rows. Duplicate user or post
// rows are a data defect and fail the load rather than silently picking one.
func NewStore(userRows []UserFeatureRow, postRows []PostFeatureRow, likedPairs []LikedPair) (*Store, error) {
	users := make(map[int64][]float64, len(userRows))
	for _, r := range userRows {
		if _, exists := users[r.UserID]; exists {
			return nil, fmt.Errorf("duplicate user feature row for user %d", r.UserID)
		}
		users[r.UserID] = r.Vector()
	}

	posts := make([]PostFeatureRow, len(postRows))
	copy(posts, postRows)
	postIndex := make(map[int64]int, len(posts))
	for i, r := range posts {
		if _, exists := postIndex[r.PostID]; exists {
			return nil, fmt.Errorf("duplicate post feature row for post %d", r.PostID)
		}
		postIndex[r.PostID] = i
	}

	liked := make(map[int64]map[int64]struct{})
	for _, p := range likedPairs {
		set, ok := liked[p.UserID]
		if !ok {
			set = make(map[int64]struct{})
			liked[p.UserID] = set
		}
		set[p.PostID] = struct{}{}
	}

	return &Store{
		users:     users,
		posts:     posts,
		postIndex: postIndex,
		liked:     liked,
	}, nil
}

// JoinColumns returns the column names of the joined feature row, in the
// exact order produced at ranking time: post covariates, then user
// covariates, then the time-derived hour and month.
func JoinColumns() []string {
	cols := make([]string, 0, len(postColumns)+len(userColumns)+len(timeColumns))
	cols = append(cols, postColumns...)
	cols = append(cols, userColumns...)
	cols = append(cols, timeColumns...)
	return cols
}

// UserVector returns the covariate vector for the given user.
// The second return is false when the user is absent from the store.
func (s *Store) UserVector(userID int64) ([]float64, bool) {
	v, ok := s.users[userID]
	return v, ok
}

// Posts returns the candidate pool in load order. Callers must not mutate
// the returned slice.
func (s *Store) Posts() []PostFeatureRow {
	return s.posts
}

// Post returns the feature row for a single post id.
func (s *Store) Post(postID int64) (PostFeatureRow, bool) {
	i, ok := s.postIndex[postID]
	if !ok {
		return PostFeatureRow{}, false
	}
	return s.posts[i], true
}

// Liked returns the set of post ids the user has liked. May be nil when the
// user has no like history; membership tests on a nil map are safe.
func (s *Store) Liked(userID int64) map[int64]struct{} {
	return s.liked[userID]
}

// NumUsers returns the number of user feature rows.
func (s *Store) NumUsers() int { return len(s.users) }

// NumPosts returns the size of the candidate pool.
func (s *Store) NumPosts() int { return len(s.posts) }
