// Rankfeed - Social Feed Recommendation Service
// Copyright 2026 Rankfeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rankfeed/rankfeed

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/rankfeed/rankfeed/internal/features"
	"github.com/rankfeed/rankfeed/internal/metrics"
	"github.com/rankfeed/rankfeed/internal/models"
)

// UserFeatureRows loads the per-user scoring covariates, capped at limit rows.
// Ordered by user_id so repeated loads see the same slice of the table.
func (db *DB) UserFeatureRows(ctx context.Context, limit int) ([]features.UserFeatureRow, error) {
	ctx, cancel := context.WithTimeout(ctx, db.queryTimeout)
	defer cancel()

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, `
		SELECT user_id, gender, age, country, city, exp_group, os, source
		FROM user_features
		ORDER BY user_id
		LIMIT ?`, limit)
	if err != nil {
		metrics.DBQueryErrors.WithLabelValues("load_features").Inc()
		return nil, fmt.Errorf("query user features: %w", err)
	}
	defer closeWithLog(rows, "user feature rows")

	var result []features.UserFeatureRow
	for rows.Next() {
		var r features.UserFeatureRow
		if err := rows.Scan(&r.UserID, &r.Gender, &r.Age, &r.Country, &r.City, &r.ExpGroup, &r.OS, &r.Source); err != nil {
			return nil, fmt.Errorf("scan user feature row: %w", err)
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user features: %w", err)
	}
	metrics.DBQueryDuration.WithLabelValues("load_features").Observe(time.Since(start).Seconds())
	return result, nil
}

// PostFeatureRows loads the per-post scoring covariates and display fields,
// capped at limit rows. Ordered by post_id; this order defines the candidate
// pool order used for tie-breaking during ranking.
func (db *DB) PostFeatureRows(ctx context.Context, limit int) ([]features.PostFeatureRow, error) {
	ctx, cancel := context.WithTimeout(ctx, db.queryTimeout)
	defer cancel()

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, `
		SELECT post_id, text, topic, text_length, tfidf_sum, tfidf_mean, tfidf_max
		FROM post_features
		ORDER BY post_id
		LIMIT ?`, limit)
	if err != nil {
		metrics.DBQueryErrors.WithLabelValues("load_features").Inc()
		return nil, fmt.Errorf("query post features: %w", err)
	}
	defer closeWithLog(rows, "post feature rows")

	var result []features.PostFeatureRow
	for rows.Next() {
		var r features.PostFeatureRow
		if err := rows.Scan(&r.PostID, &r.Text, &r.Topic, &r.TextLen, &r.TFIDFSum, &r.TFIDFMean, &r.TFIDFMax); err != nil {
			return nil, fmt.Errorf("scan post feature row: %w", err)
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate post features: %w", err)
	}
	metrics.DBQueryDuration.WithLabelValues("load_features").Observe(time.Since(start).Seconds())
	return result, nil
}

// LikedPairs loads the distinct (user, post) pairs with a like event,
// capped at limit rows.
func (db *DB) LikedPairs(ctx context.Context, limit int) ([]features.LikedPair, error) {
	ctx, cancel := context.WithTimeout(ctx, db.queryTimeout)
	defer cancel()

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, `
		SELECT DISTINCT user_id, post_id
		FROM feed_actions
		WHERE action = ?
		ORDER BY user_id, post_id
		LIMIT ?`, models.ActionLike, limit)
	if err != nil {
		metrics.DBQueryErrors.WithLabelValues("load_features").Inc()
		return nil, fmt.Errorf("query liked pairs: %w", err)
	}
	defer closeWithLog(rows, "liked pair rows")

	var result []features.LikedPair
	for rows.Next() {
		var p features.LikedPair
		if err := rows.Scan(&p.UserID, &p.PostID); err != nil {
			return nil, fmt.Errorf("scan liked pair: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate liked pairs: %w", err)
	}
	metrics.DBQueryDuration.WithLabelValues("load_features").Observe(time.Since(start).Seconds())
	return result, nil
}
