// Rankfeed - Social Feed Recommendation Service
// Copyright 2026 Rankfeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rankfeed/rankfeed

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rankfeed/rankfeed/internal/metrics"
	"github.com/rankfeed/rankfeed/internal/models"
)

// GetUserByID returns the user with the given primary key.
// Returns ErrNotFound if no such user exists.
func (db *DB) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, db.queryTimeout)
	defer cancel()

	start := time.Now()
	row := db.conn.QueryRowContext(ctx, `
		SELECT id, gender, age, country, city, exp_group, os, source
		FROM users
		WHERE id = ?`, id)

	var u models.User
	err := row.Scan(&u.ID, &u.Gender, &u.Age, &u.Country, &u.City, &u.ExpGroup, &u.OS, &u.Source)
	metrics.DBQueryDuration.WithLabelValues("get_user").Observe(time.Since(start).Seconds())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		metrics.DBQueryErrors.WithLabelValues("get_user").Inc()
		return nil, fmt.Errorf("query user %d: %w", id, err)
	}
	return &u, nil
}

// GetPostByID returns the post with the given primary key.
// Returns ErrNotFound if no such post exists.
func (db *DB) GetPostByID(ctx context.Context, id int64) (*models.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, db.queryTimeout)
	defer cancel()

	start := time.Now()
	row := db.conn.QueryRowContext(ctx, `
		SELECT id, text, topic
		FROM posts
		WHERE id = ?`, id)

	var p models.Post
	err := row.Scan(&p.ID, &p.Text, &p.Topic)
	metrics.DBQueryDuration.WithLabelValues("get_post").Observe(time.Since(start).Seconds())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		metrics.DBQueryErrors.WithLabelValues("get_post").Inc()
		return nil, fmt.Errorf("query post %d: %w", id, err)
	}
	return &p, nil
}

// GetFeed returns feed events filtered by user_id (byUser true) or post_id
// (byUser false), newest first, truncated to limit. An empty result is valid;
// there is no not-found case for feeds.
func (db *DB) GetFeed(ctx context.Context, subjectID int64, limit int, byUser bool) ([]models.FeedEvent, error) {
	if limit <= 0 {
		return []models.FeedEvent{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, db.queryTimeout)
	defer cancel()

	column := "post_id"
	if byUser {
		column = "user_id"
	}
	query := fmt.Sprintf(`
		SELECT user_id, post_id, action, time
		FROM feed_actions
		WHERE %s = ?
		ORDER BY time DESC
		LIMIT ?`, column)

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, subjectID, limit)
	if err != nil {
		metrics.DBQueryErrors.WithLabelValues("get_feed").Inc()
		return nil, fmt.Errorf("query feed for %s=%d: %w", column, subjectID, err)
	}
	defer closeWithLog(rows, "feed rows")

	events := []models.FeedEvent{}
	for rows.Next() {
		var e models.FeedEvent
		if err := rows.Scan(&e.UserID, &e.PostID, &e.Action, &e.Time); err != nil {
			metrics.DBQueryErrors.WithLabelValues("get_feed").Inc()
			return nil, fmt.Errorf("scan feed event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		metrics.DBQueryErrors.WithLabelValues("get_feed").Inc()
		return nil, fmt.Errorf("iterate feed events: %w", err)
	}
	metrics.DBQueryDuration.WithLabelValues("get_feed").Observe(time.Since(start).Seconds())

	return events, nil
}
