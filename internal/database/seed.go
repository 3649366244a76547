// Rankfeed - Social Feed Recommendation Service
// Copyright 2026 Rankfeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rankfeed/rankfeed

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/rankfeed/rankfeed/internal/models"
)

// SeedMockData populates the database with a small deterministic dataset for
// local development. Inserts use ON CONFLICT DO NOTHING so reseeding an
// existing database is harmless.
func (db *DB) SeedMockData(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, db.queryTimeout)
	defer cancel()

	users := []models.User{
		{ID: 200, Gender: 1, Age: 34, Country: "Russia", City: "Moscow", ExpGroup: 3, OS: "Android", Source: "ads"},
		{ID: 201, Gender: 0, Age: 22, Country: "Russia", City: "Kazan", ExpGroup: 1, OS: "iOS", Source: "organic"},
		{ID: 202, Gender: 1, Age: 41, Country: "Belarus", City: "Minsk", ExpGroup: 2, OS: "Android", Source: "organic"},
		{ID: 203, Gender: 0, Age: 28, Country: "Russia", City: "Omsk", ExpGroup: 4, OS: "iOS", Source: "ads"},
	}
	for _, u := range users {
		if _, err := db.conn.ExecContext(ctx, `
			INSERT INTO users (id, gender, age, country, city, exp_group, os, source)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT DO NOTHING`,
			u.ID, u.Gender, u.Age, u.Country, u.City, u.ExpGroup, u.OS, u.Source); err != nil {
			return fmt.Errorf("seed user %d: %w", u.ID, err)
		}
	}

	posts := []models.Post{
		{ID: 1, Text: "Quarterly earnings beat expectations across the board", Topic: "business"},
		{ID: 2, Text: "New midfield signing announced ahead of the derby", Topic: "sport"},
		{ID: 3, Text: "Researchers demonstrate error-corrected qubit array", Topic: "tech"},
		{ID: 4, Text: "Central bank holds rates steady amid inflation worries", Topic: "business"},
		{ID: 5, Text: "Championship final goes to penalties", Topic: "sport"},
		{ID: 6, Text: "Open-source database adds vector search support", Topic: "tech"},
		{ID: 7, Text: "Box office numbers rebound over holiday weekend", Topic: "entertainment"},
		{ID: 8, Text: "Streaming platform renews flagship series", Topic: "entertainment"},
	}
	for _, p := range posts {
		if _, err := db.conn.ExecContext(ctx, `
			INSERT INTO posts (id, text, topic)
			VALUES (?, ?, ?)
			ON CONFLICT DO NOTHING`,
			p.ID, p.Text, p.Topic); err != nil {
			return fmt.Errorf("seed post %d: %w", p.ID, err)
		}

		if _, err := db.conn.ExecContext(ctx, `
			INSERT INTO post_features (post_id, text, topic, text_length, tfidf_sum, tfidf_mean, tfidf_max)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT DO NOTHING`,
			p.ID, p.Text, p.Topic,
			float64(len(p.Text)),
			float64(len(p.Text))*0.12,
			0.12,
			0.4+float64(p.ID%3)*0.1); err != nil {
			return fmt.Errorf("seed post features %d: %w", p.ID, err)
		}
	}

	for _, u := range users {
		if _, err := db.conn.ExecContext(ctx, `
			INSERT INTO user_features (user_id, gender, age, country, city, exp_group, os, source)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT DO NOTHING`,
			u.ID, float64(u.Gender), float64(u.Age),
			1.0, float64(u.ID%7), float64(u.ExpGroup), float64(u.ID%2), float64(u.ID%3)); err != nil {
			return fmt.Errorf("seed user features %d: %w", u.ID, err)
		}
	}

	base := time.Date(2024, time.November, 1, 12, 0, 0, 0, time.UTC)
	actions := []models.FeedEvent{
		{UserID: 200, PostID: 1, Action: models.ActionView, Time: base},
		{UserID: 200, PostID: 1, Action: models.ActionLike, Time: base.Add(2 * time.Minute)},
		{UserID: 200, PostID: 5, Action: models.ActionView, Time: base.Add(10 * time.Minute)},
		{UserID: 201, PostID: 3, Action: models.ActionView, Time: base.Add(time.Hour)},
		{UserID: 201, PostID: 3, Action: models.ActionLike, Time: base.Add(time.Hour + 5*time.Minute)},
		{UserID: 201, PostID: 6, Action: models.ActionLike, Time: base.Add(2 * time.Hour)},
		{UserID: 202, PostID: 7, Action: models.ActionView, Time: base.Add(3 * time.Hour)},
		{UserID: 203, PostID: 8, Action: models.ActionView, Time: base.Add(4 * time.Hour)},
		{UserID: 203, PostID: 2, Action: models.ActionLike, Time: base.Add(5 * time.Hour)},
	}
	for _, a := range actions {
		if _, err := db.conn.ExecContext(ctx, `
			INSERT INTO feed_actions (user_id, post_id, action, time)
			VALUES (?, ?, ?, ?)
			ON CONFLICT DO NOTHING`,
			a.UserID, a.PostID, a.Action, a.Time); err != nil {
			return fmt.Errorf("seed feed action (%d,%d,%s): %w", a.UserID, a.PostID, a.Action, err)
		}
	}

	return nil
}
