// Rankfeed - Social Feed Recommendation Service
// Copyright 2026 Rankfeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rankfeed/rankfeed

// Package models defines the domain records served by the Rankfeed API.
//
// User, Post and FeedEvent mirror the upstream relational schema and are
// read-only from this service's perspective. PostSummary is the display-facing
// projection returned by the recommendation route.
package models

import "time"

// Feed action vocabulary. The feed_actions table holds a small fixed set of
// action strings; only "like" participates in ranking (exclusion filter).
const (
	ActionView = "view"
	ActionLike = "like"
)

// User is an identity record with demographic profile attributes.
// Profile attributes are opaque to ranking; scoring covariates live in the
// user_features table instead.
type User struct {
	ID       int64  `json:"id"`
	Gender   int    `json:"gender"`
	Age      int    `json:"age"`
	Country  string `json:"country"`
	City     string `json:"city"`
	ExpGroup int    `json:"exp_group"`
	OS       string `json:"os"`
	Source   string `json:"source"`
}

// Post is a content record with free text and a categorical topic.
type Post struct {
	ID    int64  `json:"id"`
	Text  string `json:"text"`
	Topic string `json:"topic"`
}

// FeedEvent is an append-only interaction record. Uniqueness is enforced by
// the full (UserID, PostID, Action, Time) tuple.
type FeedEvent struct {
	UserID int64     `json:"user_id"`
	PostID int64     `json:"post_id"`
	Action string    `json:"action"`
	Time   time.Time `json:"time"`
}

// PostSummary is the projection returned by GET /post/recommendations/.
type PostSummary struct {
	ID    int64  `json:"id"`
	Text  string `json:"text"`
	Topic string `json:"topic"`
}
