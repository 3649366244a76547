// Rankfeed - Social Feed Recommendation Service
// Copyright 2026 Rankfeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rankfeed/rankfeed

// Package api implements the HTTP surface of the recommendation service:
// user and post lookups, feed history and ranked recommendations.
package api

import (
	"github.com/rankfeed/rankfeed/internal/config"
	"github.com/rankfeed/rankfeed/internal/database"
	"github.com/rankfeed/rankfeed/internal/features"
	"github.com/rankfeed/rankfeed/internal/ranking"
)

// Handler holds the dependencies shared by all HTTP handlers.
type Handler struct {
	db     *database.DB
	store  *features.Store
	ranker *ranking.Ranker
	cfg    *config.Config
}

// NewHandler creates a Handler with the given dependencies.
func NewHandler(db *database.DB, store *features.Store, ranker *ranking.Ranker, cfg *config.Config) *Handler {
	return &Handler{
		db:     db,
		store:  store,
		ranker: ranker,
		cfg:    cfg,
	}
}
