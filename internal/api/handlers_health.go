// Rankfeed - Social Feed Recommendation Service
// Copyright 2026 Rankfeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rankfeed/rankfeed

package api

import (
	"net/http"
)

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Users    int    `json:"feature_store_users"`
	Posts    int    `json:"feature_store_posts"`
}

// Health handles GET /health. It reports degraded with a 503 when the
// database is unreachable; the feature store and model are in-process and
// cannot fail after startup.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:   "ok",
		Database: "ok",
		Users:    h.store.NumUsers(),
		Posts:    h.store.NumPosts(),
	}

	status := http.StatusOK
	if err := h.db.Ping(r.Context()); err != nil {
		resp.Status = "degraded"
		resp.Database = "unreachable"
		status = http.StatusServiceUnavailable
	}

	respondJSON(w, status, resp)
}
