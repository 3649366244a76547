// Rankfeed - Social Feed Recommendation Service
// Copyright 2026 Rankfeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rankfeed/rankfeed

package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/rankfeed/rankfeed/internal/logging"
	"github.com/rankfeed/rankfeed/internal/ranking"
	"github.com/rankfeed/rankfeed/internal/validation"
)

// recommendationsRequest carries the validated query parameters of a
// recommendation lookup.
type recommendationsRequest struct {
	UserID int64 `validate:"gte=0"`
	Limit  int   `validate:"gte=0"`
}

// Recommendations handles GET /post/recommendations/.
//
// Query parameters:
//
//	id    - user id to recommend for (required)
//	time  - reference timestamp; hour and month feed the model (required)
//	limit - number of posts to return, defaults to the configured limit
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	rawID := query.Get("id")
	if rawID == "" {
		respondError(w, http.StatusUnprocessableEntity, codeValidation, "id query parameter is required", nil)
		return
	}
	userID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, codeValidation, "id must be an integer", nil)
		return
	}

	rawTime := query.Get("time")
	if rawTime == "" {
		respondError(w, http.StatusUnprocessableEntity, codeValidation, "time query parameter is required", nil)
		return
	}
	refTime, err := queryTime(rawTime)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, codeValidation, err.Error(), nil)
		return
	}

	limit, err := queryInt(r, "limit", h.cfg.API.DefaultLimit)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, codeValidation, err.Error(), nil)
		return
	}

	req := recommendationsRequest{UserID: userID, Limit: limit}
	if verr := validation.ValidateStruct(req); verr != nil {
		respondAPIError(w, http.StatusUnprocessableEntity, verr.ToAPIError())
		return
	}
	if limit > h.cfg.API.MaxLimit {
		limit = h.cfg.API.MaxLimit
	}

	start := time.Now()
	posts, err := h.ranker.Rank(r.Context(), userID, refTime, limit)
	if errors.Is(err, ranking.ErrUnknownUser) {
		respondError(w, http.StatusNotFound, codeUnknownUser, "user not found", nil)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "failed to rank posts", err)
		return
	}

	logging.Debug().
		Int64("user_id", userID).
		Int("returned", len(posts)).
		Dur("elapsed", time.Since(start)).
		Msg("recommendations served")

	respondJSON(w, http.StatusOK, posts)
}
