// Rankfeed - Social Feed Recommendation Service
// Copyright 2026 Rankfeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rankfeed/rankfeed

package api

import (
	"errors"
	"net/http"

	"github.com/rankfeed/rankfeed/internal/database"
	"github.com/rankfeed/rankfeed/internal/validation"
)

// feedRequest carries the validated query parameters of a feed lookup.
type feedRequest struct {
	Limit int `validate:"gte=0"`
}

// GetUser handles GET /user/{id}.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, codeValidation, err.Error(), nil)
		return
	}

	user, err := h.db.GetUserByID(r.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusNotFound, codeNotFound, "user not found", nil)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "failed to load user", err)
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// GetPost handles GET /post/{id}.
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, codeValidation, err.Error(), nil)
		return
	}

	post, err := h.db.GetPostByID(r.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusNotFound, codeNotFound, "post not found", nil)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "failed to load post", err)
		return
	}

	respondJSON(w, http.StatusOK, post)
}

// UserFeed handles GET /user/{id}/feed.
func (h *Handler) UserFeed(w http.ResponseWriter, r *http.Request) {
	h.feed(w, r, true)
}

// PostFeed handles GET /post/{id}/feed.
func (h *Handler) PostFeed(w http.ResponseWriter, r *http.Request) {
	h.feed(w, r, false)
}

// feed serves both feed routes; byUser selects the filter column. An unknown
// id yields an empty list, matching the underlying event log semantics.
func (h *Handler) feed(w http.ResponseWriter, r *http.Request, byUser bool) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, codeValidation, err.Error(), nil)
		return
	}

	limit, err := queryInt(r, "limit", h.cfg.API.DefaultLimit)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, codeValidation, err.Error(), nil)
		return
	}

	req := feedRequest{Limit: limit}
	if verr := validation.ValidateStruct(req); verr != nil {
		respondAPIError(w, http.StatusUnprocessableEntity, verr.ToAPIError())
		return
	}
	if limit > h.cfg.API.MaxLimit {
		limit = h.cfg.API.MaxLimit
	}

	events, err := h.db.GetFeed(r.Context(), id, limit, byUser)
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "failed to load feed", err)
		return
	}

	respondJSON(w, http.StatusOK, events)
}
