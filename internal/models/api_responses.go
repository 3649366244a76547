// Rankfeed - Social Feed Recommendation Service
// Copyright 2026 Rankfeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rankfeed/rankfeed

package models

// APIError is the error body returned by all endpoints on failure.
// Successful responses return the requested record or list directly.
//
// Common error codes:
//   - VALIDATION_ERROR: Invalid request parameters
//   - NOT_FOUND: Requested user or post does not exist
//   - UNKNOWN_USER: Recommendation requested for a user absent from the feature store
//   - INTERNAL_ERROR: Database or inference failure
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
