// Rankfeed - Social Feed Recommendation Service
// Copyright 2026 Rankfeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rankfeed/rankfeed

// Package middleware provides HTTP middleware shared across the API:
// request IDs, structured request logging and Prometheus instrumentation.
package middleware

import (
	"net/http"
	"time"

	"github.com/rankfeed/rankfeed/internal/logging"
)

// RequestLogger emits one structured log line per request after the handler
// completes. Health probes are logged at debug to keep the info stream
// readable.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapper := &statusResponseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapper, r)

		event := logging.Info()
		if r.URL.Path == "/health" {
			event = logging.Debug()
		}
		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", wrapper.statusCode).
			Dur("elapsed", time.Since(start)).
			Str("remote", r.RemoteAddr).
			Str("request_id", logging.RequestIDFromContext(r.Context())).
			Msg("request")
	})
}
