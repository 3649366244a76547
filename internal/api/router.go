// Rankfeed - Social Feed Recommendation Service
// Copyright 2026 Rankfeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rankfeed/rankfeed

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rankfeed/rankfeed/internal/config"
	"github.com/rankfeed/rankfeed/internal/middleware"
)

// Router wires handlers and middleware into an http.Handler.
type Router struct {
	handler *Handler
	chiMW   *ChiMiddleware
}

// NewRouter creates a router for the given handler and security settings.
func NewRouter(handler *Handler, sec *config.SecurityConfig) *Router {
	mwConfig := DefaultChiMiddlewareConfig()
	if sec != nil {
		mwConfig.CORSAllowedOrigins = sec.CORSOrigins
		if sec.RateLimitReqs > 0 {
			mwConfig.RateLimitRequests = sec.RateLimitReqs
		}
		if sec.RateLimitWindow > 0 {
			mwConfig.RateLimitWindow = sec.RateLimitWindow
		}
		mwConfig.RateLimitDisabled = sec.RateLimitDisabled
	}

	return &Router{
		handler: handler,
		chiMW:   NewChiMiddleware(mwConfig),
	}
}

// Setup configures all HTTP routes.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMW.CORS())
	r.Use(middleware.RequestLogger)

	r.Get("/health", router.handler.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Data endpoints share rate limiting and Prometheus instrumentation.
	r.Group(func(r chi.Router) {
		r.Use(router.chiMW.RateLimit())
		r.Use(middleware.PrometheusMetrics)

		r.Get("/user/{id}", router.handler.GetUser)
		r.Get("/user/{id}/feed", router.handler.UserFeed)
		r.Get("/post/{id}", router.handler.GetPost)
		r.Get("/post/{id}/feed", router.handler.PostFeed)
		r.Get("/post/recommendations/", router.handler.Recommendations)
	})

	return r
}
