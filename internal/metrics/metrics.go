// Rankfeed - Social Feed Recommendation Service
// Copyright 2026 Rankfeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rankfeed/rankfeed

// Package metrics provides Prometheus metrics collection for observability.
//
// Metrics are exposed at the /metrics endpoint in Prometheus text format.
//
// HTTP metrics:
//   - api_requests_total{method,endpoint,status_code}
//   - api_request_duration_seconds{method,endpoint}
//   - api_active_requests
//
// Database metrics:
//   - db_query_duration_seconds{operation}
//   - db_query_errors_total{operation}
//
// Ranking metrics:
//   - rank_requests_total{outcome}
//   - rank_duration_seconds
//   - rank_candidates
//   - model_inference_duration_seconds
//
// Startup metrics:
//   - feature_store_rows{table}
//   - feature_store_load_duration_seconds
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Database metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // "get_user", "get_post", "get_feed", "load_features"
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_query_errors_total",
			Help: "Total number of failed database queries",
		},
		[]string{"operation"},
	)

	// Ranking metrics
	RankRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rank_requests_total",
			Help: "Total number of ranking requests",
		},
		[]string{"outcome"}, // "success", "unknown_user", "error"
	)

	RankDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rank_duration_seconds",
			Help:    "End-to-end ranking duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	RankCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rank_candidates",
			Help:    "Number of candidate posts scored per ranking request",
			Buckets: []float64{10, 50, 100, 250, 500, 1000, 5000},
		},
	)

	ModelInferenceDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "model_inference_duration_seconds",
			Help:    "Classifier batch inference duration in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
	)

	// Startup metrics
	FeatureStoreRows = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "feature_store_rows",
			Help: "Number of rows loaded into the feature store at startup",
		},
		[]string{"table"}, // "user_features", "post_features", "liked_pairs"
	)

	FeatureStoreLoadDuration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "feature_store_load_duration_seconds",
			Help: "Time spent loading the feature store at startup",
		},
	)
)
