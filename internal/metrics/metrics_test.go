// Rankfeed - Social Feed Recommendation Service
// Copyright 2026 Rankfeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rankfeed/rankfeed

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestAPIRequestCounter(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/user/{id}", "200"))
	APIRequestsTotal.WithLabelValues("GET", "/user/{id}", "200").Inc()
	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/user/{id}", "200"))
	if after != before+1 {
		t.Errorf("counter = %f, want %f", after, before+1)
	}
}

func TestActiveRequestsGauge(t *testing.T) {
	APIActiveRequests.Inc()
	APIActiveRequests.Dec()
	// Other tests may run concurrently; only verify the gauge is readable.
	_ = testutil.ToFloat64(APIActiveRequests)
}

func TestRankOutcomeCounter(t *testing.T) {
	for _, outcome := range []string{"success", "unknown_user", "error"} {
		RankRequestsTotal.WithLabelValues(outcome).Inc()
		if v := testutil.ToFloat64(RankRequestsTotal.WithLabelValues(outcome)); v < 1 {
			t.Errorf("rank counter %s = %f, want >= 1", outcome, v)
		}
	}
}

func TestFeatureStoreGauges(t *testing.T) {
	FeatureStoreRows.WithLabelValues("post_features").Set(1000)
	if v := testutil.ToFloat64(FeatureStoreRows.WithLabelValues("post_features")); v != 1000 {
		t.Errorf("feature store gauge = %f, want 1000", v)
	}

	// Histograms only need to accept observations without panicking.
	DBQueryDuration.WithLabelValues("get_user").Observe(0.002)
	RankDuration.Observe(0.01)
	RankCandidates.Observe(42)
	ModelInferenceDuration.Observe(0.001)
}
