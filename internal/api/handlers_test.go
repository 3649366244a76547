// Rankfeed - Social Feed Recommendation Service
// Copyright 2026 Rankfeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rankfeed/rankfeed

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/rankfeed/rankfeed/internal/classifier"
	"github.com/rankfeed/rankfeed/internal/config"
	"github.com/rankfeed/rankfeed/internal/database"
	"github.com/rankfeed/rankfeed/internal/features"
	"github.com/rankfeed/rankfeed/internal/models"
	"github.com/rankfeed/rankfeed/internal/ranking"
)

// constantScoreModel writes an artifact whose single split no row ever
// clears, so every candidate scores the same and ranking falls back to
// candidate pool order. That keeps route expectations exact.
func constantScoreModel(t *testing.T) *classifier.Model {
	t.Helper()
	artifact := map[string]interface{}{
		"feature_names": features.JoinColumns(),
		"bias":          0.0,
		"scale":         1.0,
		"trees": []map[string]interface{}{
			{
				"features":    []int{0},
				"thresholds":  []float64{1e9},
				"leaf_values": []float64{0, 1},
			},
		},
	}
	data, err := json.Marshal(artifact)
	if err != nil {
		t.Fatalf("marshal artifact: %v", err)
	}
	path := filepath.Join(t.TempDir(), "model.json")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write artifact: %v", err)
	}
	m, err := classifier.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return m
}

func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Path:         ":memory:",
			MaxMemory:    "256MB",
			Threads:      2,
			QueryTimeout: 5 * time.Second,
			SeedMockData: true,
		},
		Features: config.FeaturesConfig{RowLimit: 1000},
		API:      config.APIConfig{DefaultLimit: 10, MaxLimit: 5},
		Security: config.SecurityConfig{RateLimitDisabled: true},
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		t.Fatalf("database.New() error = %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})

	store, err := features.Load(context.Background(), db, cfg.Features.RowLimit)
	if err != nil {
		t.Fatalf("features.Load() error = %v", err)
	}

	ranker, err := ranking.New(store, constantScoreModel(t))
	if err != nil {
		t.Fatalf("ranking.New() error = %v", err)
	}

	handler := NewHandler(db, store, ranker, cfg)
	srv := httptest.NewServer(NewRouter(handler, &cfg.Security).Setup())
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, out interface{}) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			t.Errorf("close body: %v", err)
		}
	}()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s response: %v", url, err)
		}
	}
	return resp.StatusCode
}

func TestGetUserRoute(t *testing.T) {
	srv := setupTestServer(t)

	t.Run("found", func(t *testing.T) {
		var u models.User
		if status := getJSON(t, srv.URL+"/user/200", &u); status != http.StatusOK {
			t.Fatalf("status = %d, want 200", status)
		}
		if u.ID != 200 || u.City != "Moscow" {
			t.Errorf("user = %+v, want id 200 in Moscow", u)
		}
	})

	t.Run("not found", func(t *testing.T) {
		var apiErr models.APIError
		if status := getJSON(t, srv.URL+"/user/999", &apiErr); status != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", status)
		}
		if apiErr.Code != "NOT_FOUND" {
			t.Errorf("error code = %q, want NOT_FOUND", apiErr.Code)
		}
	})

	t.Run("invalid id", func(t *testing.T) {
		var apiErr models.APIError
		if status := getJSON(t, srv.URL+"/user/abc", &apiErr); status != http.StatusUnprocessableEntity {
			t.Fatalf("status = %d, want 422", status)
		}
		if apiErr.Code != "VALIDATION_ERROR" {
			t.Errorf("error code = %q, want VALIDATION_ERROR", apiErr.Code)
		}
	})
}

func TestGetPostRoute(t *testing.T) {
	srv := setupTestServer(t)

	var p models.Post
	if status := getJSON(t, srv.URL+"/post/3", &p); status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if p.ID != 3 || p.Topic != "tech" {
		t.Errorf("post = %+v, want tech post 3", p)
	}

	if status := getJSON(t, srv.URL+"/post/999", nil); status != http.StatusNotFound {
		t.Errorf("status = %d, want 404", status)
	}
}

func TestFeedRoutes(t *testing.T) {
	srv := setupTestServer(t)

	t.Run("user feed newest first", func(t *testing.T) {
		var events []models.FeedEvent
		if status := getJSON(t, srv.URL+"/user/200/feed", &events); status != http.StatusOK {
			t.Fatalf("status = %d, want 200", status)
		}
		if len(events) != 3 {
			t.Fatalf("got %d events, want 3", len(events))
		}
		for i := 1; i < len(events); i++ {
			if events[i].Time.After(events[i-1].Time) {
				t.Errorf("events not newest first")
			}
		}
	})

	t.Run("limit truncates", func(t *testing.T) {
		var events []models.FeedEvent
		if status := getJSON(t, srv.URL+"/user/200/feed?limit=1", &events); status != http.StatusOK {
			t.Fatalf("status = %d, want 200", status)
		}
		if len(events) != 1 || events[0].PostID != 5 {
			t.Errorf("events = %+v, want single newest event for post 5", events)
		}
	})

	t.Run("post feed", func(t *testing.T) {
		var events []models.FeedEvent
		if status := getJSON(t, srv.URL+"/post/1/feed", &events); status != http.StatusOK {
			t.Fatalf("status = %d, want 200", status)
		}
		if len(events) != 2 {
			t.Errorf("got %d events, want 2", len(events))
		}
	})

	t.Run("unknown subject yields empty list", func(t *testing.T) {
		var events []models.FeedEvent
		if status := getJSON(t, srv.URL+"/user/4242/feed", &events); status != http.StatusOK {
			t.Fatalf("status = %d, want 200", status)
		}
		if events == nil || len(events) != 0 {
			t.Errorf("events = %v, want empty array", events)
		}
	})

	t.Run("negative limit rejected", func(t *testing.T) {
		var apiErr models.APIError
		if status := getJSON(t, srv.URL+"/user/200/feed?limit=-1", &apiErr); status != http.StatusUnprocessableEntity {
			t.Fatalf("status = %d, want 422", status)
		}
		if apiErr.Code != "VALIDATION_ERROR" {
			t.Errorf("error code = %q, want VALIDATION_ERROR", apiErr.Code)
		}
	})
}

func TestRecommendationsRoute(t *testing.T) {
	srv := setupTestServer(t)
	const when = "2026-03-14T18:30:00"

	t.Run("returns last posts in pool order", func(t *testing.T) {
		// User 200 has liked post 1; with equal scores the remaining pool
		// is posts 2..8 in id order, so limit 3 returns the tail.
		var posts []models.PostSummary
		url := srv.URL + "/post/recommendations/?id=200&time=" + when + "&limit=3"
		if status := getJSON(t, url, &posts); status != http.StatusOK {
			t.Fatalf("status = %d, want 200", status)
		}
		want := []int64{6, 7, 8}
		if len(posts) != len(want) {
			t.Fatalf("got %d posts, want %d: %+v", len(posts), len(want), posts)
		}
		for i, id := range want {
			if posts[i].ID != id {
				t.Errorf("posts[%d].ID = %d, want %d", i, posts[i].ID, id)
			}
		}
	})

	t.Run("excludes liked posts", func(t *testing.T) {
		// User 201 has liked posts 3 and 6.
		var posts []models.PostSummary
		url := srv.URL + "/post/recommendations/?id=201&time=" + when + "&limit=" + "5"
		if status := getJSON(t, url, &posts); status != http.StatusOK {
			t.Fatalf("status = %d, want 200", status)
		}
		for _, p := range posts {
			if p.ID == 3 || p.ID == 6 {
				t.Errorf("liked post %d returned", p.ID)
			}
		}
	})

	t.Run("limit capped at configured maximum", func(t *testing.T) {
		var posts []models.PostSummary
		url := srv.URL + "/post/recommendations/?id=200&time=" + when + "&limit=50"
		if status := getJSON(t, url, &posts); status != http.StatusOK {
			t.Fatalf("status = %d, want 200", status)
		}
		if len(posts) != 5 {
			t.Errorf("got %d posts, want max limit 5", len(posts))
		}
	})

	t.Run("rfc3339 time accepted", func(t *testing.T) {
		url := srv.URL + "/post/recommendations/?id=200&time=2026-03-14T18:30:00Z&limit=1"
		if status := getJSON(t, url, nil); status != http.StatusOK {
			t.Errorf("status = %d, want 200", status)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		var apiErr models.APIError
		url := srv.URL + "/post/recommendations/?id=999&time=" + when
		if status := getJSON(t, url, &apiErr); status != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", status)
		}
		if apiErr.Code != "UNKNOWN_USER" {
			t.Errorf("error code = %q, want UNKNOWN_USER", apiErr.Code)
		}
	})

	t.Run("missing parameters", func(t *testing.T) {
		tests := []struct {
			name string
			url  string
		}{
			{name: "no id", url: "/post/recommendations/?time=" + when},
			{name: "no time", url: "/post/recommendations/?id=200"},
			{name: "bad time", url: "/post/recommendations/?id=200&time=yesterday"},
			{name: "bad id", url: "/post/recommendations/?id=abc&time=" + when},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if status := getJSON(t, srv.URL+tt.url, nil); status != http.StatusUnprocessableEntity {
					t.Errorf("status = %d, want 422", status)
				}
			})
		}
	})
}

func TestHealthRoute(t *testing.T) {
	srv := setupTestServer(t)

	var resp struct {
		Status string `json:"status"`
		Users  int    `json:"feature_store_users"`
		Posts  int    `json:"feature_store_posts"`
	}
	if status := getJSON(t, srv.URL+"/health", &resp); status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if resp.Status != "ok" || resp.Users != 4 || resp.Posts != 8 {
		t.Errorf("health = %+v, want ok with 4 users and 8 posts", resp)
	}
}

func TestMetricsRoute(t *testing.T) {
	srv := setupTestServer(t)

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			t.Errorf("close body: %v", err)
		}
	}()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestRequestIDHeaderPresent(t *testing.T) {
	srv := setupTestServer(t)

	resp, err := http.Get(srv.URL + "/user/200")
	if err != nil {
		t.Fatalf("GET /user/200: %v", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			t.Errorf("close body: %v", err)
		}
	}()
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("response missing X-Request-ID header")
	}
}
