// Rankfeed - Social Feed Recommendation Service
// Copyright 2026 Rankfeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rankfeed/rankfeed

package classifier

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
)

// testArtifact builds a two-feature, single-tree artifact:
// split on feature 0 at 0.5, leaves [-1, +1].
func testArtifact() artifact {
	return artifact{
		FeatureNames: []string{"a", "b"},
		Bias:         0,
		Scale:        1,
		Trees: []treeArtifact{
			{
				Features:   []int{0},
				Thresholds: []float64{0.5},
				LeafValues: []float64{-1, 1},
			},
		},
	}
}

func writeArtifact(t *testing.T, art artifact) string {
	t.Helper()
	data, err := json.Marshal(art)
	if err != nil {
		t.Fatalf("marshal artifact: %v", err)
	}
	path := filepath.Join(t.TempDir(), "model.json")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write artifact: %v", err)
	}
	return path
}

func TestLoadAndPredict(t *testing.T) {
	m, err := Load(writeArtifact(t, testArtifact()))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	probs, err := m.PredictProba([][]float64{
		{0.0, 0.0}, // a <= 0.5 -> leaf -1 -> sigmoid(-1)
		{1.0, 0.0}, // a > 0.5  -> leaf +1 -> sigmoid(+1)
	})
	if err != nil {
		t.Fatalf("PredictProba() error = %v", err)
	}

	wantLow := 1.0 / (1.0 + math.Exp(1.0))
	wantHigh := 1.0 / (1.0 + math.Exp(-1.0))
	if math.Abs(probs[0]-wantLow) > 1e-12 {
		t.Errorf("probs[0] = %f, want %f", probs[0], wantLow)
	}
	if math.Abs(probs[1]-wantHigh) > 1e-12 {
		t.Errorf("probs[1] = %f, want %f", probs[1], wantHigh)
	}
}

func TestPredictDeeperTree(t *testing.T) {
	// Depth-2 tree: level 0 splits feature 0 at 0, level 1 splits feature 1
	// at 0. Leaf index bit 0 set when f0 > 0, bit 1 set when f1 > 0.
	art := artifact{
		FeatureNames: []string{"x", "y"},
		Trees: []treeArtifact{
			{
				Features:   []int{0, 1},
				Thresholds: []float64{0, 0},
				LeafValues: []float64{10, 20, 30, 40},
			},
		},
	}
	m, err := newModel(art)
	if err != nil {
		t.Fatalf("newModel() error = %v", err)
	}

	tests := []struct {
		row      []float64
		wantLeaf float64
	}{
		{[]float64{-1, -1}, 10}, // 00
		{[]float64{1, -1}, 20},  // 01
		{[]float64{-1, 1}, 30},  // 10
		{[]float64{1, 1}, 40},   // 11
	}
	for _, tt := range tests {
		got := m.rawScore(tt.row)
		if got != tt.wantLeaf {
			t.Errorf("rawScore(%v) = %f, want %f", tt.row, got, tt.wantLeaf)
		}
	}
}

func TestPredictBiasAndScale(t *testing.T) {
	art := testArtifact()
	art.Bias = 0.5
	art.Scale = 2.0
	m, err := newModel(art)
	if err != nil {
		t.Fatalf("newModel() error = %v", err)
	}

	// a > 0.5 -> leaf +1, raw = 0.5 + 2*1 = 2.5
	if got := m.rawScore([]float64{1, 0}); got != 2.5 {
		t.Errorf("rawScore = %f, want 2.5", got)
	}
}

func TestPredictRowLengthMismatch(t *testing.T) {
	m, err := newModel(testArtifact())
	if err != nil {
		t.Fatalf("newModel() error = %v", err)
	}

	if _, err := m.PredictProba([][]float64{{1.0}}); err == nil {
		t.Error("PredictProba() with short row should fail")
	}
}

func TestLoadInvalidArtifacts(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*artifact)
	}{
		{"no feature names", func(a *artifact) { a.FeatureNames = nil }},
		{"no trees", func(a *artifact) { a.Trees = nil }},
		{"no splits", func(a *artifact) { a.Trees[0].Features = nil; a.Trees[0].Thresholds = nil }},
		{"threshold count mismatch", func(a *artifact) { a.Trees[0].Thresholds = []float64{1, 2} }},
		{"wrong leaf count", func(a *artifact) { a.Trees[0].LeafValues = []float64{1, 2, 3} }},
		{"feature index out of range", func(a *artifact) { a.Trees[0].Features = []int{5} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			art := testArtifact()
			tt.mutate(&art)
			if _, err := newModel(art); err == nil {
				t.Error("newModel() should fail for invalid artifact")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("Load() of missing file should fail")
	}
}

func TestResolvePath(t *testing.T) {
	if got := ResolvePath("model/classifier.json"); got != "model/classifier.json" {
		t.Errorf("ResolvePath = %q, want configured path", got)
	}

	t.Setenv(HostedEvalEnvVar, "1")
	if got := ResolvePath("model/classifier.json"); got != hostedEvalModelPath {
		t.Errorf("ResolvePath = %q, want hosted eval path", got)
	}
}
