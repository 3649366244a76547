// Rankfeed - Social Feed Recommendation Service
// Copyright 2026 Rankfeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rankfeed/rankfeed

// Package classifier loads a pre-trained gradient-boosted binary classifier
// and runs batch probability inference over feature rows.
//
// The artifact is a JSON export of an oblivious-tree ensemble: every tree
// applies one (feature, threshold) split per depth level, so a row's leaf
// index is the bit pattern of its split outcomes. The raw ensemble score is
// bias + scale * sum of leaf values, and the positive-class probability is
// the logistic of the raw score.
//
// The model is loaded once at startup and never mutated afterwards; it is
// safe for concurrent use.
package classifier

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/goccy/go-json"

	"github.com/rankfeed/rankfeed/internal/logging"
	"github.com/rankfeed/rankfeed/internal/metrics"
)

// HostedEvalEnvVar selects the fixed hosted-evaluation artifact path when set
// to "1", overriding the configured path.
const HostedEvalEnvVar = "HOSTED_EVAL"

// hostedEvalModelPath is where hosted-evaluation environments mount the
// artifact.
const hostedEvalModelPath = "/workdir/user_input/model.json"

// ResolvePath returns the artifact path to load, applying the
// hosted-evaluation override.
func ResolvePath(configured string) string {
	if os.Getenv(HostedEvalEnvVar) == "1" {
		return hostedEvalModelPath
	}
	return configured
}

// artifact is the on-disk JSON layout.
type artifact struct {
	FeatureNames []string       `json:"feature_names"`
	Bias         float64        `json:"bias"`
	Scale        float64        `json:"scale"`
	Trees        []treeArtifact `json:"trees"`
}

type treeArtifact struct {
	// Features and Thresholds hold one split per depth level.
	Features   []int     `json:"features"`
	Thresholds []float64 `json:"thresholds"`
	// LeafValues has 2^depth entries, indexed by the split-outcome bits.
	LeafValues []float64 `json:"leaf_values"`
}

// Model is a loaded classifier ready for inference.
type Model struct {
	featureNames []string
	bias         float64
	scale        float64
	trees        []treeArtifact
}

// Load reads and validates a model artifact from path.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model artifact %s: %w", path, err)
	}

	var art artifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, fmt.Errorf("decoding model artifact %s: %w", path, err)
	}

	m, err := newModel(art)
	if err != nil {
		return nil, fmt.Errorf("invalid model artifact %s: %w", path, err)
	}

	logging.Info().
		Str("path", path).
		Int("trees", len(m.trees)).
		Int("features", len(m.featureNames)).
		Msg("model loaded")

	return m, nil
}

// newModel validates the artifact structure.
func newModel(art artifact) (*Model, error) {
	if len(art.FeatureNames) == 0 {
		return nil, fmt.Errorf("feature_names must not be empty")
	}
	if len(art.Trees) == 0 {
		return nil, fmt.Errorf("trees must not be empty")
	}

	scale := art.Scale
	if scale == 0 {
		scale = 1.0
	}

	for i, tree := range art.Trees {
		depth := len(tree.Features)
		if depth == 0 {
			return nil, fmt.Errorf("tree %d has no splits", i)
		}
		if len(tree.Thresholds) != depth {
			return nil, fmt.Errorf("tree %d has %d thresholds for %d splits", i, len(tree.Thresholds), depth)
		}
		if len(tree.LeafValues) != 1<<depth {
			return nil, fmt.Errorf("tree %d has %d leaf values, want %d", i, len(tree.LeafValues), 1<<depth)
		}
		for _, f := range tree.Features {
			if f < 0 || f >= len(art.FeatureNames) {
				return nil, fmt.Errorf("tree %d references feature index %d outside [0,%d)", i, f, len(art.FeatureNames))
			}
		}
	}

	return &Model{
		featureNames: art.FeatureNames,
		bias:         art.Bias,
		scale:        scale,
		trees:        art.Trees,
	}, nil
}

// FeatureNames returns the model's expected input columns, in order.
func (m *Model) FeatureNames() []string {
	return m.featureNames
}

// NumTrees returns the ensemble size.
func (m *Model) NumTrees() int {
	return len(m.trees)
}

// PredictProba scores a batch of feature rows and returns the
// positive-class probability for each row. Every row must have exactly
// len(FeatureNames()) values in the model's column order.
func (m *Model) PredictProba(rows [][]float64) ([]float64, error) {
	start := time.Now()

	probs := make([]float64, len(rows))
	for i, row := range rows {
		if len(row) != len(m.featureNames) {
			return nil, fmt.Errorf("row %d has %d features, model expects %d", i, len(row), len(m.featureNames))
		}
		probs[i] = sigmoid(m.rawScore(row))
	}

	metrics.ModelInferenceDuration.Observe(time.Since(start).Seconds())
	return probs, nil
}

// rawScore sums the ensemble's leaf values for one row.
func (m *Model) rawScore(row []float64) float64 {
	score := m.bias
	for _, tree := range m.trees {
		leaf := 0
		for level, f := range tree.Features {
			if row[f] > tree.Thresholds[level] {
				leaf |= 1 << level
			}
		}
		score += m.scale * tree.LeafValues[leaf]
	}
	return score
}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}
