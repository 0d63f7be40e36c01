package estimator

import (
	"encoding/json"
	"errors"
	"fmt"
)

const (
	KindForestRegressor  = "random_forest_regressor"
	KindTreeRegressor    = "decision_tree_regressor"
	KindForestClassifier = "random_forest_classifier"
	KindTreeClassifier   = "decision_tree_classifier"
)

// ErrUnknownKind is returned when a serialized estimator names a kind this
// package cannot evaluate.
var ErrUnknownKind = errors.New("unknown estimator kind")

// ForestRegressor averages the leaf outputs of its trees. A single decision
// tree is a forest of one.
type ForestRegressor struct {
	kind      string
	nFeatures int
	nOutputs  int
	trees     []Tree
}

// Kind reports the estimator class name.
func (f *ForestRegressor) Kind() string { return f.kind }

// NumFeatures is the row width the regressor was fitted on.
func (f *ForestRegressor) NumFeatures() int { return f.nFeatures }

// Predict evaluates every row and returns one output vector per row.
func (f *ForestRegressor) Predict(rows [][]float64) ([][]float64, error) {
	if err := checkRows(rows, f.nFeatures, f.kind); err != nil {
		return nil, err
	}

	out := make([][]float64, len(rows))
	scale := 1 / float64(len(f.trees))
	for i, row := range rows {
		acc := make([]float64, f.nOutputs)
		for t := range f.trees {
			for j, v := range f.trees[t].leaf(row) {
				acc[j] += v
			}
		}
		for j := range acc {
			acc[j] *= scale
		}
		out[i] = acc
	}
	return out, nil
}

// ForestClassifier averages per-tree class probabilities and picks the
// most probable class, first one on ties.
type ForestClassifier struct {
	kind      string
	nFeatures int
	classes   []int
	trees     []Tree
}

// Kind reports the estimator class name.
func (f *ForestClassifier) Kind() string { return f.kind }

// Classes returns the integer class codes in probability-column order.
func (f *ForestClassifier) Classes() []int {
	return append([]int(nil), f.classes...)
}

// Predict returns one class code per row.
func (f *ForestClassifier) Predict(rows [][]float64) ([]int, error) {
	if err := checkRows(rows, f.nFeatures, f.kind); err != nil {
		return nil, err
	}

	out := make([]int, len(rows))
	proba := make([]float64, len(f.classes))
	for i, row := range rows {
		clear(proba)
		for t := range f.trees {
			counts := f.trees[t].leaf(row)
			var total float64
			for _, c := range counts {
				total += c
			}
			if total == 0 {
				continue
			}
			for j, c := range counts {
				proba[j] += c / total
			}
		}

		best := 0
		for j := 1; j < len(proba); j++ {
			if proba[j] > proba[best] {
				best = j
			}
		}
		out[i] = f.classes[best]
	}
	return out, nil
}

type regressorWire struct {
	Kind      string `json:"kind"`
	NFeatures int    `json:"n_features"`
	NOutputs  int    `json:"n_outputs"`
	Trees     []Tree `json:"trees"`
	Tree      *Tree  `json:"tree"`
}

type classifierWire struct {
	Kind      string `json:"kind"`
	NFeatures int    `json:"n_features"`
	Classes   []int  `json:"classes"`
	Trees     []Tree `json:"trees"`
	Tree      *Tree  `json:"tree"`
}

// DecodeRegressor parses a serialized regressor and validates its trees.
func DecodeRegressor(data []byte) (*ForestRegressor, error) {
	var w regressorWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decode regressor: %w", err)
	}

	var kind string
	trees := w.Trees
	switch w.Kind {
	case KindForestRegressor:
		kind = "RandomForestRegressor"
	case KindTreeRegressor:
		kind = "DecisionTreeRegressor"
		if w.Tree != nil {
			trees = []Tree{*w.Tree}
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, w.Kind)
	}

	if w.NFeatures <= 0 || w.NOutputs <= 0 {
		return nil, fmt.Errorf("decode regressor: n_features and n_outputs must be positive")
	}
	if len(trees) == 0 {
		return nil, fmt.Errorf("decode regressor: no trees")
	}
	for i := range trees {
		if err := trees[i].validate(w.NFeatures, w.NOutputs); err != nil {
			return nil, fmt.Errorf("decode regressor: tree %d: %w", i, err)
		}
	}

	return &ForestRegressor{
		kind:      kind,
		nFeatures: w.NFeatures,
		nOutputs:  w.NOutputs,
		trees:     trees,
	}, nil
}

// DecodeClassifier parses a serialized classifier and validates its trees.
func DecodeClassifier(data []byte) (*ForestClassifier, error) {
	var w classifierWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decode classifier: %w", err)
	}

	var kind string
	trees := w.Trees
	switch w.Kind {
	case KindForestClassifier:
		kind = "RandomForestClassifier"
	case KindTreeClassifier:
		kind = "DecisionTreeClassifier"
		if w.Tree != nil {
			trees = []Tree{*w.Tree}
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, w.Kind)
	}

	if w.NFeatures <= 0 || len(w.Classes) == 0 {
		return nil, fmt.Errorf("decode classifier: n_features and classes must be set")
	}
	if len(trees) == 0 {
		return nil, fmt.Errorf("decode classifier: no trees")
	}
	for i := range trees {
		if err := trees[i].validate(w.NFeatures, len(w.Classes)); err != nil {
			return nil, fmt.Errorf("decode classifier: tree %d: %w", i, err)
		}
	}

	return &ForestClassifier{
		kind:      kind,
		nFeatures: w.NFeatures,
		classes:   w.Classes,
		trees:     trees,
	}, nil
}
