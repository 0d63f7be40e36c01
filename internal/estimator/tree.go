package estimator

import (
	"errors"
	"fmt"
)

// leafMarker is the child index sklearn uses for "no child".
const leafMarker = -1

var errMalformedTree = errors.New("malformed tree")

// Tree is a fitted binary decision tree in the array layout sklearn exposes
// on tree_: node i splits on Feature[i] at Threshold[i] and sends rows with
// x <= threshold to ChildrenLeft[i]. Leaves have both children set to -1 and
// carry their output in Value[i].
type Tree struct {
	Feature       []int       `json:"feature"`
	Threshold     []float64   `json:"threshold"`
	ChildrenLeft  []int       `json:"children_left"`
	ChildrenRight []int       `json:"children_right"`
	Value         [][]float64 `json:"value"`
}

// validate checks the arrays once so that leaf() can walk the tree without
// bounds checks. Children must point forward (preorder), which also rules
// out cycles.
func (t *Tree) validate(nFeatures, width int) error {
	n := len(t.Feature)
	if n == 0 {
		return fmt.Errorf("%w: no nodes", errMalformedTree)
	}
	if len(t.Threshold) != n || len(t.ChildrenLeft) != n || len(t.ChildrenRight) != n || len(t.Value) != n {
		return fmt.Errorf("%w: node arrays differ in length", errMalformedTree)
	}

	for i := 0; i < n; i++ {
		left, right := t.ChildrenLeft[i], t.ChildrenRight[i]
		if left == leafMarker || right == leafMarker {
			if left != right {
				return fmt.Errorf("%w: node %d has a single child", errMalformedTree, i)
			}
			if len(t.Value[i]) != width {
				return fmt.Errorf("%w: leaf %d has %d outputs, want %d", errMalformedTree, i, len(t.Value[i]), width)
			}
			continue
		}
		if left <= i || left >= n || right <= i || right >= n {
			return fmt.Errorf("%w: node %d has children out of order", errMalformedTree, i)
		}
		if t.Feature[i] < 0 || t.Feature[i] >= nFeatures {
			return fmt.Errorf("%w: node %d splits on feature %d of %d", errMalformedTree, i, t.Feature[i], nFeatures)
		}
	}
	return nil
}

// leaf returns the output stored at the leaf reached by row.
func (t *Tree) leaf(row []float64) []float64 {
	node := 0
	for t.ChildrenLeft[node] != leafMarker {
		if row[t.Feature[node]] <= t.Threshold[node] {
			node = t.ChildrenLeft[node]
		} else {
			node = t.ChildrenRight[node]
		}
	}
	return t.Value[node]
}

func checkRows(rows [][]float64, nFeatures int, kind string) error {
	for i, row := range rows {
		if len(row) != nFeatures {
			return fmt.Errorf("row %d has %d features, but %s is expecting %d features as input", i, len(row), kind, nFeatures)
		}
	}
	return nil
}
