package weather

import (
	"context"
)

// Regressor is a fitted multi-output regressor. Predict is called once per
// batch and returns one output vector per row.
type Regressor interface {
	Kind() string
	Predict(rows [][]float64) ([][]float64, error)
}

// Classifier is a fitted classifier returning one integer class code per row.
type Classifier interface {
	Kind() string
	Predict(rows [][]float64) ([]int, error)
}

// LabelDecoder turns class codes back into condition strings.
type LabelDecoder interface {
	Decode(codes []int) ([]string, error)
}

// Loader supplies a deserialized model package (e.g. from disk or a model
// registry). Missing or corrupt packages are the loader's errors to report.
type Loader interface {
	Load(ctx context.Context) (RawArtifact, error)
}
