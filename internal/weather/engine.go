package weather

import (
	"fmt"
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// outputPrecision is the number of decimal digits kept on every regression
// output.
const outputPrecision = 2

// Infer runs the granularity's regressor and classifier once over the whole
// batch and zips the outputs with points, in order. points and rows must be
// aligned. Either every record is returned or an error.
func Infer(model *CanonicalModel, g Granularity, points []TimePoint, rows []FeatureRow) ([]PredictionRecord, error) {
	if model == nil {
		return nil, fmt.Errorf("%w: no model loaded", ErrModelUnavailable)
	}
	comp := model.Component(g)
	if !comp.Ready() {
		return nil, fmt.Errorf("%w: %s regressor or classifier missing", ErrModelUnavailable, g)
	}
	if len(points) != len(rows) {
		return nil, fmt.Errorf("%w: %d time points for %d feature rows", ErrInferenceFailure, len(points), len(rows))
	}

	batch := make([][]float64, len(rows))
	for i, r := range rows {
		batch[i] = r
	}

	values, err := comp.Regressor.Predict(batch)
	if err != nil {
		return nil, fmt.Errorf("%w: %s regressor: %w", ErrInferenceFailure, g, err)
	}
	if len(values) != len(rows) {
		return nil, fmt.Errorf("%w: regressor returned %d rows for %d inputs", ErrInferenceFailure, len(values), len(rows))
	}

	codes, err := comp.Classifier.Predict(batch)
	if err != nil {
		return nil, fmt.Errorf("%w: %s classifier: %w", ErrInferenceFailure, g, err)
	}
	if len(codes) != len(rows) {
		return nil, fmt.Errorf("%w: classifier returned %d rows for %d inputs", ErrInferenceFailure, len(codes), len(rows))
	}

	conditions, err := decodeConditions(model.Encoder(g), codes)
	if err != nil {
		return nil, fmt.Errorf("%w: %s label encoder: %w", ErrInferenceFailure, g, err)
	}

	targets := comp.TargetNames
	records := make([]PredictionRecord, len(points))
	for i, p := range points {
		if len(values[i]) != len(targets) {
			return nil, fmt.Errorf("%w: regressor produced %d outputs, model declares %d targets", ErrInferenceFailure, len(values[i]), len(targets))
		}
		vals := make(map[string]float64, len(targets))
		for j, name := range targets {
			v := values[i][j]
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: non-finite regressor output %v for %s at row %d", ErrInferenceFailure, v, name, i)
			}
			vals[name] = Round(v)
		}
		records[i] = PredictionRecord{
			Point:     p,
			Targets:   targets,
			Values:    vals,
			Condition: conditions[i],
		}
	}
	return records, nil
}

// Round rounds v half away from zero to two decimal digits. NaN and ±Inf
// are returned unchanged.
func Round(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	f, _ := decimal.NewFromFloat(v).Round(outputPrecision).Float64()
	return f
}

func decodeConditions(dec LabelDecoder, codes []int) ([]string, error) {
	if dec == nil {
		out := make([]string, len(codes))
		for i, c := range codes {
			out[i] = strconv.Itoa(c)
		}
		return out, nil
	}

	conds, err := dec.Decode(codes)
	if err != nil {
		return nil, err
	}
	if len(conds) != len(codes) {
		return nil, fmt.Errorf("decoded %d labels for %d codes", len(conds), len(codes))
	}
	return conds, nil
}
