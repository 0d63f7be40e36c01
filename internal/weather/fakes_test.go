package weather

import (
	"context"
	"fmt"
	"sync"
)

// fakeRegressor returns a fixed vector per row, or a function of the row
// when fn is set.
type fakeRegressor struct {
	mu    sync.Mutex
	calls int
	out   []float64
	fn    func(row []float64) []float64
	err   error
}

func (f *fakeRegressor) Kind() string { return "FakeRegressor" }

func (f *fakeRegressor) Predict(rows [][]float64) ([][]float64, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float64, len(rows))
	for i, r := range rows {
		if f.fn != nil {
			out[i] = f.fn(r)
			continue
		}
		out[i] = append([]float64(nil), f.out...)
	}
	return out, nil
}

func (f *fakeRegressor) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeClassifier struct {
	mu    sync.Mutex
	calls int
	code  int
	err   error
}

func (f *fakeClassifier) Kind() string { return "FakeClassifier" }

func (f *fakeClassifier) Predict(rows [][]float64) ([]int, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]int, len(rows))
	for i := range out {
		out[i] = f.code
	}
	return out, nil
}

func (f *fakeClassifier) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeEncoder struct {
	classes []string
}

func (e fakeEncoder) Decode(codes []int) ([]string, error) {
	out := make([]string, len(codes))
	for i, c := range codes {
		if c < 0 || c >= len(e.classes) {
			return nil, fmt.Errorf("unseen label %d", c)
		}
		out[i] = e.classes[c]
	}
	return out, nil
}

type fakeLoader struct {
	raw RawArtifact
	err error
}

func (l fakeLoader) Load(context.Context) (RawArtifact, error) {
	return l.raw, l.err
}

// combinedArtifact mirrors the layout of the v4 combined package.
func combinedArtifact(hReg *fakeRegressor, hClf *fakeClassifier, dReg *fakeRegressor, dClf *fakeClassifier) RawArtifact {
	return RawArtifact{
		"version":      "v4",
		"trained_date": "2025-12-01",
		"hourly": RawArtifact{
			"regressor":         hReg,
			"classifier":        hClf,
			"feature_columns":   []string{"year", "month", "day", "hour"},
			"target_regression": []string{"temp", "humidity", "windspeed", "sealevelpressure"},
		},
		"daily": RawArtifact{
			"regressor":         dReg,
			"classifier":        dClf,
			"feature_columns":   []string{"day", "month", "year"},
			"target_regression": []string{"temp_min", "temp_max", "temp_mean", "humidity_avg", "windspeed_avg", "pressure_avg"},
		},
		"label_encoder_hourly": fakeEncoder{classes: []string{"Clear", "Overcast", "Rain, Overcast"}},
		"label_encoder_daily":  fakeEncoder{classes: []string{"Clear", "Partially Cloudy"}},
	}
}
