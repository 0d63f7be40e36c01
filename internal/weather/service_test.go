package weather

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredictCombinedHourlyScenario(t *testing.T) {
	hReg := &fakeRegressor{out: []float64{23.4567, 80.1, 3.333, 1012.999}}
	hClf := &fakeClassifier{code: 1}
	svc := NewService(nil, nil)
	svc.Install(combinedArtifact(hReg, hClf, &fakeRegressor{}, &fakeClassifier{}))

	pred, err := svc.Predict(Hourly, Start{Year: 2025, Month: 12, Day: 8, Hour: 14}, 3)
	require.NoError(t, err)
	assert.Equal(t, "v4", pred.ModelVersion)
	assert.Equal(t, Hourly, pred.Granularity)
	require.Len(t, pred.Records, 3)

	for i, rec := range pred.Records {
		assert.Equal(t, time.Date(2025, 12, 8, 14+i, 0, 0, 0, time.UTC), rec.Point.Time)
		assert.NotEmpty(t, rec.Condition)
		for _, target := range []string{"temp", "humidity", "windspeed", "sealevelpressure"} {
			assert.Contains(t, rec.Values, target)
		}
		assert.Equal(t, 23.46, rec.Values["temp"])
		assert.Equal(t, 1013.0, rec.Values["sealevelpressure"])
		assert.Equal(t, "Overcast", rec.Condition)
	}
}

func TestPredictDaily(t *testing.T) {
	dReg := &fakeRegressor{out: []float64{20, 28.126, 24, 70, 3, 1010}}
	svc := NewService(nil, nil)
	svc.Install(combinedArtifact(&fakeRegressor{}, &fakeClassifier{}, dReg, &fakeClassifier{code: 1}))

	pred, err := svc.Predict(Daily, Start{Year: 2025, Month: 2, Day: 27, Hour: 17}, 3)
	require.NoError(t, err)
	require.Len(t, pred.Records, 3)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), pred.Records[2].Point.Time)
	assert.Equal(t, 28.13, pred.Records[0].Values["temp_max"])
	assert.Equal(t, "Partially Cloudy", pred.Records[0].Condition)
}

func TestPredictRejectsInvalidCalendarBeforeInference(t *testing.T) {
	hReg, hClf := &fakeRegressor{out: []float64{1, 2, 3, 4}}, &fakeClassifier{}
	svc := NewService(nil, nil)
	svc.Install(combinedArtifact(hReg, hClf, &fakeRegressor{}, &fakeClassifier{}))

	tests := []Start{
		{Year: 2025, Month: 4, Day: 31},
		{Year: 2025, Month: 2, Day: 29},
		{Year: 2025, Month: 13, Day: 1},
		{Year: 2025, Month: 1, Day: 0},
		{Year: 2025, Month: 1, Day: 1, Hour: 24},
	}
	for _, start := range tests {
		_, err := svc.Predict(Hourly, start, 3)
		assert.True(t, errors.Is(err, ErrInvalidCalendarInput), "start %+v", start)
	}
	assert.Zero(t, hReg.Calls())
	assert.Zero(t, hClf.Calls())

	_, err := svc.Predict(Granularity("weekly"), Start{Year: 2025, Month: 1, Day: 1}, 1)
	assert.True(t, errors.Is(err, ErrInvalidCalendarInput))
}

func TestPredictLeapDayIsValid(t *testing.T) {
	_, err := Start{Year: 2024, Month: 2, Day: 29}.Time()
	assert.NoError(t, err)
}

func TestPredictWithoutModel(t *testing.T) {
	svc := NewService(nil, nil)
	_, err := svc.Predict(Daily, Start{Year: 2025, Month: 1, Day: 1}, 1)
	assert.True(t, errors.Is(err, ErrModelUnavailable))
	assert.False(t, svc.Loaded())
	assert.False(t, svc.Info().Loaded)
}

func TestPredictPartialArtifactMissingGranularity(t *testing.T) {
	svc := NewService(nil, nil)
	svc.Install(RawArtifact{
		"regressor":       &fakeRegressor{out: []float64{1, 2, 3, 4, 5, 6}},
		"classifier":      &fakeClassifier{code: 2},
		"feature_columns": []string{"day", "month", "year"},
	})

	_, err := svc.Predict(Hourly, Start{Year: 2025, Month: 1, Day: 1}, 1)
	assert.True(t, errors.Is(err, ErrModelUnavailable))

	pred, err := svc.Predict(Daily, Start{Year: 2025, Month: 1, Day: 1}, 1)
	require.NoError(t, err)
	assert.Equal(t, "2", pred.Records[0].Condition)
	assert.Equal(t, UnknownVersion, pred.ModelVersion)
}

func TestPredictSchemaMismatch(t *testing.T) {
	svc := NewService(nil, nil)
	svc.Install(RawArtifact{
		"regressor":       &fakeRegressor{out: []float64{1}},
		"classifier":      &fakeClassifier{},
		"feature_columns": []string{"day", "month", "year", "dayofyear"},
	})

	_, err := svc.Predict(Daily, Start{Year: 2025, Month: 1, Day: 1}, 1)
	assert.True(t, errors.Is(err, ErrSchemaMismatch))
}

func TestInfoPartialDailyArtifact(t *testing.T) {
	svc := NewService(nil, nil)
	svc.Install(RawArtifact{
		"version":         "v4.1-daily",
		"regressor":       &fakeRegressor{},
		"classifier":      &fakeClassifier{},
		"feature_columns": []string{"day", "month", "year"},
	})

	info := svc.Info()
	assert.True(t, info.Loaded)
	assert.Equal(t, "v4.1-daily", info.Version)
	assert.Equal(t, UnknownTrainedDate, info.TrainedDate)
	assert.False(t, info.Hourly.RegressorPresent)
	assert.False(t, info.Hourly.ClassifierPresent)
	assert.True(t, info.Daily.RegressorPresent)
	assert.True(t, info.Daily.ClassifierPresent)
	assert.False(t, info.Daily.EncoderPresent)
	assert.Equal(t, "FakeRegressor", info.Daily.Regressor)
	assert.Equal(t, []string{"day", "month", "year"}, info.Daily.Features)
}

func TestReloadSwapsModel(t *testing.T) {
	raw := combinedArtifact(&fakeRegressor{out: []float64{1, 2, 3, 4}}, &fakeClassifier{}, &fakeRegressor{}, &fakeClassifier{})
	svc := NewService(nil, fakeLoader{raw: raw})

	info, err := svc.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "v4", info.Version)

	broken := NewService(NewModelHandle(Normalize(raw)), fakeLoader{err: errors.New("file not found")})
	_, err = broken.Reload(context.Background())
	require.Error(t, err)
	assert.Equal(t, "v4", broken.Info().Version, "previous model keeps serving")

	_, err = NewService(nil, nil).Reload(context.Background())
	assert.Error(t, err)
}

func TestConcurrentPredictDuringReload(t *testing.T) {
	mk := func(version string, temp float64) RawArtifact {
		raw := combinedArtifact(&fakeRegressor{out: []float64{temp, 0, 0, 0}}, &fakeClassifier{}, &fakeRegressor{}, &fakeClassifier{})
		raw["version"] = version
		return raw
	}
	svc := NewService(nil, nil)
	svc.Install(mk("a", 1))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				pred, err := svc.Predict(Hourly, Start{Year: 2025, Month: 12, Day: 8}, 24)
				if !assert.NoError(t, err) {
					return
				}
				// Version and values must come from the same model.
				want := map[string]float64{"a": 1, "b": 2}[pred.ModelVersion]
				for _, rec := range pred.Records {
					assert.Equal(t, want, rec.Values["temp"])
				}
			}
		}()
	}
	for j := 0; j < 50; j++ {
		if j%2 == 0 {
			svc.Install(mk("b", 2))
		} else {
			svc.Install(mk("a", 1))
		}
	}
	wg.Wait()
}
