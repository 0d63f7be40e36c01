package weather

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyArtifact(t *testing.T) {
	reg, clf := &fakeRegressor{}, &fakeClassifier{}

	combined := combinedArtifact(reg, clf, reg, clf)
	assert.IsType(t, CombinedArtifact{}, ClassifyArtifact(combined))

	partial := RawArtifact{"regressor": reg, "classifier": clf, "feature_columns": []string{"day", "month", "year"}}
	shape, ok := ClassifyArtifact(partial).(PartialArtifact)
	require.True(t, ok)
	assert.Equal(t, Daily, shape.Granularity)

	partial["feature_columns"] = []any{"day", "month", "year", "hour"}
	shape, ok = ClassifyArtifact(partial).(PartialArtifact)
	require.True(t, ok)
	assert.Equal(t, Hourly, shape.Granularity)

	assert.IsType(t, UnrecognizedArtifact{}, ClassifyArtifact(RawArtifact{"model": reg}))
	// hourly must be a mapping for the combined layout.
	assert.IsType(t, UnrecognizedArtifact{}, ClassifyArtifact(RawArtifact{"hourly": "x", "daily": "y"}))
}

func TestNormalizeCombined(t *testing.T) {
	hReg, hClf := &fakeRegressor{}, &fakeClassifier{}
	dReg, dClf := &fakeRegressor{}, &fakeClassifier{}

	m := Normalize(combinedArtifact(hReg, hClf, dReg, dClf))

	assert.Same(t, hReg, m.Hourly.Regressor)
	assert.Same(t, hClf, m.Hourly.Classifier)
	assert.Same(t, dReg, m.Daily.Regressor)
	assert.Same(t, dClf, m.Daily.Classifier)
	assert.Equal(t, []string{"year", "month", "day", "hour"}, m.Hourly.FeatureColumns)
	assert.NotNil(t, m.Encoders.Hourly)
	assert.NotNil(t, m.Encoders.Daily)
	assert.Equal(t, Meta{Version: "v4", TrainedDate: "2025-12-01"}, m.Meta)
}

func TestNormalizePartialDailyOnly(t *testing.T) {
	reg, clf := &fakeRegressor{}, &fakeClassifier{}
	m := Normalize(RawArtifact{
		"regressor":       reg,
		"classifier":      clf,
		"feature_columns": []string{"month", "day", "year"},
		"label_encoder":   fakeEncoder{classes: []string{"Clear"}},
	})

	assert.False(t, m.Hourly.Ready())
	assert.Nil(t, m.Hourly.Regressor)
	assert.Nil(t, m.Encoders.Hourly)
	assert.True(t, m.Daily.Ready())
	assert.Equal(t, []string{"month", "day", "year"}, m.Daily.FeatureColumns)
	assert.Equal(t, defaultDailyTargets, m.Daily.TargetNames)
	assert.NotNil(t, m.Encoders.Daily)
}

func TestNormalizeUnrecognizedIsEmptyNotError(t *testing.T) {
	m := Normalize(RawArtifact{"weights": []float64{1, 2}})

	require.NotNil(t, m)
	assert.False(t, m.Hourly.Ready())
	assert.False(t, m.Daily.Ready())
	assert.Equal(t, UnknownVersion, m.Meta.Version)
	assert.Equal(t, UnknownTrainedDate, m.Meta.TrainedDate)
	assert.Equal(t, defaultHourlyFeatures, m.Hourly.FeatureColumns)
}

func TestNormalizeIgnoresWrongTypes(t *testing.T) {
	m := Normalize(RawArtifact{
		"regressor":  "not a regressor",
		"classifier": &fakeClassifier{},
	})
	assert.Nil(t, m.Daily.Regressor)
	assert.NotNil(t, m.Daily.Classifier)
	assert.False(t, m.Daily.Ready())
}

func TestNormalizeIsIdempotent(t *testing.T) {
	raw := combinedArtifact(&fakeRegressor{}, &fakeClassifier{}, &fakeRegressor{}, &fakeClassifier{})

	first := Normalize(raw)
	second := Normalize(raw)
	assert.Equal(t, first, second)
	assert.NotSame(t, first, second)
}
