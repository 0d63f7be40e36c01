package weather

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFeaturesFollowsDeclaredOrder(t *testing.T) {
	points := ExpandHourly(time.Date(2025, 12, 8, 14, 0, 0, 0, time.UTC), 2)

	rows, err := BuildFeatures(points, []string{"hour", "year", "day", "month"})
	require.NoError(t, err)
	assert.Equal(t, []FeatureRow{
		{14, 2025, 8, 12},
		{15, 2025, 8, 12},
	}, rows)
}

func TestBuildFeaturesRoundTripsByName(t *testing.T) {
	columns := []string{"month", "hour", "day", "year"}
	points := ExpandHourly(time.Date(2024, 2, 29, 21, 0, 0, 0, time.UTC), 6)

	rows, err := BuildFeatures(points, columns)
	require.NoError(t, err)
	require.Len(t, rows, len(points))

	lookup := func(row FeatureRow, name string) int {
		return int(row[slices.Index(columns, name)])
	}
	for i, p := range points {
		assert.Equal(t, p.Time.Day(), lookup(rows[i], "day"))
		assert.Equal(t, int(p.Time.Month()), lookup(rows[i], "month"))
		assert.Equal(t, p.Time.Year(), lookup(rows[i], "year"))
		assert.Equal(t, p.Time.Hour(), lookup(rows[i], "hour"))
	}
}

func TestBuildFeaturesDaily(t *testing.T) {
	points := ExpandDaily(time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), 2)

	rows, err := BuildFeatures(points, []string{"day", "month", "year"})
	require.NoError(t, err)
	assert.Equal(t, []FeatureRow{{31, 1, 2025}, {1, 2, 2025}}, rows)
}

func TestBuildFeaturesSchemaMismatch(t *testing.T) {
	hourly := ExpandHourly(time.Date(2025, 12, 8, 0, 0, 0, 0, time.UTC), 1)
	daily := ExpandDaily(time.Date(2025, 12, 8, 0, 0, 0, 0, time.UTC), 1)

	_, err := BuildFeatures(hourly, []string{"day", "month", "year", "dayofweek"})
	assert.True(t, errors.Is(err, ErrSchemaMismatch))

	_, err = BuildFeatures(daily, []string{"day", "month", "year", "hour"})
	assert.True(t, errors.Is(err, ErrSchemaMismatch))
}
