package weather

import (
	"fmt"
)

// BuildFeatures turns each time point into a row whose columns follow
// columns exactly.
func BuildFeatures(points []TimePoint, columns []string) ([]FeatureRow, error) {
	rows := make([]FeatureRow, len(points))
	for i, p := range points {
		row := make(FeatureRow, len(columns))
		for j, col := range columns {
			v, ok := calendarField(p, col)
			if !ok {
				return nil, fmt.Errorf("%w: column %q is not derivable from a %s time point", ErrSchemaMismatch, col, p.Granularity)
			}
			row[j] = float64(v)
		}
		rows[i] = row
	}
	return rows, nil
}

func calendarField(p TimePoint, col string) (int, bool) {
	switch col {
	case "day":
		return p.Time.Day(), true
	case "month":
		return int(p.Time.Month()), true
	case "year":
		return p.Time.Year(), true
	case "hour":
		if p.Granularity != Hourly {
			return 0, false
		}
		return p.Time.Hour(), true
	default:
		return 0, false
	}
}
