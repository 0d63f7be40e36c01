package weather

import "time"

// ExpandHourly returns count consecutive hourly points starting at start,
// truncated to the hour.
func ExpandHourly(start time.Time, count int) []TimePoint {
	if count <= 0 {
		return []TimePoint{}
	}
	s := start.UTC().Truncate(time.Hour)
	points := make([]TimePoint, count)
	for i := range points {
		points[i] = TimePoint{Time: s.Add(time.Duration(i) * time.Hour), Granularity: Hourly}
	}
	return points
}

// ExpandDaily returns count consecutive calendar days starting at start's
// date.
func ExpandDaily(start time.Time, count int) []TimePoint {
	if count <= 0 {
		return []TimePoint{}
	}
	s := start.UTC()
	points := make([]TimePoint, count)
	for i := range points {
		points[i] = TimePoint{
			Time:        time.Date(s.Year(), s.Month(), s.Day()+i, 0, 0, 0, 0, time.UTC),
			Granularity: Daily,
		}
	}
	return points
}

// Expand dispatches on granularity.
func Expand(g Granularity, start time.Time, count int) []TimePoint {
	if g == Hourly {
		return ExpandHourly(start, count)
	}
	return ExpandDaily(start, count)
}

// SpanCount is the number of points Expand needs to cover [start, end]
// inclusively. It is zero when end precedes start.
func SpanCount(g Granularity, start, end time.Time) int {
	start, end = start.UTC(), end.UTC()
	if g == Hourly {
		start, end = start.Truncate(time.Hour), end.Truncate(time.Hour)
		if end.Before(start) {
			return 0
		}
		return int(end.Sub(start)/time.Hour) + 1
	}

	sd := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	ed := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	if ed.Before(sd) {
		return 0
	}
	return int(ed.Sub(sd)/(24*time.Hour)) + 1
}
