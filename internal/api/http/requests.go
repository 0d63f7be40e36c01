package httpapi

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-prediction/internal/store"
	"github.com/i474232898/weather-prediction/internal/weather"
)

// hourlyRequest is the body of POST /hourly. Hour defaults to 0 and
// NumHours to 24.
type hourlyRequest struct {
	Day      int  `json:"day" validate:"required,min=1,max=31"`
	Month    int  `json:"month" validate:"required,min=1,max=12"`
	Year     int  `json:"year" validate:"required,min=2000"`
	Hour     *int `json:"hour" validate:"omitempty,min=0,max=23"`
	NumHours *int `json:"num_hours" validate:"omitempty,min=1,max=168"`
}

// dailyRequest is the body of POST /daily. NumDays defaults to 3.
type dailyRequest struct {
	Day     int  `json:"day" validate:"required,min=1,max=31"`
	Month   int  `json:"month" validate:"required,min=1,max=12"`
	Year    int  `json:"year" validate:"required,min=2000"`
	NumDays *int `json:"num_days" validate:"omitempty,min=1,max=30"`
}

// rangeRequest covers an inclusive span between two dates, each with an
// optional hour.
type rangeRequest struct {
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	StartHour int    `json:"start_hour" validate:"min=0,max=23"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
	EndHour   *int   `json:"end_hour" validate:"omitempty,min=0,max=23"`
	Type      string `json:"type" validate:"omitempty,oneof=hourly daily"`
}

func (r rangeRequest) span() (weather.Granularity, time.Time, time.Time, error) {
	g := weather.Hourly
	if r.Type == string(weather.Daily) {
		g = weather.Daily
	}

	start, err := time.Parse(time.DateOnly, r.StartDate)
	if err != nil {
		return "", time.Time{}, time.Time{}, errors.New("start_date must be YYYY-MM-DD")
	}
	end, err := time.Parse(time.DateOnly, r.EndDate)
	if err != nil {
		return "", time.Time{}, time.Time{}, errors.New("end_date must be YYYY-MM-DD")
	}
	if start.Year() < 2000 {
		return "", time.Time{}, time.Time{}, errors.New("start_date must be in year 2000 or later")
	}

	start = start.Add(time.Duration(r.StartHour) * time.Hour)
	end = end.Add(time.Duration(valueOr(r.EndHour, 23)) * time.Hour)
	return g, start, end, nil
}

// renderRun builds the response envelope around a stored run.
func renderRun(run store.Run, message string) fiber.Map {
	p := run.Prediction
	data := make([]map[string]any, 0, len(p.Records))
	for _, rec := range p.Records {
		data = append(data, rec.Fields())
	}

	return fiber.Map{
		"status":        fiber.StatusOK,
		"message":       message,
		"model_version": p.ModelVersion,
		"granularity":   p.Granularity,
		"run_id":        run.ID,
		"count":         len(data),
		"data":          data,
	}
}
