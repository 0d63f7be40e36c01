package weather

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"
)

// Start is the caller-supplied first slot of a forecast. Hour is ignored
// for daily forecasts.
type Start struct {
	Year  int
	Month int
	Day   int
	Hour  int
}

// Time validates s as a real calendar date and returns it in UTC.
func (s Start) Time() (time.Time, error) {
	if s.Month < 1 || s.Month > 12 {
		return time.Time{}, fmt.Errorf("%w: month %d", ErrInvalidCalendarInput, s.Month)
	}
	if s.Hour < 0 || s.Hour > 23 {
		return time.Time{}, fmt.Errorf("%w: hour %d", ErrInvalidCalendarInput, s.Hour)
	}
	t := time.Date(s.Year, time.Month(s.Month), s.Day, s.Hour, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (April 31 becomes May 1); a real date
	// survives the round trip unchanged.
	if t.Year() != s.Year || int(t.Month()) != s.Month || t.Day() != s.Day {
		return time.Time{}, fmt.Errorf("%w: %04d-%02d-%02d does not exist", ErrInvalidCalendarInput, s.Year, s.Month, s.Day)
	}
	return t, nil
}

// Service orchestrates range expansion, feature building and inference
// against the currently loaded model.
type Service struct {
	models *ModelHandle
	loader Loader
}

// NewService creates a new Service. loader may be nil when the model is
// installed directly with Install.
func NewService(models *ModelHandle, loader Loader) *Service {
	if models == nil {
		models = NewModelHandle(nil)
	}
	return &Service{
		models: models,
		loader: loader,
	}
}

// Predict forecasts count consecutive slots of granularity g beginning at
// start. The start date is validated before any estimator runs.
func (s *Service) Predict(g Granularity, start Start, count int) (Prediction, error) {
	if !g.Valid() {
		return Prediction{}, fmt.Errorf("%w: unknown granularity %q", ErrInvalidCalendarInput, g)
	}
	if g == Daily {
		start.Hour = 0
	}
	from, err := start.Time()
	if err != nil {
		return Prediction{}, err
	}

	// One snapshot for the whole call, even if a reload lands meanwhile.
	model := s.models.Load()
	if model == nil {
		return Prediction{}, fmt.Errorf("%w: no model loaded", ErrModelUnavailable)
	}

	points := Expand(g, from, count)
	rows, err := BuildFeatures(points, model.Component(g).FeatureColumns)
	if err != nil {
		return Prediction{}, err
	}

	records, err := Infer(model, g, points, rows)
	if err != nil {
		return Prediction{}, err
	}

	return Prediction{
		Granularity:  g,
		ModelVersion: model.Meta.Version,
		Records:      records,
	}, nil
}

// Info summarizes the loaded model without running inference.
func (s *Service) Info() ModelInfo {
	model := s.models.Load()
	if model == nil {
		return ModelInfo{Loaded: false}
	}
	return ModelInfo{
		Loaded:      true,
		Version:     model.Meta.Version,
		TrainedDate: model.Meta.TrainedDate,
		Hourly:      componentInfo(model.Hourly, model.Encoders.Hourly),
		Daily:       componentInfo(model.Daily, model.Encoders.Daily),
	}
}

// Loaded reports whether a model is installed.
func (s *Service) Loaded() bool {
	return s.models.Load() != nil
}

// Install normalizes raw and makes it the current model.
func (s *Service) Install(raw RawArtifact) *CanonicalModel {
	m := Normalize(raw)
	s.models.Swap(m)
	return m
}

// Reload fetches a fresh package from the loader and swaps it in. On error
// the previous model keeps serving.
func (s *Service) Reload(ctx context.Context) (ModelInfo, error) {
	if s.loader == nil {
		return ModelInfo{}, fmt.Errorf("no model loader configured")
	}

	raw, err := s.loader.Load(ctx)
	if err != nil {
		slog.Error("model reload failed", "error", err)
		return ModelInfo{}, err
	}

	m := s.Install(raw)
	slog.Info("model loaded",
		"version", m.Meta.Version,
		"trained_date", m.Meta.TrainedDate,
		"hourly_ready", m.Hourly.Ready(),
		"daily_ready", m.Daily.Ready(),
	)
	return s.Info(), nil
}

func componentInfo(c Component, enc LabelDecoder) ComponentInfo {
	info := ComponentInfo{
		RegressorPresent:  c.Regressor != nil,
		ClassifierPresent: c.Classifier != nil,
		EncoderPresent:    enc != nil,
		Features:          slices.Clone(c.FeatureColumns),
		Targets:           slices.Clone(c.TargetNames),
	}
	if c.Regressor != nil {
		info.Regressor = c.Regressor.Kind()
	}
	if c.Classifier != nil {
		info.Classifier = c.Classifier.Kind()
	}
	return info
}
