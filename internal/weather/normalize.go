package weather

import (
	"fmt"
	"slices"
)

// RawArtifact is a deserialized model package as handed over by a Loader.
// Estimator entries hold decoded Regressor, Classifier and LabelDecoder
// values; nested bundles are RawArtifact (or map[string]any) values.
type RawArtifact map[string]any

var (
	defaultHourlyFeatures = []string{"day", "month", "year", "hour"}
	defaultDailyFeatures  = []string{"day", "month", "year"}
	defaultHourlyTargets  = []string{"temp", "humidity", "windspeed", "sealevelpressure"}
	defaultDailyTargets   = []string{"temp_min", "temp_max", "temp_mean", "humidity_avg", "windspeed_avg", "pressure_avg"}
)

// ArtifactShape is the closed set of package layouts ClassifyArtifact
// recognizes: CombinedArtifact, PartialArtifact or UnrecognizedArtifact.
type ArtifactShape interface {
	artifactShape()
}

// CombinedArtifact carries both granularities, with label encoders stored
// next to (not inside) each bundle.
type CombinedArtifact struct {
	Hourly        Component
	Daily         Component
	HourlyEncoder LabelDecoder
	DailyEncoder  LabelDecoder
}

// PartialArtifact carries a single granularity, inferred from whether
// "hour" is one of its feature columns.
type PartialArtifact struct {
	Granularity Granularity
	Component   Component
	Encoder     LabelDecoder
}

// UnrecognizedArtifact matches no known layout; it normalizes to an empty
// model.
type UnrecognizedArtifact struct{}

func (CombinedArtifact) artifactShape()     {}
func (PartialArtifact) artifactShape()      {}
func (UnrecognizedArtifact) artifactShape() {}

// ClassifyArtifact decides which layout raw uses. Entries with an
// unexpected type are treated as absent.
func ClassifyArtifact(raw RawArtifact) ArtifactShape {
	hourly, hasHourly := asMapping(raw["hourly"])
	_, hasDaily := raw["daily"]
	if hasHourly && hasDaily {
		daily, _ := asMapping(raw["daily"])
		return CombinedArtifact{
			Hourly:        readComponent(hourly),
			Daily:         readComponent(daily),
			HourlyEncoder: asDecoder(raw["label_encoder_hourly"]),
			DailyEncoder:  asDecoder(raw["label_encoder_daily"]),
		}
	}

	_, hasRegressor := raw["regressor"]
	_, hasClassifier := raw["classifier"]
	if hasRegressor && hasClassifier {
		c := readComponent(raw)
		g := Daily
		if slices.Contains(c.FeatureColumns, "hour") {
			g = Hourly
		}
		return PartialArtifact{
			Granularity: g,
			Component:   c,
			Encoder:     asDecoder(raw["label_encoder"]),
		}
	}

	return UnrecognizedArtifact{}
}

// Normalize converts any known package layout into a CanonicalModel. It
// never fails: missing parts stay nil and are reported where they are used.
func Normalize(raw RawArtifact) *CanonicalModel {
	m := &CanonicalModel{
		Meta: Meta{
			Version:     stringOr(raw["version"], UnknownVersion),
			TrainedDate: stringOr(raw["trained_date"], UnknownTrainedDate),
		},
	}

	switch shape := ClassifyArtifact(raw).(type) {
	case CombinedArtifact:
		m.Hourly = shape.Hourly
		m.Daily = shape.Daily
		m.Encoders = Encoders{Hourly: shape.HourlyEncoder, Daily: shape.DailyEncoder}
	case PartialArtifact:
		if shape.Granularity == Hourly {
			m.Hourly = shape.Component
			m.Encoders.Hourly = shape.Encoder
		} else {
			m.Daily = shape.Component
			m.Encoders.Daily = shape.Encoder
		}
	case UnrecognizedArtifact:
	}

	m.Hourly = withDefaults(m.Hourly, defaultHourlyFeatures, defaultHourlyTargets)
	m.Daily = withDefaults(m.Daily, defaultDailyFeatures, defaultDailyTargets)
	return m
}

func readComponent(bundle map[string]any) Component {
	c := Component{
		FeatureColumns: asStrings(bundle["feature_columns"]),
		TargetNames:    asStrings(bundle["target_regression"]),
	}
	if r, ok := bundle["regressor"].(Regressor); ok {
		c.Regressor = r
	}
	if cl, ok := bundle["classifier"].(Classifier); ok {
		c.Classifier = cl
	}
	return c
}

func withDefaults(c Component, features, targets []string) Component {
	if len(c.FeatureColumns) == 0 {
		c.FeatureColumns = slices.Clone(features)
	}
	if len(c.TargetNames) == 0 {
		c.TargetNames = slices.Clone(targets)
	}
	return c
}

func asMapping(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case RawArtifact:
		return m, true
	case map[string]any:
		return m, true
	default:
		return nil, false
	}
}

func asDecoder(v any) LabelDecoder {
	if d, ok := v.(LabelDecoder); ok {
		return d
	}
	return nil
}

func asStrings(v any) []string {
	switch s := v.(type) {
	case []string:
		return slices.Clone(s)
	case []any:
		out := make([]string, 0, len(s))
		for _, item := range s {
			str, ok := item.(string)
			if !ok {
				return nil
			}
			out = append(out, str)
		}
		return out
	default:
		return nil
	}
}

func stringOr(v any, def string) string {
	switch s := v.(type) {
	case nil:
		return def
	case string:
		if s == "" {
			return def
		}
		return s
	default:
		return fmt.Sprint(s)
	}
}
