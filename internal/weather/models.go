package weather

import (
	"time"
)

// Granularity selects which half of a model package serves a request.
type Granularity string

const (
	Hourly Granularity = "hourly"
	Daily  Granularity = "daily"
)

// Valid reports whether g is one of the known granularities.
func (g Granularity) Valid() bool {
	return g == Hourly || g == Daily
}

// Metadata fallbacks used when a model package does not carry them.
const (
	UnknownVersion     = "Unknown"
	UnknownTrainedDate = "unknown"
)

// Component is one granularity's estimators plus the column contracts they
// were fitted with. Nil estimators mean the package did not ship them.
type Component struct {
	Regressor      Regressor
	Classifier     Classifier
	FeatureColumns []string
	TargetNames    []string
}

// Ready reports whether both estimators are present.
func (c Component) Ready() bool {
	return c.Regressor != nil && c.Classifier != nil
}

// Encoders holds the per-granularity label decoders.
type Encoders struct {
	Hourly LabelDecoder
	Daily  LabelDecoder
}

// Meta is free-form model package metadata.
type Meta struct {
	Version     string
	TrainedDate string
}

// CanonicalModel is the normalized view of a model package. It is never
// mutated after Normalize returns; reloads replace it wholesale.
type CanonicalModel struct {
	Hourly   Component
	Daily    Component
	Encoders Encoders
	Meta     Meta
}

// Component returns the component for g.
func (m *CanonicalModel) Component(g Granularity) Component {
	if g == Hourly {
		return m.Hourly
	}
	return m.Daily
}

// Encoder returns the label decoder for g, or nil.
func (m *CanonicalModel) Encoder(g Granularity) LabelDecoder {
	if g == Hourly {
		return m.Encoders.Hourly
	}
	return m.Encoders.Daily
}

// TimePoint is a forecast slot. Time is always UTC and truncated to the
// granularity's resolution.
type TimePoint struct {
	Time        time.Time
	Granularity Granularity
}

// FeatureRow is one estimator input row in declared column order.
type FeatureRow []float64

// PredictionRecord is one forecast slot with its rounded regression outputs
// and decoded condition.
type PredictionRecord struct {
	Point     TimePoint
	Targets   []string // declared order
	Values    map[string]float64
	Condition string
}

// Fields flattens the record into its wire shape: a timestamp field per
// granularity, "conditions", and one numeric field per target.
func (r PredictionRecord) Fields() map[string]any {
	out := make(map[string]any, len(r.Targets)+3)
	t := r.Point.Time
	if r.Point.Granularity == Hourly {
		out["datetime"] = t.Format("2006-01-02T15:04:05")
		out["date_formatted"] = t.Format("2006-01-02 15:04")
	} else {
		out["date"] = t.Format(time.DateOnly)
	}
	out["conditions"] = r.Condition
	for _, name := range r.Targets {
		out[name] = r.Values[name]
	}
	return out
}

// Prediction is the result of one Predict call.
type Prediction struct {
	Granularity  Granularity
	ModelVersion string
	Records      []PredictionRecord
}

// ModelInfo is a read-only summary of the loaded model.
type ModelInfo struct {
	Loaded      bool          `json:"model_loaded"`
	Version     string        `json:"version,omitempty"`
	TrainedDate string        `json:"trained_date,omitempty"`
	Hourly      ComponentInfo `json:"hourly"`
	Daily       ComponentInfo `json:"daily"`
}

// ComponentInfo describes one granularity of the loaded model.
type ComponentInfo struct {
	RegressorPresent  bool     `json:"regressor_present"`
	ClassifierPresent bool     `json:"classifier_present"`
	EncoderPresent    bool     `json:"encoder_present"`
	Regressor         string   `json:"regressor,omitempty"`
	Classifier        string   `json:"classifier,omitempty"`
	Features          []string `json:"features"`
	Targets           []string `json:"targets"`
}
