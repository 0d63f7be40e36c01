package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the service's Prometheus collectors.
type Metrics struct {
	predictions *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	points      *prometheus.HistogramVec
	reloads     *prometheus.CounterVec
	modelInfo   *prometheus.GaugeVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_prediction",
			Name:      "predictions_total",
			Help:      "Prediction requests by granularity and outcome.",
		}, []string{"granularity", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "weather_prediction",
			Name:      "prediction_duration_seconds",
			Help:      "Time spent expanding, featurizing and running inference.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}, []string{"granularity"}),
		points: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "weather_prediction",
			Name:      "prediction_points",
			Help:      "Number of forecast slots per request.",
			Buckets:   []float64{1, 3, 7, 24, 48, 96, 168},
		}, []string{"granularity"}),
		reloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_prediction",
			Name:      "model_reloads_total",
			Help:      "Model reload attempts by outcome.",
		}, []string{"outcome"}),
		modelInfo: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "weather_prediction",
			Name:      "model_info",
			Help:      "Set to 1 for the currently loaded model version.",
		}, []string{"version", "trained_date"}),
	}

	reg.MustRegister(m.predictions, m.duration, m.points, m.reloads, m.modelInfo)
	return m
}

// ObservePrediction records one prediction call.
func (m *Metrics) ObservePrediction(granularity string, points int, elapsed time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.predictions.WithLabelValues(granularity, outcome).Inc()
	m.duration.WithLabelValues(granularity).Observe(elapsed.Seconds())
	if err == nil {
		m.points.WithLabelValues(granularity).Observe(float64(points))
	}
}

// ObserveReload records a reload attempt and, on success, the new model
// version.
func (m *Metrics) ObserveReload(version, trainedDate string, err error) {
	if err != nil {
		m.reloads.WithLabelValues("error").Inc()
		return
	}
	m.reloads.WithLabelValues("success").Inc()
	m.modelInfo.Reset()
	m.modelInfo.WithLabelValues(version, trainedDate).Set(1)
}
