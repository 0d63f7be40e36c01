package httpapi

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/i474232898/weather-prediction/internal/artifact"
	"github.com/i474232898/weather-prediction/internal/metrics"
	"github.com/i474232898/weather-prediction/internal/store"
	"github.com/i474232898/weather-prediction/internal/weather"
)

// Request caps on the number of forecast slots.
const (
	maxHours = 168
	maxDays  = 30
)

var validate = validator.New()

type handler struct {
	service *weather.Service
	runs    *store.MemoryStore
	metrics *metrics.Metrics
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service, runs *store.MemoryStore, m *metrics.Metrics) {
	h := &handler{service: service, runs: runs, metrics: m}

	v1 := app.Group("/api/v1/ai-prediction")
	v1.Post("/hourly", h.predictHourly)
	v1.Post("/daily", h.predictDaily)
	v1.Post("/range", h.predictRange)
	v1.Get("/model-info", h.modelInfo)
	v1.Post("/reload", h.reload)
	v1.Get("/runs/:id", h.getRun)
}

// RegisterMetrics exposes the Prometheus registry at /metrics.
func RegisterMetrics(app *fiber.App, gatherer prometheus.Gatherer) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
}

// ErrorHandler renders every error as {"error": true, "message": ...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}

func (h *handler) predictHourly(c *fiber.Ctx) error {
	var req hourlyRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	start := weather.Start{Year: req.Year, Month: req.Month, Day: req.Day, Hour: valueOr(req.Hour, 0)}
	return h.predict(c, weather.Hourly, start, valueOr(req.NumHours, 24))
}

func (h *handler) predictDaily(c *fiber.Ctx) error {
	var req dailyRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	start := weather.Start{Year: req.Year, Month: req.Month, Day: req.Day}
	return h.predict(c, weather.Daily, start, valueOr(req.NumDays, 3))
}

func (h *handler) predictRange(c *fiber.Ctx) error {
	var req rangeRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	g, from, to, err := req.span()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	count := weather.SpanCount(g, from, to)
	limit := maxHours
	if g == weather.Daily {
		limit = maxDays
	}
	switch {
	case count == 0:
		return fiber.NewError(fiber.StatusBadRequest, "end must not be before start")
	case count > limit:
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("range covers %d %s points; at most %d allowed", count, g, limit))
	}

	start := weather.Start{Year: from.Year(), Month: int(from.Month()), Day: from.Day(), Hour: from.Hour()}
	return h.predict(c, g, start, count)
}

func (h *handler) predict(c *fiber.Ctx, g weather.Granularity, start weather.Start, count int) error {
	began := time.Now()
	pred, err := h.service.Predict(g, start, count)
	h.metrics.ObservePrediction(string(g), count, time.Since(began), err)
	if err != nil {
		return predictionError(err)
	}

	run := h.runs.Save(pred)
	return c.JSON(renderRun(run, successMessage(g)))
}

func (h *handler) modelInfo(c *fiber.Ctx) error {
	info := h.service.Info()
	return c.JSON(fiber.Map{
		"status":       fiber.StatusOK,
		"model_loaded": info.Loaded,
		"version":      info.Version,
		"trained_date": info.TrainedDate,
		"hourly":       info.Hourly,
		"daily":        info.Daily,
	})
}

func (h *handler) reload(c *fiber.Ctx) error {
	info, err := h.service.Reload(c.UserContext())
	h.metrics.ObserveReload(info.Version, info.TrainedDate, err)
	if err != nil {
		switch {
		case errors.Is(err, artifact.ErrArtifactNotFound):
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		case errors.Is(err, artifact.ErrCorruptArtifact):
			return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
		default:
			return fiber.NewError(fiber.StatusInternalServerError, "failed to reload model: "+err.Error())
		}
	}

	return c.JSON(fiber.Map{
		"status":  fiber.StatusOK,
		"message": "Model reloaded",
		"model":   info,
	})
}

func (h *handler) getRun(c *fiber.Ctx) error {
	run, err := h.runs.Get(c.Params("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "no prediction run with that id")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch prediction run")
	}
	return c.JSON(renderRun(run, "Prediction run found"))
}

func predictionError(err error) error {
	switch {
	case errors.Is(err, weather.ErrInvalidCalendarInput):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, weather.ErrModelUnavailable):
		return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "prediction error: "+err.Error())
	}
}

func successMessage(g weather.Granularity) string {
	if g == weather.Hourly {
		return "Hourly prediction successful"
	}
	return "Daily prediction successful"
}

func bind(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body: "+err.Error())
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}

func valueOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}
