package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	httpapi "github.com/i474232898/weather-prediction/internal/api/http"
	"github.com/i474232898/weather-prediction/internal/artifact"
	"github.com/i474232898/weather-prediction/internal/common"
	"github.com/i474232898/weather-prediction/internal/config"
	applog "github.com/i474232898/weather-prediction/internal/logger"
	"github.com/i474232898/weather-prediction/internal/metrics"
	"github.com/i474232898/weather-prediction/internal/scheduler"
	"github.com/i474232898/weather-prediction/internal/store"
	"github.com/i474232898/weather-prediction/internal/weather"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	applog.Init(cfg.LogLevel)

	// Shared HTTP client for model downloads.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	source := artifact.NewSource(cfg.ModelPath, httpClient)
	service := weather.NewService(nil, artifact.NewLoader(source))

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	reload := func(ctx context.Context) error {
		info, err := service.Reload(ctx)
		m.ObserveReload(info.Version, info.TrainedDate, err)
		return err
	}

	// A missing model is not fatal: the server starts and answers 503 until
	// a reload succeeds.
	startupCtx, cancelStartup := common.WithOptionalTimeout(context.Background(), cfg.HTTPTimeout)
	if err := reload(startupCtx); err != nil {
		slog.Warn("no model loaded at startup", "source", source.Name(), "error", err)
	}
	cancelStartup()

	// In-memory run store with configured retention.
	runs := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)

	sched := scheduler.New(cfg.ModelReloadInterval, cfg.HTTPTimeout, reload)
	if err := sched.Start(); err != nil {
		slog.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weather-prediction",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":       "ok",
			"service":      "weather-prediction",
			"model_loaded": service.Loaded(),
		})
	})

	httpapi.RegisterRoutes(app, service, runs, m)
	httpapi.RegisterMetrics(app, registry)

	go func() {
		slog.Info("listening", "port", cfg.Port, "model", source.Name())
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("fiber server stopped", "error", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("error during shutdown", "error", err)
	}
}
