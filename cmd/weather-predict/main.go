package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	applog "github.com/i474232898/weather-prediction/internal/logger"
)

func rootCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   "weather-predict",
		Short: "Run forecasts against a trained weather model package",
		Long: `weather-predict loads a model package from disk or a model registry
and prints hourly or daily forecasts as JSON.`,
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			slog.SetDefault(applog.New(os.Stderr, logLevel))
		},
	}

	cmd.PersistentFlags().String("model", "models/v4_weather_model_combined.json", "model package path or http(s) URL")
	cmd.PersistentFlags().Duration("timeout", 0, "download timeout for registry URLs (0 = none)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	cmd.AddCommand(predictCmd("hourly", 24))
	cmd.AddCommand(predictCmd("daily", 3))
	cmd.AddCommand(infoCmd())
	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
