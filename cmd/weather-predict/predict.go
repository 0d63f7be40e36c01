package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/i474232898/weather-prediction/internal/artifact"
	"github.com/i474232898/weather-prediction/internal/weather"
)

func predictCmd(granularity string, defaultCount int) *cobra.Command {
	var (
		date  string
		hour  int
		count int
	)
	g := weather.Granularity(granularity)

	cmd := &cobra.Command{
		Use:   granularity,
		Short: fmt.Sprintf("Print a %s forecast", granularity),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if count < 1 {
				return fmt.Errorf("--count must be at least 1, got %d", count)
			}
			day, err := time.Parse(time.DateOnly, date)
			if err != nil {
				return fmt.Errorf("--date must be YYYY-MM-DD: %w", err)
			}

			svc, err := loadService(cmd)
			if err != nil {
				return err
			}

			start := weather.Start{Year: day.Year(), Month: int(day.Month()), Day: day.Day(), Hour: hour}
			pred, err := svc.Predict(g, start, count)
			if err != nil {
				return err
			}

			records := make([]map[string]any, 0, len(pred.Records))
			for _, rec := range pred.Records {
				records = append(records, rec.Fields())
			}
			return writeJSON(cmd, map[string]any{
				"model_version": pred.ModelVersion,
				"granularity":   pred.Granularity,
				"data":          records,
			})
		},
	}

	cmd.Flags().StringVar(&date, "date", time.Now().UTC().Format(time.DateOnly), "first date to forecast (YYYY-MM-DD)")
	cmd.Flags().IntVar(&count, "count", defaultCount, "number of slots to forecast")
	if g == weather.Hourly {
		cmd.Flags().IntVar(&hour, "hour", 0, "first hour to forecast (0-23)")
	}
	return cmd
}

func infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Describe the model package without running inference",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := loadService(cmd)
			if err != nil {
				return err
			}
			return writeJSON(cmd, svc.Info())
		},
	}
}

func loadService(cmd *cobra.Command) (*weather.Service, error) {
	location, err := cmd.Flags().GetString("model")
	if err != nil {
		return nil, err
	}
	timeout, err := cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	src := artifact.NewSource(location, &http.Client{Timeout: timeout})
	svc := weather.NewService(nil, artifact.NewLoader(src))
	if _, err := svc.Reload(cmd.Context()); err != nil {
		return nil, fmt.Errorf("load model %s: %w", src.Name(), err)
	}
	return svc, nil
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
