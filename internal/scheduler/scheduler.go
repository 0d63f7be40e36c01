package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

// ReloadFunc loads a fresh model package and installs it.
type ReloadFunc func(ctx context.Context) error

// Scheduler periodically reloads the model package so that a retrained
// artifact is picked up without a restart.
type Scheduler struct {
	scheduler *gocron.Scheduler
	reload    ReloadFunc
	interval  time.Duration
	timeout   time.Duration
}

// New creates a new Scheduler. An interval <= 0 disables periodic reloads.
func New(interval, timeout time.Duration, reload ReloadFunc) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		reload:    reload,
		interval:  interval,
		timeout:   timeout,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		slog.Info("scheduler: model reload interval not set; nothing to schedule")
		return nil
	}

	// The model is loaded at startup, so skip the immediate first run.
	_, err := s.scheduler.Every(s.interval).WaitForSchedule().SingletonMode().Do(s.run)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	slog.Info("scheduler: model reload scheduled", "interval", s.interval.String())
	return nil
}

func (s *Scheduler) run() {
	slog.Debug("scheduler: running model reload job")

	timeout := s.timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.reload(ctx); err != nil {
		slog.Warn("scheduler: model reload failed; keeping current model", "error", err)
		return
	}
	slog.Debug("scheduler: completed model reload job")
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
