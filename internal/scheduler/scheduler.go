package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

// Refresher re-fetches the default-location advisory.
type Refresher interface {
	RefreshLatest(ctx context.Context) error
}

// Scheduler periodically refreshes the cached default-location advisory so the
// "latest" dashboard is served without waiting on the backend.
type Scheduler struct {
	scheduler *gocron.Scheduler
	refresher Refresher
	interval  time.Duration
	timeout   time.Duration
	onResult  func(err error)
	logger    *slog.Logger
}

// New creates a new Scheduler. onResult may be nil.
func New(refresher Refresher, interval, timeout time.Duration, onResult func(error), logger *slog.Logger) *Scheduler {
	if onResult == nil {
		onResult = func(error) {}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		refresher: refresher,
		interval:  interval,
		timeout:   timeout,
		onResult:  onResult,
		logger:    logger,
	}
}

// Start schedules the refresh job, runs it once immediately and starts the scheduler.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		s.logger.Info("scheduler: refresh disabled")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).StartImmediately().Do(s.run)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	err := s.refresher.RefreshLatest(ctx)
	s.onResult(err)
	if err != nil {
		s.logger.Error("scheduler: latest advisory refresh failed", "error", err)
		return
	}
	s.logger.Debug("scheduler: latest advisory refreshed")
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
