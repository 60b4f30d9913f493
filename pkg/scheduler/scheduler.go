// Package scheduler runs the weekly draw and the hourly lottery status
// check on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kokifi/lottery/pkg/config"
	"github.com/robfig/cron/v3"
)

type Scheduler struct {
	cron   *cron.Cron
	cfg    *config.Scheduler
	runner *Runner
	logger *slog.Logger
}

// New builds a cron scheduler in cfg.Timezone. It fails on an unknown timezone.
func New(cfg *config.Scheduler, runner *Runner, logger *slog.Logger) (*Scheduler, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("scheduler timezone: %w", err)
	}
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(loc)),
		cfg:    cfg,
		runner: runner,
		logger: logger.With("component", "scheduler"),
	}, nil
}

// Start registers the jobs and starts the cron loop. ctx is handed to
// every job run.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.cfg.WeeklyDrawSpec, func() {
		s.logger.Info("[CRON] Weekly draw")
		if _, err := s.runner.RunDraw(ctx); err != nil {
			s.logger.Error("[CRON] Weekly draw failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("weekly draw spec %q: %w", s.cfg.WeeklyDrawSpec, err)
	}

	_, err = s.cron.AddFunc(s.cfg.StatusCheckSpec, func() {
		s.logger.Debug("[CRON] Lottery status check")
		if err := s.runner.CheckStatus(ctx); err != nil {
			s.logger.Error("[CRON] Status check failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("status check spec %q: %w", s.cfg.StatusCheckSpec, err)
	}

	s.cron.Start()
	s.logger.Info("Scheduler started", "timezone", s.cfg.Timezone, "jobs", len(s.cron.Entries()))
	return nil
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("Scheduler stopped")
}

// Next returns the next run time of every registered job.
func (s *Scheduler) Next() []time.Time {
	entries := s.cron.Entries()
	out := make([]time.Time, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Next)
	}
	return out
}
