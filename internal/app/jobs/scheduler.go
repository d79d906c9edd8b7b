// Package jobs runs the recurring background work: monthly allowance
// resets, random token drops, leaderboard refreshes and ritual expiry
// sweeps.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	app "github.com/sanctum-collective/sanctum/internal/app"
	"github.com/sanctum-collective/sanctum/internal/app/metrics"
	"github.com/sanctum-collective/sanctum/internal/config"
	"github.com/sanctum-collective/sanctum/pkg/logger"
)

// Scheduler owns the cron runner and the job registrations.
type Scheduler struct {
	cron *cron.Cron
	app  *app.Application
	log  *logger.Logger
}

// New builds a scheduler over the application services. Jobs with an empty
// cron expression are skipped.
func New(application *app.Application, cfg config.JobsConfig, log *logger.Logger) (*Scheduler, error) {
	if log == nil {
		log = logger.NewDefault("jobs")
	}
	s := &Scheduler{
		cron: cron.New(),
		app:  application,
		log:  log,
	}

	specs := []struct {
		name string
		expr string
		run  func(context.Context) error
	}{
		{"allowance_reset", cfg.AllowanceReset, func(ctx context.Context) error {
			return application.Anointing.ResetMonthlyAllowances(ctx)
		}},
		{"random_drop", cfg.RandomDrops, func(ctx context.Context) error {
			_, err := application.Tokens.ScheduleRandomDrop(ctx)
			return err
		}},
		{"leaderboard_refresh", cfg.LeaderboardRefresh, func(ctx context.Context) error {
			return application.Leaderboards.Refresh(ctx)
		}},
		{"ritual_sweep", cfg.RitualSweep, func(ctx context.Context) error {
			return application.Rituals.ExpireOverdue(ctx)
		}},
	}

	for _, spec := range specs {
		if spec.expr == "" {
			s.log.Infof("job %s disabled", spec.name)
			continue
		}
		if err := s.register(spec.name, spec.expr, spec.run); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Scheduler) register(name, expr string, run func(context.Context) error) error {
	_, err := s.cron.AddFunc(expr, func() {
		s.Execute(name, run)
	})
	return err
}

// Execute runs one job immediately, recording its outcome. Exposed so
// operators can trigger a job outside its schedule.
func (s *Scheduler) Execute(name string, run func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	start := time.Now()
	err := run(ctx)
	metrics.RecordJobRun(name, time.Since(start), err == nil)
	if err != nil {
		s.log.WithError(err).Errorf("job %s failed", name)
		return
	}
	s.log.Debugf("job %s completed in %s", name, time.Since(start))
}

// Start begins the cron loop.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for in-flight jobs.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
