// Package cron provides scheduled background jobs using robfig/cron.
package cron

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Refresher is the unit of scheduled work; the alias resolver satisfies
// it.
type Refresher interface {
	Refresh() error
	AliasCount() int
}

// Scheduler reloads the client alias table on a cron expression so long
// running processes pick up table edits without a restart.
type Scheduler struct {
	cron     *cron.Cron
	schedule string
	target   Refresher
	logger   *slog.Logger
}

// NewScheduler creates a scheduler; schedule is a standard 5-field cron
// expression.
func NewScheduler(target Refresher, schedule string, logger *slog.Logger) *Scheduler {
	c := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))))

	return &Scheduler{
		cron:     c,
		schedule: schedule,
		target:   target,
		logger:   logger,
	}
}

// Start begins scheduled jobs.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, s.refreshAliases)
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("cron scheduler started",
		slog.String("schedule", s.schedule),
		slog.Int("jobs", len(s.cron.Entries())),
	)
	return nil
}

// Stop gracefully stops all scheduled jobs.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("cron scheduler stopping")
	return s.cron.Stop()
}

// RunNow manually triggers a refresh (for testing/admin).
func (s *Scheduler) RunNow() {
	go s.refreshAliases()
}

func (s *Scheduler) refreshAliases() {
	if err := s.target.Refresh(); err != nil {
		s.logger.Error("alias table refresh failed", slog.Any("error", err))
		return
	}
	s.logger.Info("alias table refreshed",
		slog.Int("aliases", s.target.AliasCount()),
	)
}
