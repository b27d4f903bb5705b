// Package jobs runs the periodic housekeeping tasks.
package jobs

import (
	"context"
	"time"

	"RestaurantAdviser/api/logging"
	"RestaurantAdviser/api/metrics"
	"RestaurantAdviser/api/middlewares"
	"RestaurantAdviser/api/models"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

const (
	abandonSchedule = "@every 15m"
	purgeSchedule   = "@every 10m"
	visitorSchedule = "@every 5m"
)

type Scheduler struct {
	cron       *cron.Cron
	db         *gorm.DB
	staleAfter time.Duration
	now        func() time.Time
}

func New(db *gorm.DB, staleAfter time.Duration) *Scheduler {
	logger := cronLogger{}
	return &Scheduler{
		cron:       cron.New(cron.WithLogger(logger), cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger))),
		db:         db,
		staleAfter: staleAfter,
		now:        time.Now,
	}
}

// Start registers every job and starts the scheduler in the background.
func (s *Scheduler) Start() error {
	jobs := []struct {
		schedule string
		fn       func()
	}{
		{abandonSchedule, s.AbandonStaleRuns},
		{purgeSchedule, s.PurgeResetTokens},
		{visitorSchedule, s.CleanupVisitors},
	}
	for _, job := range jobs {
		if _, err := s.cron.AddFunc(job.schedule, job.fn); err != nil {
			return err
		}
	}
	s.cron.Start()
	return nil
}

// Stop prevents new runs. The returned context is done once running jobs
// have finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// AbandonStaleRuns closes active tournaments nobody touched for staleAfter.
func (s *Scheduler) AbandonStaleRuns() {
	now := s.now()
	n, err := models.AbandonStaleRuns(s.db, now.Add(-s.staleAfter), now)
	if err != nil {
		logging.L().Errorw("abandon stale tournaments failed", "error", err)
		return
	}
	if n > 0 {
		metrics.TournamentsFinished.WithLabelValues(metrics.OutcomeAbandoned).Add(float64(n))
		logging.L().Infow("abandoned stale tournaments", "count", n)
	}
}

func (s *Scheduler) PurgeResetTokens() {
	n, err := models.PurgeExpiredResetTokens(s.db, s.now())
	if err != nil {
		logging.L().Errorw("purge reset tokens failed", "error", err)
		return
	}
	if n > 0 {
		logging.L().Infow("purged expired reset tokens", "count", n)
	}
}

func (s *Scheduler) CleanupVisitors() {
	if n := middlewares.CleanupVisitors(s.now()); n > 0 {
		logging.L().Debugw("dropped idle rate limiters", "count", n)
	}
}

// cronLogger sends scheduler events to the application logger.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logging.L().Debugw("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logging.L().Errorw("cron: "+msg, append(keysAndValues, "error", err)...)
}
