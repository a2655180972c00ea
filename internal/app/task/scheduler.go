/*
 * @Description: cron 스케줄러
 * @Author: memorymap
 * @Date: 2026-04-24 12:32:36
 * @LastEditTime: 2026-05-27 15:50:45
 * @LastEditors: memorymap
 */
package task

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/robfig/cron/v3"
)

const (
	sessionSweepSpec   = "0 * * * * *"
	previewCleanupSpec = "0 15 * * * *"
)

// Scheduler owns the cron instance and the dependencies its jobs need.
type Scheduler struct {
	cron       *cron.Cron
	logger     *slog.Logger
	sweeper    SessionSweeper
	previewTTL time.Duration
}

// NewScheduler builds a seconds-resolution cron with panic recovery and structured logging.
// previewTTL is how old an unowned preview file must be before it is deleted.
func NewScheduler(sweeper SessionSweeper, previewTTL time.Duration) *Scheduler {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})).With("system", "cron")

	c := cron.New(
		cron.WithSeconds(),
		cron.WithChain(
			NewPanicRecoveryWrapper(logger),
			NewLoggingWrapper(logger),
			cron.SkipIfStillRunning(cron.DiscardLogger),
		),
	)

	return &Scheduler{
		cron:       c,
		logger:     logger,
		sweeper:    sweeper,
		previewTTL: previewTTL,
	}
}

// RegisterJobs adds every periodic job. It fails on an invalid schedule.
func (s *Scheduler) RegisterJobs() error {
	jobs := []struct {
		spec string
		job  Job
		desc string
	}{
		{sessionSweepSpec, NewSessionSweepJob(s.sweeper), "every minute"},
		{previewCleanupSpec, NewPreviewCleanupJob(s.sweeper, s.previewTTL), "hourly at :15"},
	}
	for _, j := range jobs {
		if _, err := s.cron.AddJob(j.spec, j.job); err != nil {
			s.logger.Error("Failed to add job", slog.String("job_name", j.job.Name()), slog.Any("error", err))
			return fmt.Errorf("register %s: %w", j.job.Name(), err)
		}
		s.logger.Info("-> Registered job", "job_name", j.job.Name(), "schedule", j.desc)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.logger.Info("Cron scheduler started.")
	s.cron.Start()
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping cron scheduler...")
	<-s.cron.Stop().Done()
	s.logger.Info("Cron scheduler stopped.")
}
