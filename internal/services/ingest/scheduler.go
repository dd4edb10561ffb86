package ingest

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
)

// Scheduler rescans the course document folder on a cron schedule so
// transcripts dropped in while the server runs get picked up. Rescans
// never clear existing data; already-stored courses are skipped by title.
type Scheduler struct {
	service *Service
	cron    *cron.Cron
	docsDir string
	logger  arbor.ILogger
}

// NewScheduler creates a folder rescan scheduler over the ingest service.
func NewScheduler(service *Service, docsDir string, logger arbor.ILogger) *Scheduler {
	return &Scheduler{
		service: service,
		cron:    cron.New(cron.WithSeconds()),
		docsDir: docsDir,
		logger:  logger,
	}
}

// Start registers the rescan job and starts the cron loop. An empty
// schedule disables rescans.
func (s *Scheduler) Start(schedule string) error {
	if schedule == "" {
		s.logger.Debug().Msg("Folder rescan schedule not configured")
		return nil
	}

	_, err := s.cron.AddFunc(schedule, func() {
		s.runRescan()
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info().
		Str("schedule", schedule).
		Str("dir", s.docsDir).
		Msg("Course folder rescan scheduler started")

	return nil
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.logger.Info().Msg("Course folder rescan scheduler stopped")
}

// RunNow triggers an immediate rescan.
func (s *Scheduler) RunNow() {
	s.logger.Info().Msg("Triggering immediate course folder rescan")
	go s.runRescan()
}

func (s *Scheduler) runRescan() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	s.logger.Info().Str("dir", s.docsDir).Msg("Starting scheduled course folder rescan")

	courses, chunks, err := s.service.AddCourseFolder(ctx, s.docsDir, false)
	if err != nil {
		s.logger.Error().Err(err).Msg("Scheduled course folder rescan failed")
		return
	}

	s.logger.Info().
		Int("courses", courses).
		Int("chunks", chunks).
		Msg("Scheduled course folder rescan completed")
}
