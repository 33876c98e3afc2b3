package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/lshigami/attemptkeeper/config"
	"github.com/lshigami/attemptkeeper/internal/dto"
	"github.com/lshigami/attemptkeeper/internal/service"
	"github.com/rs/zerolog/log"
)

const (
	TagMarkAbandoned  = "mark-abandoned"
	TagPurgeAbandoned = "purge-abandoned"
	TagReconcile      = "reconcile"

	jobTimeout = 10 * time.Minute
)

// Scheduler runs the batch jobs in the background. At most one job runs at a
// time, and a job never overlaps with an earlier run of itself.
type Scheduler struct {
	scheduler   *gocron.Scheduler
	cfg         config.Scheduler
	abandonment service.AbandonmentService
	purge       service.PurgeService
	reconcile   service.ReconcileService
	clock       service.Clock
}

func New(
	cfg *config.Config,
	abandonment service.AbandonmentService,
	purge service.PurgeService,
	reconcile service.ReconcileService,
	clock service.Clock,
) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SetMaxConcurrentJobs(1, gocron.WaitMode)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler:   s,
		cfg:         cfg.Scheduler,
		abandonment: abandonment,
		purge:       purge,
		reconcile:   reconcile,
		clock:       clock,
	}
}

// Register adds every job to the underlying scheduler without starting it.
func (s *Scheduler) Register() error {
	if _, err := s.scheduler.Every(s.cfg.AbandonInterval).Tag(TagMarkAbandoned).Do(s.runMarkAbandoned); err != nil {
		return fmt.Errorf("failed to schedule %s: %w", TagMarkAbandoned, err)
	}
	if _, err := s.scheduler.Every(s.cfg.PurgeInterval).Tag(TagPurgeAbandoned).Do(s.runPurgeAbandoned); err != nil {
		return fmt.Errorf("failed to schedule %s: %w", TagPurgeAbandoned, err)
	}
	if _, err := s.scheduler.Cron(s.cfg.ReconcileCron).Tag(TagReconcile).Do(s.runReconcile); err != nil {
		return fmt.Errorf("failed to schedule %s: %w", TagReconcile, err)
	}
	return nil
}

// Start registers the jobs and runs them in the background.
func (s *Scheduler) Start() error {
	if err := s.Register(); err != nil {
		return err
	}
	s.scheduler.StartAsync()
	log.Info().
		Dur("abandon_interval", s.cfg.AbandonInterval).
		Dur("purge_interval", s.cfg.PurgeInterval).
		Str("reconcile_cron", s.cfg.ReconcileCron).
		Msg("Scheduler started")
	return nil
}

func (s *Scheduler) Stop() {
	s.scheduler.Stop()
	log.Info().Msg("Scheduler stopped")
}

// Jobs lists the tags of the registered jobs.
func (s *Scheduler) Jobs() []string {
	var tags []string
	for _, job := range s.scheduler.Jobs() {
		tags = append(tags, job.Tags()...)
	}
	return tags
}

func (s *Scheduler) runMarkAbandoned() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	if _, err := s.abandonment.MarkAbandoned(ctx); err != nil {
		log.Error().Err(err).Str("job", TagMarkAbandoned).Msg("Scheduled job failed")
	}
}

func (s *Scheduler) runPurgeAbandoned() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	if _, err := s.purge.PurgeAbandoned(ctx); err != nil {
		log.Error().Err(err).Str("job", TagPurgeAbandoned).Msg("Scheduled job failed")
	}
}

// runReconcile rebuilds yesterday's buckets, the last day that can no longer
// receive start events.
func (s *Scheduler) runReconcile() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	yesterday := s.clock.Now().UTC().AddDate(0, 0, -1)
	req := dto.ReconcileRequest{From: yesterday, To: yesterday, Mode: service.ReconcileModeRebuild}
	if _, err := s.reconcile.Reconcile(ctx, req); err != nil {
		log.Error().Err(err).Str("job", TagReconcile).Msg("Scheduled job failed")
	}
}
