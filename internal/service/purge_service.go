package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/lshigami/attemptkeeper/internal/dto"
	"github.com/lshigami/attemptkeeper/internal/model"
	"github.com/lshigami/attemptkeeper/internal/policy"
	"github.com/lshigami/attemptkeeper/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PurgeService permanently deletes old, low-progress abandoned attempts,
// leaving an audit snapshot for each one.
type PurgeService interface {
	PurgeAbandoned(ctx context.Context) (*dto.PurgeSummary, error)
}

type purgeService struct {
	attemptRepo  repository.AttemptRepository
	purgeLogRepo repository.PurgeLogRepository
	progress     ProgressService
	stats        StatsService
	policy       *policy.Config
	clock        Clock
	db           *gorm.DB // Used for the snapshot-then-delete transaction
}

func NewPurgeService(
	attemptRepo repository.AttemptRepository,
	purgeLogRepo repository.PurgeLogRepository,
	progress ProgressService,
	stats StatsService,
	policyCfg *policy.Config,
	clock Clock,
	db *gorm.DB,
) PurgeService {
	return &purgeService{
		attemptRepo:  attemptRepo,
		purgeLogRepo: purgeLogRepo,
		progress:     progress,
		stats:        stats,
		policy:       policyCfg,
		clock:        clock,
		db:           db,
	}
}

type purgeMetadata struct {
	RunID                   string  `json:"run_id"`
	PurgeAfterDays          float64 `json:"purge_after_days"`
	PurgeLowProgressPercent float64 `json:"purge_low_progress_percent"`
	CorrectCount            int     `json:"correct_count"`
	TotalCount              int     `json:"total_count"`
}

func (s *purgeService) PurgeAbandoned(ctx context.Context) (*dto.PurgeSummary, error) {
	summary := &dto.PurgeSummary{RunID: uuid.NewString()}
	logger := log.With().Str("job", "purge-abandoned").Str("run_id", summary.RunID).Logger()

	attempts, err := s.attemptRepo.FindByStatus(ctx, model.AttemptStatusAbandoned, s.policy.BatchLimit)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load abandoned attempts")
		return nil, fmt.Errorf("failed to load abandoned attempts: %w", err)
	}
	logger.Info().Int("batch", len(attempts)).Msg("Purge scan started")

	now := s.clock.Now()
	cutoff := now.Add(-s.policy.PurgeAge())
	for i := range attempts {
		attempt := &attempts[i]
		summary.Inspected++

		if attempt.StartedAt.After(cutoff) {
			summary.SkippedTooYoung++
			continue
		}

		progress := s.progress.ComputeProgress(ctx, attempt.ID)
		if progress.Err != nil {
			summary.Errors = append(summary.Errors, rowError(attempt.ID, progress.Err))
			logger.Warn().Err(progress.Err).Uint("attempt_id", attempt.ID).Msg("Skipping attempt, progress unknown")
			continue
		}
		if progress.RespondedPercent >= s.policy.PurgeLowProgressPercent {
			summary.RetainedProgress++
			continue
		}

		if err := s.purgeOne(ctx, attempt, progress, summary.RunID); err != nil {
			summary.Errors = append(summary.Errors, rowError(attempt.ID, err))
			logger.Warn().Err(err).Uint("attempt_id", attempt.ID).Msg("Failed to purge attempt")
			continue
		}
		summary.Purged++

		if err := s.stats.IncrementPurged(ctx, attempt.UserID, now); err != nil {
			summary.Errors = append(summary.Errors, rowError(attempt.ID, fmt.Errorf("stats: %w", err)))
			logger.Warn().Err(err).Uint("attempt_id", attempt.ID).Msg("Failed to record purge in daily stats")
		}
	}

	logger.Info().
		Int("inspected", summary.Inspected).
		Int("purged", summary.Purged).
		Int("skipped_too_young", summary.SkippedTooYoung).
		Int("retained_progress", summary.RetainedProgress).
		Int("errors", len(summary.Errors)).
		Msg("Purge scan finished")
	return summary, nil
}

// purgeOne writes the audit row and deletes the attempt in one transaction:
// either both happen or neither does.
func (s *purgeService) purgeOne(ctx context.Context, attempt *model.Attempt, progress Progress, runID string) error {
	meta, err := json.Marshal(purgeMetadata{
		RunID:                   runID,
		PurgeAfterDays:          s.policy.PurgeAfterDays,
		PurgeLowProgressPercent: s.policy.PurgeLowProgressPercent,
		CorrectCount:            attempt.CorrectCount,
		TotalCount:              attempt.TotalCount,
	})
	if err != nil {
		return fmt.Errorf("failed to encode purge metadata: %w", err)
	}

	entry := model.PurgeLogEntry{
		AttemptID:        attempt.ID,
		UserID:           attempt.UserID,
		ExamTypeID:       attempt.ExamTypeID,
		Mode:             attempt.Mode,
		RespondedCount:   progress.RespondedCount,
		ScorableCount:    progress.ScorableCount,
		RespondedPercent: progress.RespondedPercent,
		PriorStatus:      attempt.Status,
		PriorReason:      attempt.StatusReason,
		StartedAt:        attempt.StartedAt,
		FinishedAt:       attempt.FinishedAt,
		PurgedAt:         s.clock.Now(),
		Metadata:         datatypes.JSON(meta),
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.purgeLogRepo.Create(ctx, tx, &entry); err != nil {
			return fmt.Errorf("failed to write purge log: %w", err)
		}
		if err := s.attemptRepo.DeleteWithDetails(ctx, tx, attempt.ID); err != nil {
			return fmt.Errorf("failed to delete attempt: %w", err)
		}
		return nil
	})
}
