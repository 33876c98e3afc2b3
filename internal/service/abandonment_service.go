package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lshigami/attemptkeeper/internal/dto"
	"github.com/lshigami/attemptkeeper/internal/model"
	"github.com/lshigami/attemptkeeper/internal/policy"
	"github.com/lshigami/attemptkeeper/internal/repository"
	"github.com/rs/zerolog/log"
)

// AbandonmentService reclassifies stale in_progress attempts as abandoned.
type AbandonmentService interface {
	MarkAbandoned(ctx context.Context) (*dto.AbandonSummary, error)
}

type abandonmentService struct {
	attemptRepo repository.AttemptRepository
	progress    ProgressService
	stats       StatsService
	policy      *policy.Config
	clock       Clock
}

func NewAbandonmentService(
	attemptRepo repository.AttemptRepository,
	progress ProgressService,
	stats StatsService,
	policyCfg *policy.Config,
	clock Clock,
) AbandonmentService {
	return &abandonmentService{
		attemptRepo: attemptRepo,
		progress:    progress,
		stats:       stats,
		policy:      policyCfg,
		clock:       clock,
	}
}

// MarkAbandoned processes up to BatchLimit in_progress attempts, oldest
// first. A failing attempt is recorded in the summary and skipped; only a
// failure to load the batch aborts the run.
func (s *abandonmentService) MarkAbandoned(ctx context.Context) (*dto.AbandonSummary, error) {
	summary := &dto.AbandonSummary{RunID: uuid.NewString()}
	logger := log.With().Str("job", "mark-abandoned").Str("run_id", summary.RunID).Logger()

	attempts, err := s.attemptRepo.FindByStatus(ctx, model.AttemptStatusInProgress, s.policy.BatchLimit)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load in-progress attempts")
		return nil, fmt.Errorf("failed to load in-progress attempts: %w", err)
	}
	logger.Info().Int("batch", len(attempts)).Msg("Abandonment scan started")

	now := s.clock.Now()
	for i := range attempts {
		attempt := &attempts[i]
		summary.Processed++

		reason, err := s.classify(ctx, attempt, now)
		if err != nil {
			summary.Errors = append(summary.Errors, rowError(attempt.ID, err))
			logger.Warn().Err(err).Uint("attempt_id", attempt.ID).Msg("Skipping attempt")
			continue
		}
		if reason == "" {
			continue
		}

		// the update only applies while the attempt is still in_progress
		changed, err := s.attemptRepo.MarkAbandoned(ctx, attempt.ID, reason)
		if err != nil {
			summary.Errors = append(summary.Errors, rowError(attempt.ID, err))
			logger.Warn().Err(err).Uint("attempt_id", attempt.ID).Msg("Failed to mark attempt abandoned")
			continue
		}
		if !changed {
			logger.Debug().Uint("attempt_id", attempt.ID).Msg("Attempt left in_progress before it could be marked")
			continue
		}

		if reason == model.ReasonTimeoutInactivity {
			summary.MarkedTimeout++
		} else {
			summary.MarkedLowProgress++
		}

		if err := s.stats.IncrementAbandoned(ctx, attempt.UserID, reason, attempt.StartedAt); err != nil {
			summary.Errors = append(summary.Errors, rowError(attempt.ID, fmt.Errorf("stats: %w", err)))
			logger.Warn().Err(err).Uint("attempt_id", attempt.ID).Msg("Failed to record abandon in daily stats")
		}
	}

	logger.Info().
		Int("processed", summary.Processed).
		Int("marked_timeout", summary.MarkedTimeout).
		Int("marked_low_progress", summary.MarkedLowProgress).
		Int("errors", len(summary.Errors)).
		Msg("Abandonment scan finished")
	return summary, nil
}

// classify returns the abandon reason for the attempt, or "" to leave it
// alone. The timeout rule wins over the low-progress rule.
func (s *abandonmentService) classify(ctx context.Context, attempt *model.Attempt, now time.Time) (string, error) {
	idle := now.Sub(attempt.LastSeen())
	if idle >= s.policy.InactivityLimit(attempt.Mode) {
		return model.ReasonTimeoutInactivity, nil
	}
	if idle < s.policy.LowProgressInactivity() {
		return "", nil
	}

	progress := s.progress.ComputeProgress(ctx, attempt.ID)
	if progress.Err != nil {
		return "", progress.Err
	}
	if progress.RespondedPercent < s.policy.AbandonThresholdPercent {
		return model.ReasonLowProgress, nil
	}
	return "", nil
}

func rowError(attemptID uint, err error) dto.RowError {
	return dto.RowError{AttemptID: attemptID, Error: err.Error()}
}
