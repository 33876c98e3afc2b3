package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/lshigami/attemptkeeper/internal/dto"
	"github.com/lshigami/attemptkeeper/internal/model"
	"github.com/lshigami/attemptkeeper/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// AttemptService covers the parts of the attempt lifecycle that feed the
// daily stats: starting, heartbeats and finishing.
type AttemptService interface {
	StartAttempt(ctx context.Context, req dto.StartAttemptRequest) (*dto.AttemptResponse, error)
	TouchAttempt(ctx context.Context, id uint) error
	FinishAttempt(ctx context.Context, id uint, req dto.FinishAttemptRequest) (*dto.AttemptResponse, error)
	GetAttempt(ctx context.Context, id uint) (*dto.AttemptResponse, error)
	GetProgress(ctx context.Context, id uint) (*dto.ProgressResponse, error)
}

type attemptService struct {
	attemptRepo repository.AttemptRepository
	progress    ProgressService
	stats       StatsService
	clock       Clock
}

func NewAttemptService(
	attemptRepo repository.AttemptRepository,
	progress ProgressService,
	stats StatsService,
	clock Clock,
) AttemptService {
	return &attemptService{
		attemptRepo: attemptRepo,
		progress:    progress,
		stats:       stats,
		clock:       clock,
	}
}

func (s *attemptService) StartAttempt(ctx context.Context, req dto.StartAttemptRequest) (*dto.AttemptResponse, error) {
	now := s.clock.Now()
	attempt := model.Attempt{
		UserID:         req.UserID,
		ExamTypeID:     req.ExamTypeID,
		Mode:           req.Mode,
		StartedAt:      now,
		LastActivityAt: &now,
		Status:         model.AttemptStatusInProgress,
	}
	if err := s.attemptRepo.Create(ctx, &attempt); err != nil {
		log.Error().Err(err).Uint("userID", req.UserID).Msg("Failed to create attempt in DB")
		return nil, err
	}

	// Stats drift is repaired by the reconciler; it must not fail the start.
	if err := s.stats.IncrementStarted(ctx, attempt.UserID, attempt.StartedAt); err != nil {
		log.Warn().Err(err).Uint("attemptID", attempt.ID).Msg("Failed to record start in daily stats")
	}

	var resp dto.AttemptResponse
	copier.Copy(&resp, &attempt)
	return &resp, nil
}

func (s *attemptService) TouchAttempt(ctx context.Context, id uint) error {
	changed, err := s.attemptRepo.Touch(ctx, id, s.clock.Now())
	if err != nil {
		return err
	}
	if !changed {
		return s.notInProgress(ctx, id)
	}
	return nil
}

func (s *attemptService) FinishAttempt(ctx context.Context, id uint, req dto.FinishAttemptRequest) (*dto.AttemptResponse, error) {
	if req.CorrectCount < 0 || req.TotalCount < req.CorrectCount {
		return nil, fmt.Errorf("invalid counts %d/%d", req.CorrectCount, req.TotalCount)
	}
	score := scorePercent(req.CorrectCount, req.TotalCount)

	changed, err := s.attemptRepo.MarkFinished(ctx, id, req.CorrectCount, req.TotalCount, score, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if !changed {
		return nil, s.notInProgress(ctx, id)
	}

	attempt, err := s.attemptRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.stats.IncrementFinished(ctx, attempt.UserID, score, attempt.StartedAt); err != nil {
		log.Warn().Err(err).Uint("attemptID", id).Msg("Failed to record finish in daily stats")
	}

	var resp dto.AttemptResponse
	copier.Copy(&resp, attempt)
	return &resp, nil
}

func (s *attemptService) GetAttempt(ctx context.Context, id uint) (*dto.AttemptResponse, error) {
	attempt, err := s.attemptRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	var resp dto.AttemptResponse
	copier.Copy(&resp, attempt)
	return &resp, nil
}

func (s *attemptService) GetProgress(ctx context.Context, id uint) (*dto.ProgressResponse, error) {
	if _, err := s.attemptRepo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	progress := s.progress.ComputeProgress(ctx, id)
	if progress.Err != nil {
		return nil, progress.Err
	}
	return &dto.ProgressResponse{
		AttemptID:        id,
		RespondedCount:   progress.RespondedCount,
		ScorableCount:    progress.ScorableCount,
		RespondedPercent: progress.RespondedPercent,
	}, nil
}

// notInProgress tells a missing attempt apart from one in a terminal state.
func (s *attemptService) notInProgress(ctx context.Context, id uint) error {
	if _, err := s.attemptRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return fmt.Errorf("failed to load attempt %d: %w", id, err)
	}
	return ErrInvalidTransition
}

func scorePercent(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(correct) / float64(total) * 100
}
