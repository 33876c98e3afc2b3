package service

import (
	"context"
	"fmt"

	"github.com/lshigami/attemptkeeper/internal/repository"
	"github.com/rs/zerolog/log"
)

// Progress is how far into its scorable questions an attempt got. A non-nil
// Err means the numbers could not be computed and are zero; callers decide
// whether to skip the attempt.
type Progress struct {
	RespondedCount   int
	ScorableCount    int
	RespondedPercent float64
	Err              error
}

type ProgressService interface {
	ComputeProgress(ctx context.Context, attemptID uint) Progress
}

type progressService struct {
	questionRepo repository.QuestionRepository
	answerRepo   repository.AnswerRepository
}

func NewProgressService(questionRepo repository.QuestionRepository, answerRepo repository.AnswerRepository) ProgressService {
	return &progressService{questionRepo: questionRepo, answerRepo: answerRepo}
}

func (s *progressService) ComputeProgress(ctx context.Context, attemptID uint) Progress {
	questions, err := s.questionRepo.FindByAttemptID(ctx, attemptID)
	if err != nil {
		log.Warn().Err(err).Uint("attempt_id", attemptID).Msg("ComputeProgress: failed to load questions")
		return Progress{Err: fmt.Errorf("load questions for attempt %d: %w", attemptID, err)}
	}

	scorable := make([]uint, 0, len(questions))
	for _, q := range questions {
		if !q.IsPreTest {
			scorable = append(scorable, q.ID)
		}
	}
	if len(scorable) == 0 {
		return Progress{}
	}

	responded, err := s.answerRepo.RespondedQuestionIDs(ctx, scorable)
	if err != nil {
		log.Warn().Err(err).Uint("attempt_id", attemptID).Msg("ComputeProgress: failed to load answers")
		return Progress{Err: fmt.Errorf("load answers for attempt %d: %w", attemptID, err)}
	}

	return Progress{
		RespondedCount:   len(responded),
		ScorableCount:    len(scorable),
		RespondedPercent: float64(len(responded)) / float64(len(scorable)) * 100,
	}
}
