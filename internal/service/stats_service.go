package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/jinzhu/copier"
	"github.com/lshigami/attemptkeeper/internal/dto"
	"github.com/lshigami/attemptkeeper/internal/model"
	"github.com/lshigami/attemptkeeper/internal/repository"
	"github.com/rs/zerolog/log"
)

const (
	defaultStatsDays = 7
	maxStatsDays     = 366
)

// StatsService keeps DailyUserStats up to date as lifecycle events happen
// and serves the derived rates. A zero `when` means now.
type StatsService interface {
	IncrementStarted(ctx context.Context, userID uint, when time.Time) error
	IncrementFinished(ctx context.Context, userID uint, score float64, when time.Time) error
	IncrementAbandoned(ctx context.Context, userID uint, reason string, when time.Time) error
	IncrementPurged(ctx context.Context, userID uint, when time.Time) error
	GetDailyStats(ctx context.Context, userID uint, days int) ([]dto.DailyStatsResponse, error)
	GetSummary(ctx context.Context, userID uint, days int) (*dto.StatsSummaryResponse, error)
}

type statsService struct {
	statsRepo repository.DailyStatsRepository
	clock     Clock
}

func NewStatsService(statsRepo repository.DailyStatsRepository, clock Clock) StatsService {
	return &statsService{statsRepo: statsRepo, clock: clock}
}

func (s *statsService) day(when time.Time) string {
	if when.IsZero() {
		when = s.clock.Now()
	}
	return model.DayKey(when)
}

func (s *statsService) IncrementStarted(ctx context.Context, userID uint, when time.Time) error {
	return s.statsRepo.Increment(ctx, userID, s.day(when), repository.StatsDelta{Started: 1})
}

func (s *statsService) IncrementFinished(ctx context.Context, userID uint, score float64, when time.Time) error {
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return ErrInvalidScore
	}
	return s.statsRepo.Increment(ctx, userID, s.day(when), repository.StatsDelta{Finished: 1, ScoreSum: score})
}

func (s *statsService) IncrementAbandoned(ctx context.Context, userID uint, reason string, when time.Time) error {
	delta := repository.StatsDelta{Abandoned: 1}
	switch reason {
	case model.ReasonTimeoutInactivity:
		delta.Timeout = 1
	case model.ReasonLowProgress:
		delta.LowProgress = 1
	default:
		log.Warn().Uint("user_id", userID).Str("reason", reason).Msg("IncrementAbandoned: unclassified abandon reason")
	}
	return s.statsRepo.Increment(ctx, userID, s.day(when), delta)
}

func (s *statsService) IncrementPurged(ctx context.Context, userID uint, when time.Time) error {
	return s.statsRepo.Increment(ctx, userID, s.day(when), repository.StatsDelta{Purged: 1})
}

// window returns the first and last day of the `days` days ending today.
func (s *statsService) window(days int) (int, string, string) {
	if days <= 0 {
		days = defaultStatsDays
	}
	if days > maxStatsDays {
		days = maxStatsDays
	}
	today := s.clock.Now().UTC()
	from := today.AddDate(0, 0, -(days - 1))
	return days, model.DayKey(from), model.DayKey(today)
}

func (s *statsService) GetDailyStats(ctx context.Context, userID uint, days int) ([]dto.DailyStatsResponse, error) {
	_, from, to := s.window(days)
	rows, err := s.statsRepo.FindByUserRange(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load daily stats for user %d: %w", userID, err)
	}
	return toDailyStatsResponses(rows)
}

func (s *statsService) GetSummary(ctx context.Context, userID uint, days int) (*dto.StatsSummaryResponse, error) {
	days, from, to := s.window(days)
	rows, err := s.statsRepo.FindByUserRange(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load daily stats for user %d: %w", userID, err)
	}

	summary := &dto.StatsSummaryResponse{UserID: userID, Days: days, From: from, To: to}
	var weightedScore float64
	for _, row := range rows {
		summary.Started += row.StartedCount
		summary.Finished += row.FinishedCount
		summary.Abandoned += row.AbandonedCount
		summary.Timeout += row.TimeoutCount
		summary.LowProgress += row.LowProgressCount
		summary.Purged += row.PurgedCount
		weightedScore += row.AvgScorePercent * float64(row.FinishedCount)
	}
	summary.AbandonRate = ratio(summary.Abandoned, summary.Started)
	summary.CompletionRate = ratio(summary.Finished, summary.Started)
	summary.PurgeRate = ratio(summary.Purged, summary.Abandoned)
	if summary.Finished > 0 {
		summary.AvgScorePercent = weightedScore / float64(summary.Finished)
	}
	return summary, nil
}

func toDailyStatsResponses(rows []model.DailyUserStats) ([]dto.DailyStatsResponse, error) {
	resp := make([]dto.DailyStatsResponse, 0, len(rows))
	if err := copier.Copy(&resp, &rows); err != nil {
		return nil, fmt.Errorf("failed to map daily stats: %w", err)
	}
	for i := range resp {
		resp[i].AbandonRate = ratio(resp[i].AbandonedCount, resp[i].StartedCount)
		resp[i].CompletionRate = ratio(resp[i].FinishedCount, resp[i].StartedCount)
		resp[i].PurgeRate = ratio(resp[i].PurgedCount, resp[i].AbandonedCount)
	}
	return resp, nil
}

func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}
