package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/lshigami/attemptkeeper/internal/dto"
	"github.com/lshigami/attemptkeeper/internal/model"
	"github.com/lshigami/attemptkeeper/internal/repository"
	"github.com/rs/zerolog/log"
)

const (
	ReconcileModeRebuild = "rebuild"
	ReconcileModeMerge   = "merge"

	maxReconcileDays   = 366
	reconcileReadBatch = 1000
	reconcileChunkSize = 500
	previewSampleSize  = 10
)

// ReconcileService recomputes DailyUserStats straight from attempts and the
// purge log, independently of the incremental StatsService path.
type ReconcileService interface {
	Reconcile(ctx context.Context, req dto.ReconcileRequest) (*dto.ReconcileResult, error)
}

type reconcileService struct {
	attemptRepo  repository.AttemptRepository
	purgeLogRepo repository.PurgeLogRepository
	statsRepo    repository.DailyStatsRepository
}

func NewReconcileService(
	attemptRepo repository.AttemptRepository,
	purgeLogRepo repository.PurgeLogRepository,
	statsRepo repository.DailyStatsRepository,
) ReconcileService {
	return &reconcileService{
		attemptRepo:  attemptRepo,
		purgeLogRepo: purgeLogRepo,
		statsRepo:    statsRepo,
	}
}

type bucketKey struct {
	userID uint
	day    string
}

type bucket struct {
	row      model.DailyUserStats
	scoreSum float64
}

type bucketSet map[bucketKey]*bucket

func (b bucketSet) get(userID uint, at time.Time) *bucket {
	key := bucketKey{userID: userID, day: model.DayKey(at)}
	if cur, ok := b[key]; ok {
		return cur
	}
	cur := &bucket{row: model.DailyUserStats{UserID: userID, StatDate: key.day}}
	b[key] = cur
	return cur
}

func (b *bucket) abandon(reason *string) {
	b.row.AbandonedCount++
	if reason == nil {
		return
	}
	switch *reason {
	case model.ReasonTimeoutInactivity:
		b.row.TimeoutCount++
	case model.ReasonLowProgress:
		b.row.LowProgressCount++
	}
}

// rows returns the computed rows ordered by (user, day).
func (b bucketSet) rows() []model.DailyUserStats {
	rows := make([]model.DailyUserStats, 0, len(b))
	for _, cur := range b {
		row := cur.row
		if row.FinishedCount > 0 {
			row.AvgScorePercent = cur.scoreSum / float64(row.FinishedCount)
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].UserID != rows[j].UserID {
			return rows[i].UserID < rows[j].UserID
		}
		return rows[i].StatDate < rows[j].StatDate
	})
	return rows
}

// normalizeReconcileRequest validates the request and truncates the range
// to whole UTC days. It never touches storage.
func normalizeReconcileRequest(req dto.ReconcileRequest) (dto.ReconcileRequest, error) {
	if req.From.IsZero() || req.To.IsZero() {
		return req, fmt.Errorf("%w: from and to are required", ErrInvalidRange)
	}
	req.From = truncateDay(req.From)
	req.To = truncateDay(req.To)
	if req.To.Before(req.From) {
		return req, fmt.Errorf("%w: to %s is before from %s", ErrInvalidRange, model.DayKey(req.To), model.DayKey(req.From))
	}
	if days := int(req.To.Sub(req.From).Hours()/24) + 1; days > maxReconcileDays {
		return req, fmt.Errorf("%w: %d days (max %d)", ErrRangeTooLarge, days, maxReconcileDays)
	}

	switch req.Mode {
	case "":
		req.Mode = ReconcileModeRebuild
	case ReconcileModeRebuild, ReconcileModeMerge:
	default:
		return req, fmt.Errorf("%w: %q", ErrUnknownMode, req.Mode)
	}
	return req, nil
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *reconcileService) Reconcile(ctx context.Context, req dto.ReconcileRequest) (*dto.ReconcileResult, error) {
	req, err := normalizeReconcileRequest(req)
	if err != nil {
		return nil, err
	}

	result := &dto.ReconcileResult{
		RunID:  uuid.NewString(),
		From:   model.DayKey(req.From),
		To:     model.DayKey(req.To),
		UserID: req.UserID,
		Mode:   req.Mode,
		DryRun: req.DryRun,
	}
	logger := log.With().Str("job", "reconcile").Str("run_id", result.RunID).
		Str("from", result.From).Str("to", result.To).Str("mode", req.Mode).Bool("dry_run", req.DryRun).Logger()
	logger.Info().Msg("Reconcile started")

	end := req.To.AddDate(0, 0, 1)
	buckets := bucketSet{}

	err = s.attemptRepo.FindStartedInRange(ctx, req.From, end, req.UserID, reconcileReadBatch, func(attempts []model.Attempt) error {
		for i := range attempts {
			a := &attempts[i]
			result.AttemptsScanned++
			cur := buckets.get(a.UserID, a.StartedAt)
			cur.row.StartedCount++
			switch a.Status {
			case model.AttemptStatusFinished:
				cur.row.FinishedCount++
				if a.ScorePercent != nil {
					cur.scoreSum += *a.ScorePercent
				}
			case model.AttemptStatusAbandoned:
				cur.abandon(a.StatusReason)
			}
		}
		return nil
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load attempts")
		return nil, fmt.Errorf("failed to load attempts: %w", err)
	}

	entries, err := s.purgeLogRepo.FindPurgedInRange(ctx, req.From, end, req.UserID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load purge log")
		return nil, fmt.Errorf("failed to load purge log: %w", err)
	}
	for i := range entries {
		result.PurgeLogsScanned++
		buckets.get(entries[i].UserID, entries[i].PurgedAt).row.PurgedCount++
	}

	// A purged attempt no longer exists in the attempt table, but it was
	// counted as started and abandoned on its start day when it happened.
	started, err := s.purgeLogRepo.FindStartedInRange(ctx, req.From, end, req.UserID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load purge log")
		return nil, fmt.Errorf("failed to load purge log: %w", err)
	}
	for i := range started {
		e := &started[i]
		cur := buckets.get(e.UserID, e.StartedAt)
		cur.row.StartedCount++
		if e.PriorStatus == model.AttemptStatusAbandoned {
			cur.abandon(e.PriorReason)
		}
	}

	rows := buckets.rows()
	result.Buckets = len(rows)

	if req.DryRun {
		sample := rows
		if len(sample) > previewSampleSize {
			sample = sample[:previewSampleSize]
		}
		if result.Sample, err = toDailyStatsResponses(sample); err != nil {
			return nil, err
		}
		logger.Info().Int("attempts", result.AttemptsScanned).Int("purge_logs", result.PurgeLogsScanned).
			Int("buckets", result.Buckets).Msg("Reconcile dry run finished")
		return result, nil
	}

	switch req.Mode {
	case ReconcileModeRebuild:
		result.RowsDeleted, err = s.statsRepo.ReplaceRange(ctx, result.From, result.To, req.UserID, rows, reconcileChunkSize)
	case ReconcileModeMerge:
		err = s.statsRepo.MergeRows(ctx, rows, reconcileChunkSize)
	}
	if err != nil {
		logger.Error().Err(err).Msg("Failed to write daily stats")
		return nil, fmt.Errorf("failed to write daily stats: %w", err)
	}
	result.RowsWritten = len(rows)

	logger.Info().Int("attempts", result.AttemptsScanned).Int("purge_logs", result.PurgeLogsScanned).
		Int("buckets", result.Buckets).Int64("rows_deleted", result.RowsDeleted).Msg("Reconcile finished")
	return result, nil
}
