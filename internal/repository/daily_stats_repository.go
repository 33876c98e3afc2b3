package repository

import (
	"context"
	"fmt"

	"github.com/lshigami/attemptkeeper/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StatsDelta is what one event adds to a (user, day) row. ScoreSum is the
// sum of the scores of the Finished attempts being added.
type StatsDelta struct {
	Started     int
	Finished    int
	Abandoned   int
	Timeout     int
	LowProgress int
	Purged      int
	ScoreSum    float64
}

type DailyStatsRepository interface {
	Increment(ctx context.Context, userID uint, day string, delta StatsDelta) error
	FindByUserRange(ctx context.Context, userID uint, fromDay, toDay string) ([]model.DailyUserStats, error)
	FindRange(ctx context.Context, fromDay, toDay string, userID *uint) ([]model.DailyUserStats, error)
	ReplaceRange(ctx context.Context, fromDay, toDay string, userID *uint, rows []model.DailyUserStats, chunkSize int) (int64, error)
	MergeRows(ctx context.Context, rows []model.DailyUserStats, chunkSize int) error
}

type dailyStatsRepository struct {
	db *gorm.DB
}

func NewDailyStatsRepository(db *gorm.DB) DailyStatsRepository {
	return &dailyStatsRepository{db: db}
}

var statsConflictColumns = []clause.Column{{Name: "user_id"}, {Name: "stat_date"}}

// Increment upserts the row in a single statement. Every counter update is
// written against the stored value with the delta bound as a parameter, so
// concurrent increments of the same key cannot lose updates.
func (r *dailyStatsRepository) Increment(ctx context.Context, userID uint, day string, delta StatsDelta) error {
	row := model.DailyUserStats{
		UserID:           userID,
		StatDate:         day,
		StartedCount:     delta.Started,
		FinishedCount:    delta.Finished,
		AbandonedCount:   delta.Abandoned,
		TimeoutCount:     delta.Timeout,
		LowProgressCount: delta.LowProgress,
		PurgedCount:      delta.Purged,
	}
	if delta.Finished > 0 {
		row.AvgScorePercent = delta.ScoreSum / float64(delta.Finished)
	}

	set := map[string]interface{}{}
	addCounter(set, "started_count", delta.Started)
	addCounter(set, "abandoned_count", delta.Abandoned)
	addCounter(set, "timeout_count", delta.Timeout)
	addCounter(set, "low_progress_count", delta.LowProgress)
	addCounter(set, "purged_count", delta.Purged)
	if delta.Finished > 0 {
		// Both expressions read the pre-increment finished_count.
		set["avg_score_percent"] = gorm.Expr(
			"(daily_user_stats.avg_score_percent * daily_user_stats.finished_count + ?) / (daily_user_stats.finished_count + ?)",
			delta.ScoreSum, delta.Finished)
		addCounter(set, "finished_count", delta.Finished)
	}
	if len(set) == 0 {
		return fmt.Errorf("empty stats delta for user %d on %s", userID, day)
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   statsConflictColumns,
			DoUpdates: clause.Assignments(set),
		}).
		Create(&row).Error
}

func addCounter(set map[string]interface{}, column string, delta int) {
	if delta == 0 {
		return
	}
	set[column] = gorm.Expr("daily_user_stats."+column+" + ?", delta)
}

func (r *dailyStatsRepository) FindByUserRange(ctx context.Context, userID uint, fromDay, toDay string) ([]model.DailyUserStats, error) {
	return r.FindRange(ctx, fromDay, toDay, &userID)
}

func (r *dailyStatsRepository) FindRange(ctx context.Context, fromDay, toDay string, userID *uint) ([]model.DailyUserStats, error) {
	query := r.db.WithContext(ctx).Where("stat_date >= ? AND stat_date <= ?", fromDay, toDay)
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}
	var rows []model.DailyUserStats
	if err := query.Order("user_id ASC").Order("stat_date ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ReplaceRange deletes the rows for [fromDay, toDay] (optionally one user)
// and inserts rows in their place, all in one transaction. It returns the
// number of deleted rows.
func (r *dailyStatsRepository) ReplaceRange(ctx context.Context, fromDay, toDay string, userID *uint, rows []model.DailyUserStats, chunkSize int) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		del := tx.Where("stat_date >= ? AND stat_date <= ?", fromDay, toDay)
		if userID != nil {
			del = del.Where("user_id = ?", *userID)
		}
		res := del.Delete(&model.DailyUserStats{})
		if res.Error != nil {
			return fmt.Errorf("failed to clear daily stats: %w", res.Error)
		}
		deleted = res.RowsAffected

		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(&rows, chunkSize).Error; err != nil {
			return fmt.Errorf("failed to insert daily stats: %w", err)
		}
		return nil
	})
	return deleted, err
}

// MergeRows adds rows onto whatever is stored. The stored average is blended
// with the incoming one as a plain two-point mean when both sides have
// finished attempts; this is not weighted by finished_count.
func (r *dailyStatsRepository) MergeRows(ctx context.Context, rows []model.DailyUserStats, chunkSize int) error {
	if len(rows) == 0 {
		return nil
	}
	set := map[string]interface{}{
		"avg_score_percent": gorm.Expr(
			"CASE WHEN daily_user_stats.finished_count = 0 THEN excluded.avg_score_percent " +
				"WHEN excluded.finished_count = 0 THEN daily_user_stats.avg_score_percent " +
				"ELSE (daily_user_stats.avg_score_percent + excluded.avg_score_percent) / 2 END"),
	}
	for _, column := range []string{"started_count", "finished_count", "abandoned_count", "timeout_count", "low_progress_count", "purged_count"} {
		set[column] = gorm.Expr("daily_user_stats." + column + " + excluded." + column)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   statsConflictColumns,
			DoUpdates: clause.Assignments(set),
		}).CreateInBatches(&rows, chunkSize).Error
	})
}
