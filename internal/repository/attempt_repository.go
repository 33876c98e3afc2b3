package repository

import (
	"context"
	"time"

	"github.com/lshigami/attemptkeeper/internal/model"
	"gorm.io/gorm"
)

type AttemptRepository interface {
	Create(ctx context.Context, attempt *model.Attempt) error
	FindByID(ctx context.Context, id uint) (*model.Attempt, error)
	FindByStatus(ctx context.Context, status string, limit int) ([]model.Attempt, error) // oldest started_at first
	MarkAbandoned(ctx context.Context, id uint, reason string) (bool, error)
	MarkFinished(ctx context.Context, id uint, correct, total int, score float64, at time.Time) (bool, error)
	Touch(ctx context.Context, id uint, at time.Time) (bool, error)
	FindStartedInRange(ctx context.Context, from, to time.Time, userID *uint, batchSize int, fn func([]model.Attempt) error) error
	DeleteWithDetails(ctx context.Context, tx *gorm.DB, id uint) error
}

type attemptRepository struct {
	db *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) AttemptRepository {
	return &attemptRepository{db: db}
}

func (r *attemptRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *attemptRepository) Create(ctx context.Context, attempt *model.Attempt) error {
	return r.db.WithContext(ctx).Create(attempt).Error
}

func (r *attemptRepository) FindByID(ctx context.Context, id uint) (*model.Attempt, error) {
	var attempt model.Attempt
	if err := r.db.WithContext(ctx).First(&attempt, id).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) FindByStatus(ctx context.Context, status string, limit int) ([]model.Attempt, error) {
	var attempts []model.Attempt
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("started_at ASC").
		Order("id ASC").
		Limit(limit).
		Find(&attempts).Error
	return attempts, err
}

// MarkAbandoned flips an in_progress attempt to abandoned. It reports false
// when the attempt left in_progress in the meantime (e.g. it was finished).
// finished_at is left untouched on purpose.
func (r *attemptRepository) MarkAbandoned(ctx context.Context, id uint, reason string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Attempt{}).
		Where("id = ? AND status = ?", id, model.AttemptStatusInProgress).
		Updates(map[string]interface{}{
			"status":        model.AttemptStatusAbandoned,
			"status_reason": reason,
		})
	return res.RowsAffected == 1, res.Error
}

func (r *attemptRepository) MarkFinished(ctx context.Context, id uint, correct, total int, score float64, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Attempt{}).
		Where("id = ? AND status = ?", id, model.AttemptStatusInProgress).
		Updates(map[string]interface{}{
			"status":           model.AttemptStatusFinished,
			"status_reason":    nil,
			"finished_at":      at,
			"last_activity_at": at,
			"correct_count":    correct,
			"total_count":      total,
			"score_percent":    score,
		})
	return res.RowsAffected == 1, res.Error
}

func (r *attemptRepository) Touch(ctx context.Context, id uint, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Attempt{}).
		Where("id = ? AND status = ?", id, model.AttemptStatusInProgress).
		Update("last_activity_at", at)
	return res.RowsAffected == 1, res.Error
}

// FindStartedInRange streams attempts with started_at in [from, to) to fn,
// batchSize rows at a time.
func (r *attemptRepository) FindStartedInRange(ctx context.Context, from, to time.Time, userID *uint, batchSize int, fn func([]model.Attempt) error) error {
	query := r.db.WithContext(ctx).
		Where("started_at >= ? AND started_at < ?", from, to)
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}

	var batch []model.Attempt
	res := query.FindInBatches(&batch, batchSize, func(tx *gorm.DB, _ int) error {
		return fn(batch)
	})
	return res.Error
}

// DeleteWithDetails removes the attempt together with its questions and
// answers. Callers purging an attempt pass the transaction that also holds
// the audit insert.
func (r *attemptRepository) DeleteWithDetails(ctx context.Context, tx *gorm.DB, id uint) error {
	db := r.getDB(tx).WithContext(ctx)

	var questionIDs []uint
	if err := db.Model(&model.AttemptQuestion{}).Where("attempt_id = ?", id).Pluck("id", &questionIDs).Error; err != nil {
		return err
	}
	if len(questionIDs) > 0 {
		if err := db.Where("attempt_question_id IN ?", questionIDs).Delete(&model.AttemptAnswer{}).Error; err != nil {
			return err
		}
		if err := db.Where("attempt_id = ?", id).Delete(&model.AttemptQuestion{}).Error; err != nil {
			return err
		}
	}

	res := db.Delete(&model.Attempt{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
