package repository

import (
	"context"
	"time"

	"github.com/lshigami/attemptkeeper/internal/model"
	"gorm.io/gorm"
)

// PurgeLogRepository is append-only: there is no update or delete.
type PurgeLogRepository interface {
	Create(ctx context.Context, tx *gorm.DB, entry *model.PurgeLogEntry) error
	FindPurgedInRange(ctx context.Context, from, to time.Time, userID *uint) ([]model.PurgeLogEntry, error)
	FindStartedInRange(ctx context.Context, from, to time.Time, userID *uint) ([]model.PurgeLogEntry, error)
}

type purgeLogRepository struct {
	db *gorm.DB
}

func NewPurgeLogRepository(db *gorm.DB) PurgeLogRepository {
	return &purgeLogRepository{db: db}
}

func (r *purgeLogRepository) Create(ctx context.Context, tx *gorm.DB, entry *model.PurgeLogEntry) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	return db.WithContext(ctx).Create(entry).Error
}

// FindPurgedInRange returns the entries with purged_at in [from, to).
func (r *purgeLogRepository) FindPurgedInRange(ctx context.Context, from, to time.Time, userID *uint) ([]model.PurgeLogEntry, error) {
	return r.findInRange(ctx, "purged_at", from, to, userID)
}

// FindStartedInRange returns the entries whose attempt started in [from, to).
func (r *purgeLogRepository) FindStartedInRange(ctx context.Context, from, to time.Time, userID *uint) ([]model.PurgeLogEntry, error) {
	return r.findInRange(ctx, "started_at", from, to, userID)
}

func (r *purgeLogRepository) findInRange(ctx context.Context, column string, from, to time.Time, userID *uint) ([]model.PurgeLogEntry, error) {
	query := r.db.WithContext(ctx).Where(column+" >= ? AND "+column+" < ?", from, to)
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}
	var entries []model.PurgeLogEntry
	if err := query.Order(column + " ASC").Order("id ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
