package repository

import (
	"context"

	"github.com/lshigami/attemptkeeper/internal/model"
	"gorm.io/gorm"
)

type QuestionRepository interface {
	FindByAttemptID(ctx context.Context, attemptID uint) ([]model.AttemptQuestion, error)
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) FindByAttemptID(ctx context.Context, attemptID uint) ([]model.AttemptQuestion, error) {
	var questions []model.AttemptQuestion
	if err := r.db.WithContext(ctx).Where("attempt_id = ?", attemptID).Order("id ASC").Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}
