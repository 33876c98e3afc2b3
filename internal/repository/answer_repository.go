package repository

import (
	"context"

	"github.com/lshigami/attemptkeeper/internal/model"
	"gorm.io/gorm"
)

type AnswerRepository interface {
	// RespondedQuestionIDs returns which of questionIDs carry at least one
	// selected option or a free-form response.
	RespondedQuestionIDs(ctx context.Context, questionIDs []uint) ([]uint, error)
}

type answerRepository struct {
	db *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) AnswerRepository {
	return &answerRepository{db: db}
}

func (r *answerRepository) RespondedQuestionIDs(ctx context.Context, questionIDs []uint) ([]uint, error) {
	if len(questionIDs) == 0 {
		return nil, nil
	}
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&model.AttemptAnswer{}).
		Distinct("attempt_question_id").
		Where("attempt_question_id IN ?", questionIDs).
		Where("(is_selected = ? OR response_text IS NOT NULL)", true).
		Pluck("attempt_question_id", &ids).Error
	return ids, err
}
