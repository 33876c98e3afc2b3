package model

import (
	"time"
)

// AttemptAnswer is one selected option or free-form response. Multi-select
// questions carry several rows.
type AttemptAnswer struct {
	ID                uint      `gorm:"primarykey" json:"id"`
	AttemptQuestionID uint      `json:"attempt_question_id" gorm:"not null;index"`
	OptionID          *uint     `json:"option_id,omitempty"`
	IsSelected        bool      `json:"is_selected" gorm:"not null"`
	ResponseText      *string   `json:"response_text,omitempty" gorm:"type:text"`
	IsCorrect         *bool     `json:"is_correct,omitempty"` // set by the grading service
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (AttemptAnswer) TableName() string {
	return "attempt_answer"
}
