package model

import (
	"time"
)

// AttemptQuestion binds one question instance to an attempt. Pretest
// questions are served but never count towards progress or score.
type AttemptQuestion struct {
	ID               uint            `gorm:"primarykey" json:"id"`
	AttemptID        uint            `json:"attempt_id" gorm:"not null;index"`
	QuestionID       uint            `json:"question_id" gorm:"not null"`
	IsPreTest        bool            `json:"is_pre_test" gorm:"not null"`
	TimeSpentSeconds int             `json:"time_spent_seconds" gorm:"not null"`
	Answers          []AttemptAnswer `json:"answers,omitempty" gorm:"foreignKey:AttemptQuestionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func (AttemptQuestion) TableName() string {
	return "attempt_question"
}
