package model

import (
	"time"
)

const (
	AttemptStatusInProgress = "in_progress"
	AttemptStatusFinished   = "finished"
	AttemptStatusAbandoned  = "abandoned"

	ReasonTimeoutInactivity = "timeout_inactivity"
	ReasonLowProgress       = "abandoned_low_progress"

	ModeFull = "full"
	ModeQuiz = "quiz"
)

// Attempt is one user's timed pass through an exam.
type Attempt struct {
	ID             uint              `gorm:"primarykey" json:"id"`
	UserID         uint              `json:"user_id" gorm:"not null;index"`
	ExamTypeID     uint              `json:"exam_type_id" gorm:"not null;index"`
	Mode           string            `json:"mode" gorm:"type:varchar(16);not null"` // "full", "quiz", ...
	StartedAt      time.Time         `json:"started_at" gorm:"not null;index"`
	LastActivityAt *time.Time        `json:"last_activity_at,omitempty"`
	FinishedAt     *time.Time        `json:"finished_at,omitempty"` // stays nil for abandoned attempts
	Status         string            `json:"status" gorm:"type:varchar(16);not null;index;default:'in_progress'"`
	StatusReason   *string           `json:"status_reason,omitempty" gorm:"type:varchar(32)"`
	CorrectCount   int               `json:"correct_count" gorm:"not null"`
	TotalCount     int               `json:"total_count" gorm:"not null"`
	ScorePercent   *float64          `json:"score_percent,omitempty"`
	Questions      []AttemptQuestion `json:"questions,omitempty" gorm:"foreignKey:AttemptID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

func (Attempt) TableName() string {
	return "attempt"
}

// LastSeen is the last moment the user interacted with the attempt.
func (a *Attempt) LastSeen() time.Time {
	if a.LastActivityAt != nil {
		return *a.LastActivityAt
	}
	return a.StartedAt
}
