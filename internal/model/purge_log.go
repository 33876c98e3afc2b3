package model

import (
	"time"

	"gorm.io/datatypes"
)

// PurgeLogEntry is the audit snapshot written in the same transaction that
// deletes an abandoned attempt. Rows are append-only.
type PurgeLogEntry struct {
	ID               uint           `gorm:"primarykey" json:"id"`
	AttemptID        uint           `json:"attempt_id" gorm:"not null;uniqueIndex"`
	UserID           uint           `json:"user_id" gorm:"not null;index"`
	ExamTypeID       uint           `json:"exam_type_id" gorm:"not null"`
	Mode             string         `json:"mode" gorm:"type:varchar(16);not null"`
	RespondedCount   int            `json:"responded_count" gorm:"not null"`
	ScorableCount    int            `json:"scorable_count" gorm:"not null"`
	RespondedPercent float64        `json:"responded_percent" gorm:"not null"`
	PriorStatus      string         `json:"prior_status" gorm:"type:varchar(16);not null"`
	PriorReason      *string        `json:"prior_reason,omitempty" gorm:"type:varchar(32)"`
	StartedAt        time.Time      `json:"started_at" gorm:"not null"`
	FinishedAt       *time.Time     `json:"finished_at,omitempty"`
	PurgedAt         time.Time      `json:"purged_at" gorm:"not null;index"`
	Metadata         datatypes.JSON `json:"metadata,omitempty"`
}

func (PurgeLogEntry) TableName() string {
	return "attempt_purge_log"
}
