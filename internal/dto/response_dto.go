package dto

import "time"

type ProgressResponse struct {
	AttemptID        uint    `json:"attempt_id"`
	RespondedCount   int     `json:"responded_count"`
	ScorableCount    int     `json:"scorable_count"`
	RespondedPercent float64 `json:"responded_percent"`
}

type AttemptResponse struct {
	ID             uint       `json:"id"`
	UserID         uint       `json:"user_id"`
	ExamTypeID     uint       `json:"exam_type_id"`
	Mode           string     `json:"mode"`
	Status         string     `json:"status"`
	StatusReason   *string    `json:"status_reason,omitempty"`
	StartedAt      time.Time  `json:"started_at"`
	LastActivityAt *time.Time `json:"last_activity_at,omitempty"`
	FinishedAt     *time.Time `json:"finished_at,omitempty"`
	CorrectCount   int        `json:"correct_count"`
	TotalCount     int        `json:"total_count"`
	ScorePercent   *float64   `json:"score_percent,omitempty"`
}

type DailyStatsResponse struct {
	UserID           uint    `json:"user_id"`
	StatDate         string  `json:"date"`
	StartedCount     int     `json:"started"`
	FinishedCount    int     `json:"finished"`
	AbandonedCount   int     `json:"abandoned"`
	TimeoutCount     int     `json:"timeout"`
	LowProgressCount int     `json:"low_progress"`
	PurgedCount      int     `json:"purged"`
	AvgScorePercent  float64 `json:"avg_score_percent"`
	AbandonRate      float64 `json:"abandon_rate"`
	CompletionRate   float64 `json:"completion_rate"`
	PurgeRate        float64 `json:"purge_rate"`
}

type StatsSummaryResponse struct {
	UserID          uint    `json:"user_id"`
	Days            int     `json:"days"`
	From            string  `json:"from"`
	To              string  `json:"to"`
	Started         int     `json:"started"`
	Finished        int     `json:"finished"`
	Abandoned       int     `json:"abandoned"`
	Timeout         int     `json:"timeout"`
	LowProgress     int     `json:"low_progress"`
	Purged          int     `json:"purged"`
	AbandonRate     float64 `json:"abandon_rate"`
	CompletionRate  float64 `json:"completion_rate"`
	PurgeRate       float64 `json:"purge_rate"`
	AvgScorePercent float64 `json:"avg_score_percent"`
}

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}
