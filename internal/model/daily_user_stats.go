package model

// DailyUserStats holds the per-user, per-day lifecycle counters. The
// (user_id, stat_date) pair is the primary key, so rebuilt rows are
// identical to the rows they replace.
type DailyUserStats struct {
	UserID           uint    `json:"user_id" gorm:"primaryKey;autoIncrement:false"`
	StatDate         string  `json:"stat_date" gorm:"primaryKey;type:varchar(10)"` // YYYY-MM-DD, UTC
	StartedCount     int     `json:"started_count" gorm:"not null"`
	FinishedCount    int     `json:"finished_count" gorm:"not null"`
	AbandonedCount   int     `json:"abandoned_count" gorm:"not null"`
	TimeoutCount     int     `json:"timeout_count" gorm:"not null"`
	LowProgressCount int     `json:"low_progress_count" gorm:"not null"`
	PurgedCount      int     `json:"purged_count" gorm:"not null"`
	AvgScorePercent  float64 `json:"avg_score_percent" gorm:"not null"`
}

func (DailyUserStats) TableName() string {
	return "daily_user_stats"
}
