package model

import "time"

// DayLayout is the format of DailyUserStats.StatDate.
const DayLayout = "2006-01-02"

// DayKey returns the UTC calendar day t falls on.
func DayKey(t time.Time) string {
	return t.UTC().Format(DayLayout)
}
