package dto

import "time"

// RowError records one attempt a batch job could not process.
type RowError struct {
	AttemptID uint   `json:"attempt_id"`
	Error     string `json:"error"`
}

type AbandonSummary struct {
	RunID             string     `json:"run_id"`
	Processed         int        `json:"processed"`
	MarkedTimeout     int        `json:"marked_timeout"`
	MarkedLowProgress int        `json:"marked_low_progress"`
	Errors            []RowError `json:"errors,omitempty"`
}

type PurgeSummary struct {
	RunID            string     `json:"run_id"`
	Inspected        int        `json:"inspected"`
	Purged           int        `json:"purged"`
	SkippedTooYoung  int        `json:"skipped_too_young"`
	RetainedProgress int        `json:"retained_progress"`
	Errors           []RowError `json:"errors,omitempty"`
}

type ReconcileRequest struct {
	From   time.Time // first day, inclusive
	To     time.Time // last day, inclusive
	UserID *uint
	Mode   string // "rebuild" or "merge"
	DryRun bool
}

type ReconcileResult struct {
	RunID            string               `json:"run_id"`
	From             string               `json:"from"`
	To               string               `json:"to"`
	UserID           *uint                `json:"user_id,omitempty"`
	Mode             string               `json:"mode"`
	DryRun           bool                 `json:"dry_run"`
	AttemptsScanned  int                  `json:"attempts_scanned"`
	PurgeLogsScanned int                  `json:"purge_logs_scanned"`
	Buckets          int                  `json:"buckets"`
	RowsDeleted      int64                `json:"rows_deleted"`
	RowsWritten      int                  `json:"rows_written"`
	Sample           []DailyStatsResponse `json:"sample,omitempty"`
}
