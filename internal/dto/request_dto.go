package dto

// StartAttemptRequest opens a new attempt for a user.
type StartAttemptRequest struct {
	UserID     uint   `json:"user_id" binding:"required"`
	ExamTypeID uint   `json:"exam_type_id" binding:"required"`
	Mode       string `json:"mode" binding:"required,oneof=full quiz practice"`
}

// FinishAttemptRequest carries the grading result of an attempt.
type FinishAttemptRequest struct {
	CorrectCount int `json:"correct_count" binding:"min=0"`
	TotalCount   int `json:"total_count" binding:"min=0,gtefield=CorrectCount"`
}

// ReconcileQuery is bound from the admin reconcile query string.
type ReconcileQuery struct {
	From    string `form:"from" binding:"required"`
	To      string `form:"to" binding:"required"`
	UserID  *uint  `form:"user_id"`
	Mode    string `form:"mode"`
	DryRun  bool   `form:"dryRun"`
	Confirm bool   `form:"confirm"`
}
