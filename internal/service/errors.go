package service

import "errors"

var (
	ErrInvalidRange         = errors.New("invalid date range")
	ErrRangeTooLarge        = errors.New("date range too large")
	ErrUnknownMode          = errors.New("unknown reconcile mode")
	ErrConfirmationRequired = errors.New("confirmation required for destructive operation")
	ErrInvalidTransition    = errors.New("attempt is not in progress")
	ErrInvalidScore         = errors.New("score must be a finite number")
)
