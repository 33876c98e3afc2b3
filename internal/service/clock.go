package service

import "time"

// Clock is injected into every time-dependent service so jobs can be run
// against a fixed "now".
type Clock interface {
	Now() time.Time
}

type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

func NewSystemClock() Clock {
	return ClockFunc(func() time.Time { return time.Now().UTC() })
}
