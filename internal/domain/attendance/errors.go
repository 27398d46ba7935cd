package attendance

import "errors"

var (
	ErrOpenSessionExists  = errors.New("you already have an open attendance session, check out first")
	ErrNoOpenSession      = errors.New("you have not checked in yet")
	ErrBreakAlreadyOpen   = errors.New("a break is already in progress")
	ErrNoOpenBreak        = errors.New("no break in progress")
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrInvalidWindow      = errors.New("invalid date window")
)
