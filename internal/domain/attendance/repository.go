package attendance

import (
	"context"
	"time"
)

type AttendanceRepository interface {
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	// GetOpenSession returns the user's session without a checkout, or ErrNoOpenSession.
	GetOpenSession(ctx context.Context, userID string) (Attendance, error)

	Close(ctx context.Context, id string, checkoutTime time.Time) (Attendance, error)

	// ListByUserWindow returns sessions checked in within [from, to] with their breaks.
	ListByUserWindow(ctx context.Context, userID string, from, to time.Time) ([]Attendance, error)

	ExistsBetween(ctx context.Context, userID string, from, to time.Time) (bool, error)
}

type BreakLogRepository interface {
	Create(ctx context.Context, b BreakLog) (BreakLog, error)

	// GetOpenByAttendance returns the session's unfinished break, or ErrNoOpenBreak.
	GetOpenByAttendance(ctx context.Context, attendanceID string) (BreakLog, error)

	Close(ctx context.Context, id string, endTime time.Time, duration int) (BreakLog, error)

	// ListOpenStartedBefore returns unfinished breaks that started before the given instant.
	ListOpenStartedBefore(ctx context.Context, before time.Time) ([]BreakLog, error)
}
