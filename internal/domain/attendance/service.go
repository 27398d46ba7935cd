package attendance

import (
	"context"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/user"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	CheckIn(ctx context.Context, actor user.Actor, req CheckInRequest) (AttendanceResponse, error)
	CheckOut(ctx context.Context, actor user.Actor) (AttendanceResponse, error)
	StartBreak(ctx context.Context, actor user.Actor, req StartBreakRequest) (BreakResponse, error)
	EndBreak(ctx context.Context, actor user.Actor) (BreakResponse, error)

	MyAttendance(ctx context.Context, actor user.Actor, q WindowQuery) (WindowTotals, error)
	UserAttendance(ctx context.Context, actor user.Actor, userID string, q WindowQuery) (WindowTotals, error)
	Summary(ctx context.Context, actor user.Actor, userID string, q WindowQuery) (SummaryResponse, error)
}
