package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/worklog"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/cycle"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/database"
)

type AttendanceServiceImpl struct {
	tx database.Transactor
	attendance.AttendanceRepository
	attendance.BreakLogRepository
	user.UserRepository
	worklog.WorkLogRepository
	now func() time.Time
}

func NewAttendanceService(
	tx database.Transactor,
	attendanceRepo attendance.AttendanceRepository,
	breakRepo attendance.BreakLogRepository,
	userRepo user.UserRepository,
	workLogRepo worklog.WorkLogRepository,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		tx:                   tx,
		AttendanceRepository: attendanceRepo,
		BreakLogRepository:   breakRepo,
		UserRepository:       userRepo,
		WorkLogRepository:    workLogRepo,
		now:                  time.Now,
	}
}

func (a *AttendanceServiceImpl) activeUser(ctx context.Context, id string) (user.User, error) {
	u, err := a.UserRepository.GetByID(ctx, id)
	if err != nil {
		return user.User{}, err
	}
	if u.IsBlocked() {
		return user.User{}, user.ErrUserBlocked
	}
	return u, nil
}

// CheckIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, actor user.Actor, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
	if _, err := a.activeUser(ctx, actor.ID); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	var created attendance.Attendance
	err := a.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		_, err := a.AttendanceRepository.GetOpenSession(txCtx, actor.ID)
		if err == nil {
			return attendance.ErrOpenSessionExists
		}
		if !errors.Is(err, attendance.ErrNoOpenSession) {
			return fmt.Errorf("failed to check open session: %w", err)
		}

		created, err = a.AttendanceRepository.Create(txCtx, attendance.Attendance{
			UserID:    actor.ID,
			Date:      a.now().In(cycle.Location),
			Device:    req.Device,
			IPAddress: req.IPAddress,
		})
		return err
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	slog.Info("Checked in", "user_id", actor.ID, "attendance_id", created.ID)
	return created.ToResponse(), nil
}

// CheckOut implements attendance.AttendanceService. An unfinished break ends at checkout.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, actor user.Actor) (attendance.AttendanceResponse, error) {
	var closed attendance.Attendance
	err := a.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		open, err := a.AttendanceRepository.GetOpenSession(txCtx, actor.ID)
		if err != nil {
			return err
		}
		now := a.now().In(cycle.Location)

		openBreak, err := a.BreakLogRepository.GetOpenByAttendance(txCtx, open.ID)
		switch {
		case err == nil:
			if _, err := a.BreakLogRepository.Close(txCtx, openBreak.ID, now, attendance.BreakMinutes(openBreak.StartTime, now)); err != nil {
				return fmt.Errorf("failed to close break: %w", err)
			}
		case !errors.Is(err, attendance.ErrNoOpenBreak):
			return fmt.Errorf("failed to check open break: %w", err)
		}

		closed, err = a.AttendanceRepository.Close(txCtx, open.ID, now)
		if err != nil {
			return err
		}

		sessions, err := a.AttendanceRepository.ListByUserWindow(txCtx, actor.ID, closed.Date, closed.Date)
		if err != nil {
			return fmt.Errorf("failed to reload session: %w", err)
		}
		for _, s := range sessions {
			if s.ID == closed.ID {
				closed = s
			}
		}
		return nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return closed.ToResponse(), nil
}

// StartBreak implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) StartBreak(ctx context.Context, actor user.Actor, req attendance.StartBreakRequest) (attendance.BreakResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.BreakResponse{}, err
	}

	var created attendance.BreakLog
	err := a.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		open, err := a.AttendanceRepository.GetOpenSession(txCtx, actor.ID)
		if err != nil {
			return err
		}

		_, err = a.BreakLogRepository.GetOpenByAttendance(txCtx, open.ID)
		if err == nil {
			return attendance.ErrBreakAlreadyOpen
		}
		if !errors.Is(err, attendance.ErrNoOpenBreak) {
			return fmt.Errorf("failed to check open break: %w", err)
		}

		created, err = a.BreakLogRepository.Create(txCtx, attendance.BreakLog{
			AttendanceID: open.ID,
			BreakType:    attendance.BreakType(req.BreakType),
			StartTime:    a.now().In(cycle.Location),
			UserID:       actor.ID,
		})
		return err
	})
	if err != nil {
		return attendance.BreakResponse{}, err
	}
	return created.ToResponse(), nil
}

// EndBreak implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) EndBreak(ctx context.Context, actor user.Actor) (attendance.BreakResponse, error) {
	var closed attendance.BreakLog
	err := a.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		open, err := a.AttendanceRepository.GetOpenSession(txCtx, actor.ID)
		if err != nil {
			return err
		}
		openBreak, err := a.BreakLogRepository.GetOpenByAttendance(txCtx, open.ID)
		if err != nil {
			return err
		}

		now := a.now().In(cycle.Location)
		closed, err = a.BreakLogRepository.Close(txCtx, openBreak.ID, now, attendance.BreakMinutes(openBreak.StartTime, now))
		return err
	})
	if err != nil {
		return attendance.BreakResponse{}, err
	}
	return closed.ToResponse(), nil
}

func (a *AttendanceServiceImpl) window(ctx context.Context, userID string, q attendance.WindowQuery) (attendance.WindowTotals, time.Time, time.Time, error) {
	if err := q.Validate(); err != nil {
		return attendance.WindowTotals{}, time.Time{}, time.Time{}, err
	}
	from, to, err := q.Bounds(a.now())
	if err != nil {
		return attendance.WindowTotals{}, time.Time{}, time.Time{}, err
	}

	records, err := a.AttendanceRepository.ListByUserWindow(ctx, userID, from, to)
	if err != nil {
		return attendance.WindowTotals{}, time.Time{}, time.Time{}, fmt.Errorf("failed to list attendance: %w", err)
	}
	return attendance.Aggregate(records), from, to, nil
}

// authorizeView loads the target user and checks it is within the actor's scope.
func (a *AttendanceServiceImpl) authorizeView(ctx context.Context, actor user.Actor, userID string) error {
	if userID == actor.ID {
		return nil
	}
	target, err := a.UserRepository.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.ResolveScope(actor).Allows(target) {
		return user.ErrInsufficientPermissions
	}
	return nil
}

// MyAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) MyAttendance(ctx context.Context, actor user.Actor, q attendance.WindowQuery) (attendance.WindowTotals, error) {
	totals, _, _, err := a.window(ctx, actor.ID, q)
	return totals, err
}

// UserAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) UserAttendance(ctx context.Context, actor user.Actor, userID string, q attendance.WindowQuery) (attendance.WindowTotals, error) {
	if err := a.authorizeView(ctx, actor, userID); err != nil {
		return attendance.WindowTotals{}, err
	}
	totals, _, _, err := a.window(ctx, userID, q)
	return totals, err
}

// Summary implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Summary(ctx context.Context, actor user.Actor, userID string, q attendance.WindowQuery) (attendance.SummaryResponse, error) {
	if err := a.authorizeView(ctx, actor, userID); err != nil {
		return attendance.SummaryResponse{}, err
	}

	totals, from, to, err := a.window(ctx, userID, q)
	if err != nil {
		return attendance.SummaryResponse{}, err
	}

	submitted, err := a.WorkLogRepository.CountSubmittedDays(ctx, userID, from, to)
	if err != nil {
		return attendance.SummaryResponse{}, fmt.Errorf("failed to count work logs: %w", err)
	}

	return attendance.SummaryResponse{
		UserID:                 userID,
		From:                   cycle.DateKey(from),
		To:                     cycle.DateKey(to),
		PresentDays:            totals.PresentDays,
		GrossMinutes:           totals.GrossMinutes,
		DeductibleBreakMinutes: totals.DeductibleMinutes,
		MeetingMinutes:         totals.MeetingMinutes,
		NetMinutes:             totals.NetMinutes,
		NetHours:               totals.NetHours(),
		Efficiency:             attendance.Efficiency(totals.NetMinutes, totals.PresentDays),
		SubmittedWorkLogDays:   submitted,
		ConsistencyScore:       attendance.Consistency(submitted, totals.PresentDays),
		HasActiveSession:       totals.HasActiveSession,
	}, nil
}
