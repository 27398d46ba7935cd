package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/approval"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/cycle"
)

var approvedOnly = []approval.Status{approval.StatusApproved}

type PayrollServiceImpl struct {
	userRepo       user.UserRepository
	attendanceRepo attendance.AttendanceRepository
	leaveRepo      leave.LeaveRequestRepository
	permissionRepo leave.PermissionRequestRepository
	settingsRepo   payroll.SettingsRepository
	now            func() time.Time
}

func NewPayrollService(
	userRepo user.UserRepository,
	attendanceRepo attendance.AttendanceRepository,
	leaveRepo leave.LeaveRequestRepository,
	permissionRepo leave.PermissionRequestRepository,
	settingsRepo payroll.SettingsRepository,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		userRepo:       userRepo,
		attendanceRepo: attendanceRepo,
		leaveRepo:      leaveRepo,
		permissionRepo: permissionRepo,
		settingsRepo:   settingsRepo,
		now:            time.Now,
	}
}

// shortageEnabled reads the global toggle. A missing row or a failed read
// counts as enabled.
func (s *PayrollServiceImpl) shortageEnabled(ctx context.Context) bool {
	enabled, err := s.settingsRepo.GetBool(ctx, payroll.SettingTimeShortageDeduction)
	if err != nil {
		if !errors.Is(err, payroll.ErrSettingNotFound) {
			slog.Warn("Failed to read payroll setting, defaulting to enabled", "key", payroll.SettingTimeShortageDeduction, "error", err)
		}
		return true
	}
	return enabled
}

func cycleInfo(c cycle.Cycle, now time.Time) payroll.CycleInfo {
	return payroll.CycleInfo{
		Start:     cycle.DateKey(c.Start),
		End:       cycle.DateKey(c.End),
		Label:     c.Label(),
		Month:     int(c.Month),
		Year:      c.Year,
		TotalDays: c.DaysElapsed(now),
		IsClosed:  c.IsClosed(now),
	}
}

// compute gathers the cycle figures of u and runs the formula.
func (s *PayrollServiceImpl) compute(ctx context.Context, u user.User, c cycle.Cycle, now time.Time, globalShortage bool) (payroll.Salary, error) {
	records, err := s.attendanceRepo.ListByUserWindow(ctx, u.ID, c.Start, c.End)
	if err != nil {
		return payroll.Salary{}, fmt.Errorf("failed to list attendance: %w", err)
	}
	totals := attendance.Aggregate(records)

	leaves, err := s.leaveRepo.ListOverlapping(ctx, u.ID, c.Start, c.End, approvedOnly)
	if err != nil {
		return payroll.Salary{}, fmt.Errorf("failed to list approved leaves: %w", err)
	}
	var leaveDays float64
	for _, l := range leaves {
		leaveDays += l.DaysIn(c.Start, c.End)
	}

	permissions, err := s.permissionRepo.CountInWindow(ctx, u.ID, c.Start, c.End, approvedOnly)
	if err != nil {
		return payroll.Salary{}, fmt.Errorf("failed to count approved permissions: %w", err)
	}

	info := cycleInfo(c, now)
	stats, financials := Compute(Inputs{
		AllocatedSalary:      u.AllocatedSalary,
		TotalCycleDays:       info.TotalDays,
		PresentDays:          totals.PresentDays,
		NetWorkingMinutes:    totals.NetMinutes,
		ApprovedLeaves:       leaveDays,
		ApprovedPermissions:  permissions,
		Deductions:           u.SalaryDeductionBreakdown.For(c.Month, c.Year),
		LegacyDeduction:      u.SalaryDeductions,
		TimeShortageEnforced: globalShortage && u.TimeShortageDeductionEnabled,
	})

	return payroll.Salary{
		UserID:      u.ID,
		UserName:    u.Name,
		Email:       u.Email,
		Designation: u.Designation,
		Cycle:       info,
		Stats:       stats,
		Financials:  financials,
	}, nil
}

// MySalary implements payroll.PayrollService.
func (s *PayrollServiceImpl) MySalary(ctx context.Context, actor user.Actor, sel payroll.Selector) (payroll.Salary, error) {
	u, err := s.userRepo.GetByID(ctx, actor.ID)
	if err != nil {
		return payroll.Salary{}, err
	}
	if !u.SalaryViewEnabled {
		return payroll.Salary{}, payroll.ErrSalaryViewDisabled
	}

	now := s.now()
	return s.compute(ctx, u, sel.Resolve(now), now, s.shortageEnabled(ctx))
}

// UserSalary implements payroll.PayrollService.
func (s *PayrollServiceImpl) UserSalary(ctx context.Context, actor user.Actor, userID string, sel payroll.Selector) (payroll.Salary, error) {
	if !actor.Role.IsAdminTier() {
		return payroll.Salary{}, user.ErrInsufficientPermissions
	}
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return payroll.Salary{}, err
	}

	now := s.now()
	return s.compute(ctx, u, sel.Resolve(now), now, s.shortageEnabled(ctx))
}

// GetSettings implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetSettings(ctx context.Context, actor user.Actor) (payroll.SettingsResponse, error) {
	if !actor.Role.IsAdminTier() {
		return payroll.SettingsResponse{}, user.ErrInsufficientPermissions
	}
	return payroll.SettingsResponse{TimeShortageDeductionEnabled: s.shortageEnabled(ctx)}, nil
}

// UpdateSettings implements payroll.PayrollService.
func (s *PayrollServiceImpl) UpdateSettings(ctx context.Context, actor user.Actor, req payroll.UpdateSettingsRequest) (payroll.SettingsResponse, error) {
	if !actor.Is(user.RoleAdmin) {
		return payroll.SettingsResponse{}, user.ErrInsufficientPermissions
	}
	if err := req.Validate(); err != nil {
		return payroll.SettingsResponse{}, err
	}
	if err := s.settingsRepo.SetBool(ctx, payroll.SettingTimeShortageDeduction, *req.TimeShortageDeductionEnabled); err != nil {
		return payroll.SettingsResponse{}, fmt.Errorf("failed to save payroll setting: %w", err)
	}
	slog.Info("Payroll setting updated", "key", payroll.SettingTimeShortageDeduction, "value", *req.TimeShortageDeductionEnabled, "actor_id", actor.ID)
	return payroll.SettingsResponse{TimeShortageDeductionEnabled: *req.TimeShortageDeductionEnabled}, nil
}
