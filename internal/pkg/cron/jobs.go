package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/approval"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/worklog"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/cycle"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/metrics"
)

const (
	// AbsenceWindowDays is how many days before today are inspected.
	AbsenceWindowDays = 3
	// MinTenureDays keeps freshly created accounts out of the absence check.
	MinTenureDays = 4
)

// BlockNotifier tells HR about an automatically blocked account.
type BlockNotifier interface {
	SendAccountBlocked(userName, userEmail string, absentDays []string) error
}

// DailyJobs holds the jobs run once a day at the configured time.
type DailyJobs struct {
	tx             database.Transactor
	userRepo       user.UserRepository
	attendanceRepo attendance.AttendanceRepository
	breakRepo      attendance.BreakLogRepository
	leaveRepo      leave.LeaveRequestRepository
	workLogRepo    worklog.WorkLogRepository
	auditRepo      audit.AuditLogRepository
	notifier       BlockNotifier
}

func NewDailyJobs(
	tx database.Transactor,
	userRepo user.UserRepository,
	attendanceRepo attendance.AttendanceRepository,
	breakRepo attendance.BreakLogRepository,
	leaveRepo leave.LeaveRequestRepository,
	workLogRepo worklog.WorkLogRepository,
	auditRepo audit.AuditLogRepository,
	notifier BlockNotifier,
) *DailyJobs {
	return &DailyJobs{
		tx:             tx,
		userRepo:       userRepo,
		attendanceRepo: attendanceRepo,
		breakRepo:      breakRepo,
		leaveRepo:      leaveRepo,
		workLogRepo:    workLogRepo,
		auditRepo:      auditRepo,
		notifier:       notifier,
	}
}

// RegisterJobs registers the daily jobs in the order they must run.
func (j *DailyJobs) RegisterJobs(scheduler *Scheduler, hour, minute int) {
	scheduler.AddDailyJob("daily_absence_check", hour, minute, j.Run)
}

// Run executes the daily sequence. Break cleanup runs first so the absence
// check and later aggregation never see a break spanning midnight.
// A failing step is logged and the remaining steps still run.
func (j *DailyJobs) Run(ctx context.Context, now time.Time) error {
	var errs []error
	if err := j.CloseStaleBreaks(ctx, now); err != nil {
		slog.Error("Cron: Stale break cleanup failed", "error", err)
		errs = append(errs, err)
	}
	if _, err := j.BlockAbsentUsers(ctx, now); err != nil {
		slog.Error("Cron: Absence check failed", "error", err)
		errs = append(errs, err)
	}
	if err := j.ReconcileWorkLogs(ctx, now); err != nil {
		slog.Error("Cron: Work log reconcile failed", "error", err)
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// CloseStaleBreaks ends every break left open from a previous day at the last
// instant of the day it started.
func (j *DailyJobs) CloseStaleBreaks(ctx context.Context, now time.Time) error {
	stale, err := j.breakRepo.ListOpenStartedBefore(ctx, cycle.DayStart(now))
	if err != nil {
		return fmt.Errorf("failed to list stale breaks: %w", err)
	}

	closed := 0
	for _, b := range stale {
		end := cycle.DayEnd(b.StartTime)
		if _, err := j.breakRepo.Close(ctx, b.ID, end, attendance.BreakMinutes(b.StartTime, end)); err != nil {
			slog.Error("Cron: Failed to close stale break", "break_id", b.ID, "attendance_id", b.AttendanceID, "error", err)
			continue
		}
		closed++
	}

	slog.Info("Cron: Closed stale breaks", "count", closed, "found", len(stale))
	return nil
}

// BlockAbsentUsers blocks every eligible employee absent on each of the
// AbsenceWindowDays days before now. A day counts as present when the user
// checked in or an approved leave covers it. Returns the blocked user ids.
func (j *DailyJobs) BlockAbsentUsers(ctx context.Context, now time.Time) ([]string, error) {
	today := cycle.DayStart(now)
	users, err := j.userRepo.ListActiveEmployees(ctx, today.AddDate(0, 0, -MinTenureDays))
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}

	days := make([]time.Time, 0, AbsenceWindowDays)
	for i := AbsenceWindowDays; i >= 1; i-- {
		days = append(days, today.AddDate(0, 0, -i))
	}

	keys := make([]string, len(days))
	for i, d := range days {
		keys[i] = cycle.DateKey(d)
	}

	var blocked []string
	for _, u := range users {
		absent, err := j.evaluateAndBlock(ctx, u, days, keys)
		if err != nil {
			slog.Error("Cron: Failed to evaluate absence", "user_id", u.ID, "error", err)
			continue
		}
		if !absent {
			continue
		}

		blocked = append(blocked, u.ID)
		metrics.UsersBlocked.Inc()
		slog.Info("Cron: User blocked for absence", "user_id", u.ID)

		if j.notifier != nil {
			if err := j.notifier.SendAccountBlocked(u.Name, u.Email, keys); err != nil {
				slog.Warn("Cron: Failed to notify HR about blocked user", "user_id", u.ID, "error", err)
			}
		}
	}

	slog.Info("Cron: Absence check finished", "evaluated", len(users), "blocked", len(blocked))
	return blocked, nil
}

// evaluateAndBlock reads the user's window in one snapshot and blocks inside
// the same transaction when every day is unexplained.
func (j *DailyJobs) evaluateAndBlock(ctx context.Context, u user.User, days []time.Time, keys []string) (bool, error) {
	absent := false
	err := j.tx.WithinSnapshot(ctx, func(ctx context.Context) error {
		first, last := days[0], cycle.DayEnd(days[len(days)-1])
		leaves, err := j.leaveRepo.ListOverlapping(ctx, u.ID, first, last, []approval.Status{approval.StatusApproved})
		if err != nil {
			return fmt.Errorf("failed to list approved leaves: %w", err)
		}

		for _, day := range days {
			present, err := j.attendanceRepo.ExistsBetween(ctx, u.ID, cycle.DayStart(day), cycle.DayEnd(day))
			if err != nil {
				return fmt.Errorf("failed to check attendance: %w", err)
			}
			if present || coveredByLeave(leaves, day) {
				return nil
			}
		}

		if err := j.userRepo.UpdateStatus(ctx, u.ID, user.StatusBlocked); err != nil {
			return fmt.Errorf("failed to block user: %w", err)
		}
		if _, err := j.auditRepo.Create(ctx, audit.AuditLog{
			Action:     audit.ActionUserBlocked,
			EntityType: audit.EntityUser,
			EntityID:   u.ID,
			Details: map[string]any{
				"reason":      "absent without leave",
				"absent_days": keys,
			},
		}); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		absent = true
		return nil
	})
	return absent, err
}

func coveredByLeave(leaves []leave.LeaveRequest, day time.Time) bool {
	for _, l := range leaves {
		if l.Covers(day) {
			return true
		}
	}
	return false
}

// ReconcileWorkLogs auto-closes OPEN work logs dated before today.
func (j *DailyJobs) ReconcileWorkLogs(ctx context.Context, now time.Time) error {
	n, err := j.workLogRepo.CloseStaleOpen(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to reconcile work logs: %w", err)
	}
	slog.Info("Cron: Auto-closed open work logs", "count", n)
	return nil
}
