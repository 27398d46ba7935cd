package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/approval"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/worklog"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/cycle"
	"github.com/cmlabs-hris/workforce-backend-go/internal/service/servicetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type notice struct {
	name, email string
	days        []string
}

type fakeNotifier struct {
	sent []notice
	err  error
}

func (n *fakeNotifier) SendAccountBlocked(userName, userEmail string, absentDays []string) error {
	n.sent = append(n.sent, notice{userName, userEmail, absentDays})
	return n.err
}

// failingAttendance errors for one user and delegates the rest.
type failingAttendance struct {
	attendance.AttendanceRepository
	userID string
}

func (f failingAttendance) ExistsBetween(ctx context.Context, userID string, from, to time.Time) (bool, error) {
	if userID == f.userID {
		return false, errors.New("connection reset")
	}
	return f.AttendanceRepository.ExistsBetween(ctx, userID, from, to)
}

// failingBreaks cannot list open breaks.
type failingBreaks struct {
	attendance.BreakLogRepository
}

func (failingBreaks) ListOpenStartedBefore(context.Context, time.Time) ([]attendance.BreakLog, error) {
	return nil, errors.New("connection reset")
}

type fixture struct {
	jobs     *DailyJobs
	users    *servicetest.UserRepo
	store    *servicetest.AttendanceStore
	leaves   *servicetest.LeaveRepo
	workLogs *servicetest.WorkLogRepo
	audits   *servicetest.AuditRepo
	notifier *fakeNotifier
}

func newFixture(attendanceRepo func(attendance.AttendanceRepository) attendance.AttendanceRepository, users ...user.User) fixture {
	userRepo := servicetest.NewUserRepo(users...)
	store := servicetest.NewAttendanceStore()
	leaves := servicetest.NewLeaveRepo(userRepo)
	workLogs := servicetest.NewWorkLogRepo()
	audits := &servicetest.AuditRepo{}
	notifier := &fakeNotifier{}

	var att attendance.AttendanceRepository = store.Attendance()
	if attendanceRepo != nil {
		att = attendanceRepo(att)
	}
	jobs := NewDailyJobs(servicetest.Tx{}, userRepo, att, store.BreakLogs(), leaves, workLogs, audits, notifier)
	return fixture{jobs: jobs, users: userRepo, store: store, leaves: leaves, workLogs: workLogs, audits: audits, notifier: notifier}
}

var (
	now      = time.Date(2026, time.March, 10, 1, 0, 0, 0, cycle.Location)
	longAgo  = time.Date(2026, time.February, 1, 9, 0, 0, 0, cycle.Location)
	employee = func(id string) user.User {
		return user.User{ID: id, Name: "User " + id, Email: id + "@example.com", Role: user.RoleEmployee, Status: user.StatusActive, CreatedAt: longAgo}
	}
)

func day(d, hour int) time.Time {
	return time.Date(2026, time.March, d, hour, 0, 0, 0, cycle.Location)
}

func TestBlockAbsentUsers(t *testing.T) {
	absent := employee("emp-absent")
	present := employee("emp-present")
	onLeave := employee("emp-leave")
	newbie := employee("emp-new")
	newbie.CreatedAt = day(8, 10)
	hr := employee("hr-1")
	hr.Role = user.RoleHR

	f := newFixture(nil, absent, present, onLeave, newbie, hr)
	ctx := context.Background()

	_, err := f.store.Attendance().Create(ctx, attendance.Attendance{UserID: present.ID, Date: day(8, 9)})
	require.NoError(t, err)
	_, err = f.leaves.Create(ctx, leave.LeaveRequest{
		UserID: onLeave.ID, Kind: leave.KindSick,
		StartDate: day(7, 0), EndDate: day(9, 0),
		Status: approval.StatusApproved,
	})
	require.NoError(t, err)

	blocked, err := f.jobs.BlockAbsentUsers(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, []string{absent.ID}, blocked)

	u, _ := f.users.GetByID(ctx, absent.ID)
	assert.Equal(t, user.StatusBlocked, u.Status)
	u, _ = f.users.GetByID(ctx, present.ID)
	assert.Equal(t, user.StatusActive, u.Status)

	require.Len(t, f.audits.Logs, 1)
	log := f.audits.Logs[0]
	assert.Equal(t, audit.ActionUserBlocked, log.Action)
	assert.Equal(t, absent.ID, log.EntityID)
	assert.Nil(t, log.ActorID)
	assert.Equal(t, []string{"2026-03-07", "2026-03-08", "2026-03-09"}, log.Details["absent_days"])

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, absent.Email, f.notifier.sent[0].email)
}

func TestBlockAbsentUsers_PendingLeaveDoesNotExcuse(t *testing.T) {
	u := employee("emp-1")
	f := newFixture(nil, u)
	_, err := f.leaves.Create(context.Background(), leave.LeaveRequest{
		UserID: u.ID, Kind: leave.KindCasual,
		StartDate: day(7, 0), EndDate: day(9, 0),
		Status: approval.StatusPending,
	})
	require.NoError(t, err)

	blocked, err := f.jobs.BlockAbsentUsers(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, []string{u.ID}, blocked)
}

func TestBlockAbsentUsers_IsolatesFailures(t *testing.T) {
	broken := employee("emp-a")
	fine := employee("emp-b")
	f := newFixture(func(r attendance.AttendanceRepository) attendance.AttendanceRepository {
		return failingAttendance{AttendanceRepository: r, userID: broken.ID}
	}, broken, fine)
	f.notifier.err = errors.New("smtp down")

	blocked, err := f.jobs.BlockAbsentUsers(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, []string{fine.ID}, blocked)

	u, _ := f.users.GetByID(context.Background(), broken.ID)
	assert.Equal(t, user.StatusActive, u.Status)
}

func TestCloseStaleBreaks(t *testing.T) {
	u := employee("emp-1")
	f := newFixture(nil, u)
	ctx := context.Background()

	session, err := f.store.Attendance().Create(ctx, attendance.Attendance{UserID: u.ID, Date: day(9, 9)})
	require.NoError(t, err)
	stale, err := f.store.BreakLogs().Create(ctx, attendance.BreakLog{AttendanceID: session.ID, BreakType: attendance.BreakTea, StartTime: day(9, 18)})
	require.NoError(t, err)

	today, err := f.store.Attendance().Create(ctx, attendance.Attendance{UserID: u.ID, Date: now})
	require.NoError(t, err)
	fresh, err := f.store.BreakLogs().Create(ctx, attendance.BreakLog{AttendanceID: today.ID, BreakType: attendance.BreakTea, StartTime: now.Add(5 * time.Minute)})
	require.NoError(t, err)

	require.NoError(t, f.jobs.CloseStaleBreaks(ctx, now))

	got := f.store.Breaks[stale.ID]
	require.NotNil(t, got.EndTime)
	assert.Equal(t, cycle.DayEnd(day(9, 0)), *got.EndTime)
	assert.Equal(t, 359, got.Duration)

	assert.Nil(t, f.store.Breaks[fresh.ID].EndTime)
}

func TestRun_ReconcilesWorkLogs(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()

	_, err := f.workLogs.Upsert(ctx, worklog.WorkLog{UserID: "emp-1", WorkDate: day(9, 0), Status: worklog.StatusOpen})
	require.NoError(t, err)
	_, err = f.workLogs.Upsert(ctx, worklog.WorkLog{UserID: "emp-1", WorkDate: day(10, 0), Status: worklog.StatusOpen})
	require.NoError(t, err)

	require.NoError(t, f.jobs.Run(ctx, now))

	old, err := f.workLogs.GetByUserAndDate(ctx, "emp-1", day(9, 0))
	require.NoError(t, err)
	assert.Equal(t, worklog.StatusAutoClosed, old.Status)

	current, err := f.workLogs.GetByUserAndDate(ctx, "emp-1", day(10, 0))
	require.NoError(t, err)
	assert.Equal(t, worklog.StatusOpen, current.Status)
}

func TestRun_ContinuesAfterBreakCleanupFailure(t *testing.T) {
	absent := employee("emp-1")
	f := newFixture(nil, absent)
	f.jobs.breakRepo = failingBreaks{BreakLogRepository: f.store.BreakLogs()}
	ctx := context.Background()

	_, err := f.workLogs.Upsert(ctx, worklog.WorkLog{UserID: absent.ID, WorkDate: day(9, 0), Status: worklog.StatusOpen})
	require.NoError(t, err)

	err = f.jobs.Run(ctx, now)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list stale breaks")

	u, err := f.users.GetByID(ctx, absent.ID)
	require.NoError(t, err)
	assert.Equal(t, user.StatusBlocked, u.Status)

	old, err := f.workLogs.GetByUserAndDate(ctx, absent.ID, day(9, 0))
	require.NoError(t, err)
	assert.Equal(t, worklog.StatusAutoClosed, old.Status)
}

func TestRegisterJobs(t *testing.T) {
	s := NewScheduler()
	f := newFixture(nil)
	f.jobs.RegisterJobs(s, 0, 30)

	jobs := s.Jobs()
	require.Len(t, jobs, 1)
	assert.True(t, jobs[0].Daily)
	assert.Equal(t, 30, jobs[0].Minute)
}
