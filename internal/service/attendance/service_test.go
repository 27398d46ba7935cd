package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/worklog"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/cycle"
	"github.com/cmlabs-hris/workforce-backend-go/internal/service/servicetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func strPtr(s string) *string { return &s }

type fixture struct {
	svc      *AttendanceServiceImpl
	clock    *clock
	users    *servicetest.UserRepo
	store    *servicetest.AttendanceStore
	workLogs *servicetest.WorkLogRepo
}

func newFixture(users ...user.User) fixture {
	c := &clock{t: time.Date(2026, time.March, 2, 9, 0, 0, 0, cycle.Location)}
	userRepo := servicetest.NewUserRepo(users...)
	store := servicetest.NewAttendanceStore()
	workLogs := servicetest.NewWorkLogRepo()

	svc := NewAttendanceService(servicetest.Tx{}, store.Attendance(), store.BreakLogs(), userRepo, workLogs).(*AttendanceServiceImpl)
	svc.now = c.now
	return fixture{svc: svc, clock: c, users: userRepo, store: store, workLogs: workLogs}
}

var (
	emp   = user.User{ID: "emp-1", Name: "Asha", Role: user.RoleEmployee, Designation: user.DesignationLA, Status: user.StatusActive, ReportingBhID: strPtr("bh-1")}
	other = user.User{ID: "emp-2", Name: "Ravi", Role: user.RoleEmployee, Designation: user.DesignationCRE, Status: user.StatusActive}
	bh    = user.User{ID: "bh-1", Name: "Meera", Role: user.RoleBusinessHead, Status: user.StatusActive}

	empActor = user.Actor{ID: emp.ID, Role: emp.Role, Designation: emp.Designation}
	bhActor  = user.Actor{ID: bh.ID, Role: bh.Role}
)

func TestCheckIn_RejectsSecondOpenSession(t *testing.T) {
	f := newFixture(emp)
	ctx := context.Background()

	resp, err := f.svc.CheckIn(ctx, empActor, attendance.CheckInRequest{Device: strPtr("android")})
	require.NoError(t, err)
	assert.Equal(t, emp.ID, resp.UserID)
	assert.True(t, resp.Totals.Active)

	_, err = f.svc.CheckIn(ctx, empActor, attendance.CheckInRequest{})
	assert.ErrorIs(t, err, attendance.ErrOpenSessionExists)
}

func TestCheckIn_BlockedUser(t *testing.T) {
	blocked := emp
	blocked.Status = user.StatusBlocked
	f := newFixture(blocked)

	_, err := f.svc.CheckIn(context.Background(), empActor, attendance.CheckInRequest{})
	assert.ErrorIs(t, err, user.ErrUserBlocked)
}

func TestFullDay_BreaksAndCheckout(t *testing.T) {
	f := newFixture(emp)
	ctx := context.Background()

	_, err := f.svc.CheckIn(ctx, empActor, attendance.CheckInRequest{})
	require.NoError(t, err)

	f.clock.advance(2 * time.Hour)
	_, err = f.svc.StartBreak(ctx, empActor, attendance.StartBreakRequest{BreakType: "TEA"})
	require.NoError(t, err)

	_, err = f.svc.StartBreak(ctx, empActor, attendance.StartBreakRequest{BreakType: "LUNCH"})
	assert.ErrorIs(t, err, attendance.ErrBreakAlreadyOpen)

	f.clock.advance(15 * time.Minute)
	brk, err := f.svc.EndBreak(ctx, empActor)
	require.NoError(t, err)
	assert.Equal(t, 15, brk.Duration)

	f.clock.advance(3 * time.Hour)
	_, err = f.svc.StartBreak(ctx, empActor, attendance.StartBreakRequest{BreakType: "CLIENT_MEETING"})
	require.NoError(t, err)

	// Checkout closes the meeting that is still running.
	f.clock.advance(3*time.Hour + 45*time.Minute)
	resp, err := f.svc.CheckOut(ctx, empActor)
	require.NoError(t, err)
	require.NotNil(t, resp.CheckoutTime)
	require.Len(t, resp.Breaks, 2)
	assert.Equal(t, 540, resp.Totals.GrossMinutes)
	assert.Equal(t, 15, resp.Totals.DeductibleMinutes)
	assert.Equal(t, 225, resp.Totals.MeetingMinutes)
	assert.Equal(t, 525, resp.Totals.NetMinutes)

	_, err = f.svc.CheckOut(ctx, empActor)
	assert.ErrorIs(t, err, attendance.ErrNoOpenSession)
	_, err = f.svc.EndBreak(ctx, empActor)
	assert.ErrorIs(t, err, attendance.ErrNoOpenSession)
}

func TestStartBreak_Validation(t *testing.T) {
	f := newFixture(emp)
	_, err := f.svc.StartBreak(context.Background(), empActor, attendance.StartBreakRequest{BreakType: "NAP"})
	assert.Error(t, err)

	_, err = f.svc.StartBreak(context.Background(), empActor, attendance.StartBreakRequest{BreakType: "TEA"})
	assert.ErrorIs(t, err, attendance.ErrNoOpenSession)
}

func TestSummary_ScopedAndScored(t *testing.T) {
	f := newFixture(emp, other, bh)
	ctx := context.Background()

	for day := 2; day <= 3; day++ {
		f.clock.t = time.Date(2026, time.March, day, 9, 0, 0, 0, cycle.Location)
		_, err := f.svc.CheckIn(ctx, empActor, attendance.CheckInRequest{})
		require.NoError(t, err)
		f.clock.advance(9 * time.Hour)
		_, err = f.svc.CheckOut(ctx, empActor)
		require.NoError(t, err)
	}
	_, err := f.workLogs.Upsert(ctx, worklog.WorkLog{
		UserID:   emp.ID,
		WorkDate: time.Date(2026, time.March, 2, 0, 0, 0, 0, cycle.Location),
		Status:   worklog.StatusSubmitted,
	})
	require.NoError(t, err)

	q := attendance.WindowQuery{From: "2026-03-01", To: "2026-03-05"}
	summary, err := f.svc.Summary(ctx, bhActor, emp.ID, q)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.PresentDays)
	assert.Equal(t, 1080, summary.NetMinutes)
	assert.InDelta(t, 18.0, summary.NetHours, 1e-9)
	assert.InDelta(t, 1.0, summary.Efficiency, 1e-9)
	assert.Equal(t, 1, summary.SubmittedWorkLogDays)
	assert.InDelta(t, 0.5, summary.ConsistencyScore, 1e-9)
	assert.Equal(t, "2026-03-01", summary.From)
	assert.Equal(t, "2026-03-05", summary.To)

	_, err = f.svc.Summary(ctx, bhActor, other.ID, q)
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)

	_, err = f.svc.UserAttendance(ctx, empActor, other.ID, q)
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)
}

func TestMyAttendance_DefaultsToCurrentCycle(t *testing.T) {
	f := newFixture(emp)
	ctx := context.Background()

	_, err := f.svc.CheckIn(ctx, empActor, attendance.CheckInRequest{})
	require.NoError(t, err)

	totals, err := f.svc.MyAttendance(ctx, empActor, attendance.WindowQuery{})
	require.NoError(t, err)
	require.Len(t, totals.Days, 1)
	assert.True(t, totals.HasActiveSession)
	assert.Equal(t, "2026-03-02", totals.Days[0].Date)

	_, err = f.svc.MyAttendance(ctx, empActor, attendance.WindowQuery{From: "2026-03-05", To: "2026-03-01"})
	assert.Error(t, err)
}
