package servicetest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/worklog"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/cycle"
)

// AttendanceStore backs both AttendanceRepository and BreakLogRepository so
// breaks attach to their sessions the way the SQL join does.
type AttendanceStore struct {
	mu       sync.Mutex
	seq      int
	Sessions map[string]attendance.Attendance
	Breaks   map[string]attendance.BreakLog
}

func NewAttendanceStore() *AttendanceStore {
	return &AttendanceStore{
		Sessions: make(map[string]attendance.Attendance),
		Breaks:   make(map[string]attendance.BreakLog),
	}
}

func (s *AttendanceStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

// Attendance returns the session side of the store.
func (s *AttendanceStore) Attendance() attendance.AttendanceRepository { return attendanceRepo{s} }

// BreakLogs returns the break side of the store.
func (s *AttendanceStore) BreakLogs() attendance.BreakLogRepository { return breakRepo{s} }

type attendanceRepo struct{ s *AttendanceStore }

func (r attendanceRepo) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if a.ID == "" {
		a.ID = r.s.nextID("att")
	}
	a.CreatedAt = a.Date
	a.UpdatedAt = a.Date
	r.s.Sessions[a.ID] = a
	return a, nil
}

func (r attendanceRepo) GetOpenSession(ctx context.Context, userID string) (attendance.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.Sessions {
		if a.UserID == userID && a.IsOpen() {
			return a, nil
		}
	}
	return attendance.Attendance{}, attendance.ErrNoOpenSession
}

func (r attendanceRepo) Close(ctx context.Context, id string, checkoutTime time.Time) (attendance.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.Sessions[id]
	if !ok || !a.IsOpen() {
		return attendance.Attendance{}, attendance.ErrNoOpenSession
	}
	a.CheckoutTime = &checkoutTime
	r.s.Sessions[id] = a
	return a, nil
}

func (r attendanceRepo) ListByUserWindow(ctx context.Context, userID string, from, to time.Time) ([]attendance.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []attendance.Attendance
	for _, a := range r.s.Sessions {
		if a.UserID != userID || a.Date.Before(from) || a.Date.After(to) {
			continue
		}
		a.Breaks = nil
		for _, b := range r.s.Breaks {
			if b.AttendanceID == a.ID {
				a.Breaks = append(a.Breaks, b)
			}
		}
		sort.Slice(a.Breaks, func(i, j int) bool { return a.Breaks[i].StartTime.Before(a.Breaks[j].StartTime) })
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r attendanceRepo) ExistsBetween(ctx context.Context, userID string, from, to time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.Sessions {
		if a.UserID == userID && !a.Date.Before(from) && !a.Date.After(to) {
			return true, nil
		}
	}
	return false, nil
}

type breakRepo struct{ s *AttendanceStore }

func (r breakRepo) Create(ctx context.Context, b attendance.BreakLog) (attendance.BreakLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if b.ID == "" {
		b.ID = r.s.nextID("brk")
	}
	if a, ok := r.s.Sessions[b.AttendanceID]; ok {
		b.UserID = a.UserID
	}
	b.CreatedAt = b.StartTime
	r.s.Breaks[b.ID] = b
	return b, nil
}

func (r breakRepo) GetOpenByAttendance(ctx context.Context, attendanceID string) (attendance.BreakLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, b := range r.s.Breaks {
		if b.AttendanceID == attendanceID && b.IsOpen() {
			return b, nil
		}
	}
	return attendance.BreakLog{}, attendance.ErrNoOpenBreak
}

func (r breakRepo) Close(ctx context.Context, id string, endTime time.Time, duration int) (attendance.BreakLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.Breaks[id]
	if !ok || !b.IsOpen() {
		return attendance.BreakLog{}, attendance.ErrNoOpenBreak
	}
	b.EndTime = &endTime
	b.Duration = duration
	r.s.Breaks[id] = b
	return b, nil
}

func (r breakRepo) ListOpenStartedBefore(ctx context.Context, before time.Time) ([]attendance.BreakLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []attendance.BreakLog
	for _, b := range r.s.Breaks {
		if b.IsOpen() && b.StartTime.Before(before) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

type WorkLogRepo struct {
	mu   sync.Mutex
	seq  int
	Logs map[string]worklog.WorkLog // keyed by user id and date
}

func NewWorkLogRepo() *WorkLogRepo {
	return &WorkLogRepo{Logs: make(map[string]worklog.WorkLog)}
}

func workLogKey(userID string, day time.Time) string {
	return userID + "/" + cycle.DateKey(day)
}

func (r *WorkLogRepo) GetByUserAndDate(ctx context.Context, userID string, workDate time.Time) (worklog.WorkLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.Logs[workLogKey(userID, workDate)]
	if !ok {
		return worklog.WorkLog{}, worklog.ErrWorkLogNotFound
	}
	return l, nil
}

func (r *WorkLogRepo) Upsert(ctx context.Context, l worklog.WorkLog) (worklog.WorkLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := workLogKey(l.UserID, l.WorkDate)
	if existing, ok := r.Logs[key]; ok {
		l.ID = existing.ID
		l.CreatedAt = existing.CreatedAt
	} else {
		r.seq++
		l.ID = fmt.Sprintf("wl-%d", r.seq)
		l.CreatedAt = time.Now()
	}
	l.UpdatedAt = time.Now()
	r.Logs[key] = l
	return l, nil
}

func (r *WorkLogRepo) ListByUser(ctx context.Context, userID string, from, to time.Time) ([]worklog.WorkLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []worklog.WorkLog
	for _, l := range r.Logs {
		if l.UserID == userID && !l.WorkDate.Before(cycle.DayStart(from)) && !l.WorkDate.After(to) {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WorkDate.Before(out[j].WorkDate) })
	return out, nil
}

func (r *WorkLogRepo) CountSubmittedDays(ctx context.Context, userID string, from, to time.Time) (int, error) {
	logs, _ := r.ListByUser(ctx, userID, from, to)
	n := 0
	for _, l := range logs {
		if l.Status == worklog.StatusSubmitted {
			n++
		}
	}
	return n, nil
}

func (r *WorkLogRepo) CloseStaleOpen(ctx context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for key, l := range r.Logs {
		if l.Status == worklog.StatusOpen && l.WorkDate.Before(cycle.DayStart(before)) {
			l.Status = worklog.StatusAutoClosed
			r.Logs[key] = l
			n++
		}
	}
	return n, nil
}
